package result

import (
	"encoding/json"
	"io"
	"sync"
)

// Printer writes envelopes to a stream, one JSON document per line.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	pretty bool
}

// NewPrinter returns a Printer. With pretty set, Print indents its output;
// Stream never does.
func NewPrinter(w io.Writer, pretty bool) *Printer {
	return &Printer{w: w, pretty: pretty}
}

// Print writes a single-document result.
func (p *Printer) Print(env Envelope) error {
	return p.write(env, p.pretty)
}

// Stream writes one line of a multi-document stream.
func (p *Printer) Stream(env Envelope) error {
	return p.write(env, false)
}

// Fail prints the classified error and returns it, so callers can hand it
// straight back to the command runner.
func (p *Printer) Fail(err error, baseURL string) *Error {
	classified := Classify(err, baseURL)
	// A write failure here has nowhere better to go.
	_ = p.write(NewFailure(classified), p.pretty)
	return classified
}

func (p *Printer) write(v any, indent bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
