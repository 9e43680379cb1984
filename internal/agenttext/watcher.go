package agenttext

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	pathWatcherStart  = "/api/watcher/start"
	pathWatcherStop   = "/api/watcher/stop"
	pathWatcherStatus = "/api/watcher/status"

	// DefaultPollInterval is how often a Subscription asks for unread messages.
	DefaultPollInterval = 2 * time.Second
)

// WatcherService controls the server's background message watcher.
type WatcherService struct {
	client *Client
}

// Start turns the server watcher on. With a non-nil webhook the server also
// posts every new message to it.
func (s *WatcherService) Start(ctx context.Context, webhook *Webhook) (*WatcherStatus, error) {
	payload := struct {
		Webhook *Webhook `json:"webhook,omitempty"`
	}{Webhook: webhook}

	body, err := s.client.postJSON(ctx, pathWatcherStart, payload)
	if err != nil {
		return nil, err
	}
	var status WatcherStatus
	if err := decodeInto(body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Stop turns the server watcher off.
func (s *WatcherService) Stop(ctx context.Context) (*WatcherStatus, error) {
	body, err := s.client.postJSON(ctx, pathWatcherStop, nil)
	if err != nil {
		return nil, err
	}
	var status WatcherStatus
	if err := decodeInto(body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Status reports the server watcher state.
func (s *WatcherService) Status(ctx context.Context) (*WatcherStatus, error) {
	body, err := s.client.get(ctx, pathWatcherStatus, nil)
	if err != nil {
		return nil, err
	}
	var status WatcherStatus
	if err := decodeInto(body, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// MessageHandler receives each new message once.
type MessageHandler func(Message)

// SeenStore remembers which messages were already handed to a handler.
type SeenStore interface {
	Seen(key string) (bool, error)
	MarkSeen(key string, msg Message) error
}

// WatchOptions configures Watch.
type WatchOptions struct {
	// Interval between unread polls. Zero means DefaultPollInterval.
	Interval time.Duration
	// Webhook is passed to Start.
	Webhook *Webhook
	// Seen defaults to an in-memory store scoped to the subscription.
	Seen SeenStore
	// OnError is called for poll and store failures; polling continues.
	OnError func(error)
}

// Subscription is a running watch. It owns one polling goroutine, which is
// also the only goroutine that calls the handler.
type Subscription struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Watch starts the server watcher and then polls for unread messages until
// ctx is cancelled or Stop is called.
func (s *WatcherService) Watch(ctx context.Context, handler MessageHandler, opts WatchOptions) (*Subscription, error) {
	if handler == nil {
		return nil, errors.New("watch: nil message handler")
	}
	if _, err := s.Start(ctx, opts.Webhook); err != nil {
		return nil, err
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	seen := opts.Seen
	if seen == nil {
		seen = newMemorySeen()
	}
	onError := opts.OnError
	if onError == nil {
		onError = func(error) {}
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	p := &poller{
		client:  s.client,
		handler: handler,
		seen:    seen,
		onError: onError,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
	go func() {
		defer close(sub.done)
		p.run(ctx)
	}()
	return sub, nil
}

// Stop cancels polling and waits for the polling goroutine to exit. It does
// not stop the server watcher.
func (s *Subscription) Stop() {
	s.stopOnce.Do(s.cancel)
	<-s.done
}

// Done is closed once polling has ended.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

type poller struct {
	client  *Client
	handler MessageHandler
	seen    SeenStore
	onError func(error)
	limiter *rate.Limiter
}

func (p *poller) run(ctx context.Context) {
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return
		}
		messages, err := p.client.Messages.GetUnread(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.onError(err)
			continue
		}
		for _, msg := range messages {
			if ctx.Err() != nil {
				return
			}
			p.deliver(msg)
		}
	}
}

func (p *poller) deliver(msg Message) {
	key := messageKey(msg)
	seen, err := p.seen.Seen(key)
	if err != nil {
		p.onError(err)
		return
	}
	if seen {
		return
	}
	p.handler(msg)
	if err := p.seen.MarkSeen(key, msg); err != nil {
		p.onError(err)
	}
	p.client.logger.Debug("Message delivered", zap.String("key", key))
}

// messageKey identifies a message across polls: its id when the server
// sends one, a content hash otherwise.
func messageKey(msg Message) string {
	if msg.ID != "" {
		return "id:" + string(msg.ID)
	}
	encoded, _ := msg.MarshalJSON()
	sum := sha256.Sum256(encoded)
	return "sha256:" + hex.EncodeToString(sum[:])
}

type memorySeen struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newMemorySeen() *memorySeen {
	return &memorySeen{keys: make(map[string]struct{})}
}

func (m *memorySeen) Seen(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.keys[key]
	return ok, nil
}

func (m *memorySeen) MarkSeen(key string, _ Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = struct{}{}
	return nil
}
