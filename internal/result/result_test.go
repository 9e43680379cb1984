package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	connErr := &agenttext.ConnectionError{BaseURL: "http://recorded:1", Err: errors.New("connection refused")}
	apiErr := &agenttext.APIError{StatusCode: 400, Message: "recipient is required"}

	tests := []struct {
		name    string
		err     error
		baseURL string
		kind    Kind
		message string
	}{
		{
			name:    "connection",
			err:     connErr,
			baseURL: "http://localhost:3000",
			kind:    KindConnection,
			message: "Connection error: connection refused. Make sure the API server is running on http://localhost:3000",
		},
		{
			name:    "connection falls back to client url",
			err:     fmt.Errorf("list chats: %w", connErr),
			kind:    KindConnection,
			message: "Connection error: list chats: connection refused. Make sure the API server is running on http://recorded:1",
		},
		{
			name:    "api",
			err:     apiErr,
			kind:    KindAPI,
			message: "API error: recipient is required (HTTP 400)",
		},
		{
			name:    "validation passes through",
			err:     Validation("File not found: %s", "/tmp/x"),
			kind:    KindValidation,
			message: "File not found: /tmp/x",
		},
		{
			name:    "unknown",
			err:     errors.New("boom"),
			kind:    KindUnknown,
			message: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, tt.baseURL)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.message, got.Error())
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, Classify(nil, ""))
}

func TestConnectionErrorNamesBaseURL(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("connection failures name the configured base URL", prop.ForAll(
		func(host string, port int, cause string) bool {
			baseURL := fmt.Sprintf("http://%s:%d", host, port)
			err := &agenttext.ConnectionError{BaseURL: "http://other", Err: errors.New(cause)}
			classified := Classify(fmt.Errorf("wrapped: %w", err), baseURL)
			return classified.Kind == KindConnection &&
				strings.Contains(classified.Error(), baseURL)
		},
		gen.Identifier(),
		gen.IntRange(1, 65535),
		gen.AnyString(),
	))

	properties.Property("api failures never claim a connection problem", prop.ForAll(
		func(status int, msg string) bool {
			err := &agenttext.APIError{StatusCode: status, Message: msg}
			classified := Classify(err, "http://localhost:3000")
			return classified.Kind == KindAPI &&
				strings.HasPrefix(classified.Error(), "API error: ")
		},
		gen.IntRange(400, 599),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestPrinter(t *testing.T) {
	t.Run("compact", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewPrinter(&buf, false)
		require.NoError(t, p.Print(NewNotice("a <b> & c")))
		assert.Equal(t, `{"success":true,"message":"a <b> & c"}`+"\n", buf.String())
	})

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewPrinter(&buf, true)
		require.NoError(t, p.Print(NewChatList(nil)))
		assert.Equal(t, "{\n  \"success\": true,\n  \"chats\": [],\n  \"count\": 0\n}\n", buf.String())
	})

	t.Run("stream ignores pretty", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewPrinter(&buf, true)
		var msg agenttext.Message
		require.NoError(t, json.Unmarshal([]byte(`{"id": "1",  "content": "hi"}`), &msg))
		require.NoError(t, p.Stream(NewEvent(msg)))
		assert.Equal(t, `{"event":"message","data":{"id":"1","content":"hi"}}`+"\n", buf.String())
	})

	t.Run("fail", func(t *testing.T) {
		var buf bytes.Buffer
		p := NewPrinter(&buf, false)
		err := p.Fail(&agenttext.ConnectionError{Err: errors.New("refused")}, "http://localhost:9")
		assert.Equal(t, KindConnection, err.Kind)

		var out Failure
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.False(t, out.Success)
		assert.Contains(t, out.Error, "http://localhost:9")
	})
}

func TestConstructors(t *testing.T) {
	batch := NewBatchResult(3, nil)
	assert.Equal(t, "Sent 3 messages", batch.Message)
	assert.NotNil(t, batch.Results)

	list := NewMessageList([]agenttext.Message{{ID: "1"}, {ID: "2"}})
	assert.Equal(t, 2, list.Count)
	assert.True(t, list.Success)

	send := NewSendResult("Message sent to x", nil)
	out, err := json.Marshal(send)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"message":"Message sent to x","result":{}}`, string(out))

	failure := NewFailure(Validation("JSON file must contain an array of messages"))
	out, err = json.Marshal(failure)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"JSON file must contain an array of messages"}`, string(out))
}
