package agenttext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// ID is a server identifier. The server is not consistent about sending ids
// as strings or numbers, so both decode into the same value.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(n.String())
	}
	return nil
}

// ChatType filters chats by their participant structure.
type ChatType string

const (
	ChatTypeGroup  ChatType = "group"
	ChatTypeDirect ChatType = "direct"
)

// Message is a received or sent message. Fields not modelled here are kept
// in the server's encoding and survive re-marshaling.
type Message struct {
	ID          ID           `json:"id,omitempty"`
	ChatID      ID           `json:"chatId,omitempty"`
	Sender      string       `json:"sender,omitempty"`
	Content     string       `json:"content,omitempty"`
	IsRead      bool         `json:"isRead,omitempty"`
	IsFromMe    bool         `json:"isFromMe,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	raw json.RawMessage
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	raw, err := decodeObject(data, (*plain)(m))
	if err != nil {
		return err
	}
	m.raw = raw
	return nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	type plain Message
	return json.Marshal(plain(m))
}

// Attachment describes a file carried by a message.
type Attachment struct {
	Name     string `json:"name,omitempty"`
	Path     string `json:"path,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Chat is a conversation with one or more participants.
type Chat struct {
	ID   ID       `json:"id,omitempty"`
	Name string   `json:"name,omitempty"`
	Type ChatType `json:"type,omitempty"`

	raw json.RawMessage
}

func (c *Chat) UnmarshalJSON(data []byte) error {
	type plain Chat
	raw, err := decodeObject(data, (*plain)(c))
	if err != nil {
		return err
	}
	c.raw = raw
	return nil
}

func (c Chat) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	type plain Chat
	return json.Marshal(plain(c))
}

// SendReceipt is the server's acknowledgement of a send.
type SendReceipt struct {
	ID        ID     `json:"id,omitempty"`
	MessageID ID     `json:"messageId,omitempty"`
	To        string `json:"to,omitempty"`
	Status    string `json:"status,omitempty"`

	raw json.RawMessage
}

func (r *SendReceipt) UnmarshalJSON(data []byte) error {
	type plain SendReceipt
	raw, err := decodeObject(data, (*plain)(r))
	if err != nil {
		return err
	}
	r.raw = raw
	return nil
}

func (r SendReceipt) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	type plain SendReceipt
	return json.Marshal(plain(r))
}

// WatcherStatus is what the server reports about its background watcher,
// both for status queries and as the reply to start/stop.
type WatcherStatus struct {
	Running bool     `json:"running,omitempty"`
	Mode    string   `json:"mode,omitempty"`
	Webhook *Webhook `json:"webhook,omitempty"`

	raw json.RawMessage
}

func (s *WatcherStatus) UnmarshalJSON(data []byte) error {
	type plain WatcherStatus
	raw, err := decodeObject(data, (*plain)(s))
	if err != nil {
		return err
	}
	s.raw = raw
	return nil
}

func (s WatcherStatus) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}
	type plain WatcherStatus
	return json.Marshal(plain(s))
}

// Webhook is a notification target the server posts new messages to.
type Webhook struct {
	URL string `json:"url"`
}

// OutgoingMessage is one entry of a batch send.
type OutgoingMessage struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

// ListOptions filters Messages.List.
type ListOptions struct {
	Limit      int
	Sender     string
	UnreadOnly bool
}

// ChatListOptions filters Chats.List.
type ChatListOptions struct {
	Limit int
	Type  ChatType
}

// decodeObject fills the tagged fields of dst when data is a JSON object and
// returns a private copy of data. Each field is decoded on its own and a field
// whose value does not fit its Go type is left zero: the raw copy is what gets
// printed, the typed fields are conveniences. Any other JSON value is kept
// only in its raw form.
func decodeObject(data []byte, dst any) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	raw := append(json.RawMessage(nil), trimmed...)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		value, ok := fields[name]
		if !ok {
			continue
		}
		decoded := reflect.New(f.Type)
		if err := json.Unmarshal(value, decoded.Interface()); err != nil {
			continue
		}
		v.Field(i).Set(decoded.Elem())
	}
	return raw, nil
}
