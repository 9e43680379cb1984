package agenttext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

const (
	pathSend      = "/api/messages/send"
	pathSendFiles = "/api/messages/send-files"
	pathSendBatch = "/api/messages/send-batch"
	pathMessages  = "/api/messages"
	pathUnread    = "/api/messages/unread"
)

// MessagesService covers sending and reading messages.
type MessagesService struct {
	client *Client
}

// Send delivers a text message to a phone number or email address.
func (s *MessagesService) Send(ctx context.Context, to, content string) (*SendReceipt, error) {
	body, err := s.client.postJSON(ctx, pathSend, OutgoingMessage{To: to, Content: content})
	if err != nil {
		return nil, err
	}
	var receipt SendReceipt
	if err := decodeInto(body, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// SendFile delivers a single file with an optional caption.
func (s *MessagesService) SendFile(ctx context.Context, to, path, text string) (*SendReceipt, error) {
	return s.SendFiles(ctx, to, []string{path}, text)
}

// SendFiles delivers text together with one or more attachments.
func (s *MessagesService) SendFiles(ctx context.Context, to string, paths []string, text string) (*SendReceipt, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to send")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("to", to); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if text != "" {
		if err := mw.WriteField("text", text); err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
	}
	for _, path := range paths {
		if err := attachFile(mw, path); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := s.client.newRequest(ctx, http.MethodPost, pathSendFiles, nil, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	body, err := s.client.do(req)
	if err != nil {
		return nil, err
	}
	var receipt SendReceipt
	if err := decodeInto(body, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

func attachFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read attachment %s: %w", path, err)
	}
	return nil
}

// SendBatch delivers every message in one request. The server answers with
// one receipt per message.
func (s *MessagesService) SendBatch(ctx context.Context, messages []OutgoingMessage) ([]SendReceipt, error) {
	payload := struct {
		Messages []OutgoingMessage `json:"messages"`
	}{Messages: messages}

	body, err := s.client.postJSON(ctx, pathSendBatch, payload)
	if err != nil {
		return nil, err
	}
	return decodeList[SendReceipt](body, "results")
}

// List returns recent messages matching opts.
func (s *MessagesService) List(ctx context.Context, opts ListOptions) ([]Message, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Sender != "" {
		query.Set("sender", opts.Sender)
	}
	if opts.UnreadOnly {
		query.Set("unreadOnly", "true")
	}

	body, err := s.client.get(ctx, pathMessages, query)
	if err != nil {
		return nil, err
	}
	return decodeList[Message](body, "messages")
}

// GetUnread returns every message not yet marked as read.
func (s *MessagesService) GetUnread(ctx context.Context) ([]Message, error) {
	body, err := s.client.get(ctx, pathUnread, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Message](body, "messages")
}
