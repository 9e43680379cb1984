package result

import (
	"fmt"

	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/berrythewa/agenttext/internal/storage"
)

// Envelope is implemented by every document a command prints.
type Envelope interface {
	envelope()
}

// Failure reports a handled error.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Notice is a bare success line with a message.
type Notice struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageList answers get-messages.
type MessageList struct {
	Success  bool                `json:"success"`
	Messages []agenttext.Message `json:"messages"`
	Count    int                 `json:"count"`
}

// UnreadList answers get-unread.
type UnreadList struct {
	Success bool                `json:"success"`
	Unread  []agenttext.Message `json:"unread"`
}

// ChatList answers list-chats.
type ChatList struct {
	Success bool             `json:"success"`
	Chats   []agenttext.Chat `json:"chats"`
	Count   int              `json:"count"`
}

// SendResult answers send-message, send-file and simple-test.
type SendResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	File    string                 `json:"file,omitempty"`
	Result  *agenttext.SendReceipt `json:"result"`
}

// BatchResult answers batch-send.
type BatchResult struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Results []agenttext.SendReceipt `json:"results"`
}

// WatcherResult answers the watcher actions. Status is set only for the
// status action, Result only for start and stop.
type WatcherResult struct {
	Success bool                     `json:"success"`
	Action  string                   `json:"action"`
	Message string                   `json:"message,omitempty"`
	Result  *agenttext.WatcherStatus `json:"result,omitempty"`
	Status  *agenttext.WatcherStatus `json:"status,omitempty"`
}

// Event is one streamed message from the watch loop.
type Event struct {
	Event string            `json:"event"`
	Data  agenttext.Message `json:"data"`
}

// HistoryList answers history with journal entries, newest first.
type HistoryList struct {
	Success bool            `json:"success"`
	Events  []storage.Entry `json:"events"`
	Count   int             `json:"count"`
}

// ConfigView answers config show and config init.
type ConfigView struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path"`
	Config  any    `json:"config,omitempty"`
}

// VersionInfo answers version.
type VersionInfo struct {
	Success   bool   `json:"success"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func (Failure) envelope()       {}
func (Notice) envelope()        {}
func (MessageList) envelope()   {}
func (UnreadList) envelope()    {}
func (ChatList) envelope()      {}
func (SendResult) envelope()    {}
func (BatchResult) envelope()   {}
func (WatcherResult) envelope() {}
func (Event) envelope()         {}
func (HistoryList) envelope()   {}
func (ConfigView) envelope()    {}
func (VersionInfo) envelope()   {}

func NewFailure(err error) Failure {
	return Failure{Success: false, Error: err.Error()}
}

func NewNotice(message string) Notice {
	return Notice{Success: true, Message: message}
}

func NewMessageList(messages []agenttext.Message) MessageList {
	if messages == nil {
		messages = []agenttext.Message{}
	}
	return MessageList{Success: true, Messages: messages, Count: len(messages)}
}

func NewUnreadList(messages []agenttext.Message) UnreadList {
	if messages == nil {
		messages = []agenttext.Message{}
	}
	return UnreadList{Success: true, Unread: messages}
}

func NewChatList(chats []agenttext.Chat) ChatList {
	if chats == nil {
		chats = []agenttext.Chat{}
	}
	return ChatList{Success: true, Chats: chats, Count: len(chats)}
}

func NewSendResult(message string, receipt *agenttext.SendReceipt) SendResult {
	if receipt == nil {
		receipt = &agenttext.SendReceipt{}
	}
	return SendResult{Success: true, Message: message, Result: receipt}
}

func NewBatchResult(sent int, receipts []agenttext.SendReceipt) BatchResult {
	if receipts == nil {
		receipts = []agenttext.SendReceipt{}
	}
	return BatchResult{
		Success: true,
		Message: fmt.Sprintf("Sent %d messages", sent),
		Results: receipts,
	}
}

func NewEvent(msg agenttext.Message) Event {
	return Event{Event: "message", Data: msg}
}

func NewHistoryList(entries []storage.Entry) HistoryList {
	if entries == nil {
		entries = []storage.Entry{}
	}
	return HistoryList{Success: true, Events: entries, Count: len(entries)}
}
