package agenttext

import (
	"context"
	"net/url"
	"strconv"
)

const pathChats = "/api/chats"

// ChatsService lists conversations.
type ChatsService struct {
	client *Client
}

// List returns chats, most recently active first as ordered by the server.
func (s *ChatsService) List(ctx context.Context, opts ChatListOptions) ([]Chat, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Type != "" {
		query.Set("type", string(opts.Type))
	}

	body, err := s.client.get(ctx, pathChats, query)
	if err != nil {
		return nil, err
	}
	return decodeList[Chat](body, "chats")
}
