package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tably-ai/tably-cli/pkg/models"
)

// AskRequest is the body of the question endpoint. ConversationID is empty
// for the first exchange; the backend then creates a conversation and
// returns its ID.
type AskRequest struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversationId,omitempty"`
}

// Ask performs one question/answer exchange.
func (c *Client) Ask(ctx context.Context, token string, req AskRequest) (*models.AskResult, error) {
	var out models.AskResult
	if err := c.doJSON(ctx, http.MethodPost, "/query/ask", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListConversations fetches a page of conversation summaries.
func (c *Client) ListConversations(ctx context.Context, token string, limit, offset int) (*models.ConversationList, error) {
	var out models.ConversationList
	path := fmt.Sprintf("/conversations?limit=%d&offset=%d", limit, offset)
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createConversationRequest struct {
	Title        string `json:"title,omitempty"`
	DataSourceID string `json:"dataSourceId,omitempty"`
}

// CreateConversation creates an empty conversation.
func (c *Client) CreateConversation(ctx context.Context, token, title, dataSourceID string) (*models.Conversation, error) {
	var out models.Conversation
	req := createConversationRequest{Title: title, DataSourceID: dataSourceID}
	if err := c.doJSON(ctx, http.MethodPost, "/conversations", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetConversation fetches one conversation with its full message log.
func (c *Client) GetConversation(ctx context.Context, token, id string) (*models.ConversationWithMessages, error) {
	var out models.ConversationWithMessages
	if err := c.doJSON(ctx, http.MethodGet, "/conversations/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type renameConversationRequest struct {
	Title string `json:"title"`
}

// RenameConversation updates a conversation's title.
func (c *Client) RenameConversation(ctx context.Context, token, id, title string) error {
	return c.doJSON(ctx, http.MethodPatch, "/conversations/"+url.PathEscape(id), token, renameConversationRequest{Title: title}, nil)
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/conversations/"+url.PathEscape(id), token, nil, nil)
}

// ConversationStats fetches aggregate totals across all conversations.
func (c *Client) ConversationStats(ctx context.Context, token string) (*models.ConversationStats, error) {
	var out models.ConversationStats
	if err := c.doJSON(ctx, http.MethodGet, "/conversations/stats", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
