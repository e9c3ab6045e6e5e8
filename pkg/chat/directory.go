package chat

import (
	"context"

	"go.uber.org/zap"

	"github.com/tably-ai/tably-cli/pkg/gateway"
	"github.com/tably-ai/tably-cli/pkg/models"
)

// DirectoryGateway is the slice of the gateway the directory depends on.
type DirectoryGateway interface {
	ListConversations(ctx context.Context, token string, limit, offset int) (*models.ConversationList, error)
	CreateConversation(ctx context.Context, token, title, dataSourceID string) (*models.Conversation, error)
	GetConversation(ctx context.Context, token, id string) (*models.ConversationWithMessages, error)
	RenameConversation(ctx context.Context, token, id, title string) error
	DeleteConversation(ctx context.Context, token, id string) error
	ConversationStats(ctx context.Context, token string) (*models.ConversationStats, error)
}

var _ DirectoryGateway = (*gateway.Client)(nil)

// Directory lists and manages conversation summaries, independent of which
// conversation is active. It never polls; callers refresh it after creating
// a conversation or sending a message so counts stay current.
type Directory struct {
	gw     DirectoryGateway
	token  string
	logger *zap.Logger
}

// NewDirectory creates a conversations directory.
func NewDirectory(gw DirectoryGateway, token string, logger *zap.Logger) *Directory {
	return &Directory{
		gw:     gw,
		token:  token,
		logger: logger.Named("conversations"),
	}
}

// List fetches a page of conversation summaries.
func (d *Directory) List(ctx context.Context, limit, offset int) (*models.ConversationList, error) {
	return d.gw.ListConversations(ctx, d.token, limit, offset)
}

// Create creates an empty conversation. Title and dataSourceID may be empty.
func (d *Directory) Create(ctx context.Context, title, dataSourceID string) (*models.Conversation, error) {
	conv, err := d.gw.CreateConversation(ctx, d.token, title, dataSourceID)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("conversation created", zap.String("conversation_id", conv.ID))
	return conv, nil
}

// Get fetches one conversation with its full message log.
func (d *Directory) Get(ctx context.Context, id string) (*models.ConversationWithMessages, error) {
	return d.gw.GetConversation(ctx, d.token, id)
}

// Rename updates a conversation's title.
func (d *Directory) Rename(ctx context.Context, id, title string) error {
	return d.gw.RenameConversation(ctx, d.token, id, title)
}

// Delete removes a conversation. If the deleted conversation was the active
// one, the caller is responsible for clearing the active selection.
func (d *Directory) Delete(ctx context.Context, id string) error {
	if err := d.gw.DeleteConversation(ctx, d.token, id); err != nil {
		return err
	}
	d.logger.Debug("conversation deleted", zap.String("conversation_id", id))
	return nil
}

// Stats fetches aggregate totals across all conversations.
func (d *Directory) Stats(ctx context.Context) (*models.ConversationStats, error) {
	return d.gw.ConversationStats(ctx, d.token)
}
