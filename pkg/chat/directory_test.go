package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tably-ai/tably-cli/pkg/gateway"
	"github.com/tably-ai/tably-cli/pkg/models"
)

type fakeDirectoryGateway struct {
	listLimit, listOffset int
	created               []string
	renamed               map[string]string
	deleted               []string
	deleteErr             error
}

func (f *fakeDirectoryGateway) ListConversations(ctx context.Context, token string, limit, offset int) (*models.ConversationList, error) {
	f.listLimit, f.listOffset = limit, offset
	return &models.ConversationList{Total: 0}, nil
}

func (f *fakeDirectoryGateway) CreateConversation(ctx context.Context, token, title, dataSourceID string) (*models.Conversation, error) {
	f.created = append(f.created, title)
	return &models.Conversation{ID: "c1", Title: title}, nil
}

func (f *fakeDirectoryGateway) GetConversation(ctx context.Context, token, id string) (*models.ConversationWithMessages, error) {
	return &models.ConversationWithMessages{}, nil
}

func (f *fakeDirectoryGateway) RenameConversation(ctx context.Context, token, id, title string) error {
	if f.renamed == nil {
		f.renamed = make(map[string]string)
	}
	f.renamed[id] = title
	return nil
}

func (f *fakeDirectoryGateway) DeleteConversation(ctx context.Context, token, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDirectoryGateway) ConversationStats(ctx context.Context, token string) (*models.ConversationStats, error) {
	return &models.ConversationStats{ConversationCount: 2}, nil
}

func TestDirectory_PassesPagination(t *testing.T) {
	gw := &fakeDirectoryGateway{}
	d := NewDirectory(gw, "tok", zap.NewNop())

	_, err := d.List(context.Background(), 25, 50)
	require.NoError(t, err)
	assert.Equal(t, 25, gw.listLimit)
	assert.Equal(t, 50, gw.listOffset)
}

func TestDirectory_CreateRenameDelete(t *testing.T) {
	gw := &fakeDirectoryGateway{}
	d := NewDirectory(gw, "tok", zap.NewNop())

	conv, err := d.Create(context.Background(), "Q3 review", "")
	require.NoError(t, err)
	assert.Equal(t, "c1", conv.ID)

	require.NoError(t, d.Rename(context.Background(), "c1", "Q3 numbers"))
	assert.Equal(t, "Q3 numbers", gw.renamed["c1"])

	require.NoError(t, d.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, gw.deleted)
}

func TestDirectory_DeleteErrorPropagates(t *testing.T) {
	wantErr := &gateway.GatewayError{Status: 404, Code: "NotFound", Message: "no such conversation"}
	gw := &fakeDirectoryGateway{deleteErr: wantErr}
	d := NewDirectory(gw, "tok", zap.NewNop())

	err := d.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, wantErr)
}
