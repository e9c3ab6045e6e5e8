// Package chat maintains the message log for the active conversation and
// manages the directory of conversation summaries.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tably-ai/tably-cli/pkg/apperrors"
	"github.com/tably-ai/tably-cli/pkg/gateway"
	"github.com/tably-ai/tably-cli/pkg/logging"
	"github.com/tably-ai/tably-cli/pkg/models"
)

// askFallbackText is shown in place of an answer when an exchange fails.
// The user's question stays in the log either way.
const askFallbackText = "Sorry, I couldn't answer that right now. Please try again."

// AskGateway is the slice of the gateway the session depends on.
type AskGateway interface {
	Ask(ctx context.Context, token string, req gateway.AskRequest) (*models.AskResult, error)
}

var _ AskGateway = (*gateway.Client)(nil)

// Session owns the ordered message log for one active conversation. At most
// one exchange is in flight at a time, so answers can never interleave.
type Session struct {
	gw     AskGateway
	token  string
	logger *zap.Logger

	// onConversationCreated fires when the backend creates a conversation
	// for a session that had none, so summary lists stay current.
	onConversationCreated func(id string)

	mu             sync.Mutex
	conversationID string
	messages       []models.Message
	inFlight       bool
}

// NewSession creates a chat session. onConversationCreated may be nil.
func NewSession(gw AskGateway, token string, onConversationCreated func(id string), logger *zap.Logger) *Session {
	return &Session{
		gw:                    gw,
		token:                 token,
		onConversationCreated: onConversationCreated,
		logger:                logger.Named("chat-session"),
	}
}

// ConversationID returns the active conversation ID, or "" before the first
// exchange of a fresh session.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Messages returns a copy of the current log.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Hydrate replaces the log wholesale with a persisted conversation. The
// previous log is discarded entirely; nothing merges across conversations.
func (s *Session) Hydrate(conversationID string, persisted []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = conversationID
	s.messages = make([]models.Message, len(persisted))
	copy(s.messages, persisted)
	s.logger.Debug("session hydrated",
		zap.String("conversation_id", conversationID),
		zap.Int("messages", len(persisted)))
}

// Reset clears the session for a brand-new conversation.
func (s *Session) Reset() {
	s.Hydrate("", nil)
}

// Ask performs one question/answer exchange. The user message is appended
// optimistically before the network call; on success the assistant message
// follows, on failure an error-flagged assistant message with fallback text
// follows instead. Empty questions and concurrent calls are rejected, so
// after every completed exchange the log ends with an assistant message.
func (s *Session) Ask(ctx context.Context, question string) (*models.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.ErrEmptyQuestion
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, apperrors.ErrAskInFlight
	}
	s.inFlight = true
	convID := s.conversationID
	s.messages = append(s.messages, models.Message{
		ID:        uuid.NewString(),
		Role:      models.MessageRoleUser,
		Content:   question,
		Timestamp: time.Now(),
	})
	s.mu.Unlock()

	res, err := s.gw.Ask(ctx, s.token, gateway.AskRequest{
		Question:       question,
		ConversationID: convID,
	})

	if err != nil {
		s.logger.Warn("exchange failed", zap.String("error", logging.SanitizeError(err)))
		s.mu.Lock()
		s.messages = append(s.messages, models.Message{
			ID:        uuid.NewString(),
			Role:      models.MessageRoleAssistant,
			Content:   askFallbackText,
			Timestamp: time.Now(),
			Error:     true,
		})
		s.inFlight = false
		s.mu.Unlock()
		return nil, err
	}

	answer := models.Message{
		ID:         uuid.NewString(),
		Role:       models.MessageRoleAssistant,
		Content:    res.Answer,
		SQL:        res.SQL,
		ResultRows: res.Data,
		Source:     res.Source,
		Tokens:     res.Tokens,
		CostUSD:    res.CostUSD,
		Timestamp:  time.Now(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, answer)
	var created string
	if convID == "" && res.ConversationID != "" {
		s.conversationID = res.ConversationID
		created = res.ConversationID
	}
	s.inFlight = false
	s.mu.Unlock()

	// Adopt a conversation the backend just created for us; the notify runs
	// outside the lock so the directory can call back into the session.
	if created != "" {
		s.logger.Debug("adopted new conversation", zap.String("conversation_id", created))
		if s.onConversationCreated != nil {
			s.onConversationCreated(created)
		}
	}

	return &answer, nil
}
