package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tably-ai/tably-cli/pkg/apperrors"
	"github.com/tably-ai/tably-cli/pkg/gateway"
	"github.com/tably-ai/tably-cli/pkg/models"
)

// fakeAskGateway scripts one response per call; block makes calls wait
// until released so tests can hold an exchange in flight.
type fakeAskGateway struct {
	mu       sync.Mutex
	requests []gateway.AskRequest
	result   *models.AskResult
	err      error

	entered chan struct{}
	release chan struct{}
}

func (f *fakeAskGateway) Ask(ctx context.Context, token string, req gateway.AskRequest) (*models.AskResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	result, err := f.result, f.err
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return result, err
}

func newTestSession(gw AskGateway, notify func(string)) *Session {
	return NewSession(gw, "tok", notify, zap.NewNop())
}

func TestSession_AskRejectsEmptyQuestion(t *testing.T) {
	s := newTestSession(&fakeAskGateway{}, nil)

	_, err := s.Ask(context.Background(), "   \t\n")
	assert.ErrorIs(t, err, apperrors.ErrEmptyQuestion)
	assert.Empty(t, s.Messages())
}

func TestSession_AskSuccessAppendsUserThenAssistant(t *testing.T) {
	cost := 0.0042
	gw := &fakeAskGateway{result: &models.AskResult{
		Success:        true,
		Answer:         "There were 42 sales yesterday.",
		SQL:            "SELECT COUNT(*) FROM sales WHERE day = CURRENT_DATE - 1",
		Data:           []map[string]any{{"total": 42}},
		ConversationID: "c1",
		Tokens:         &models.TokenUsage{Input: 120, Output: 35},
		CostUSD:        &cost,
		Source:         models.AnswerSourceDatabase,
	}}

	var notified []string
	s := newTestSession(gw, func(id string) { notified = append(notified, id) })

	answer, err := s.Ask(context.Background(), "¿Cuántas ventas hubo ayer?")
	require.NoError(t, err)

	log := s.Messages()
	require.Len(t, log, 2)
	assert.Equal(t, models.MessageRoleUser, log[0].Role)
	assert.Equal(t, "¿Cuántas ventas hubo ayer?", log[0].Content)
	assert.Equal(t, models.MessageRoleAssistant, log[1].Role)
	assert.Equal(t, answer.Content, log[1].Content)
	assert.Equal(t, models.AnswerSourceDatabase, log[1].Source)
	assert.False(t, log[1].Error)

	// A session with no prior conversation adopts the new ID and notifies
	// the directory exactly once.
	assert.Equal(t, "c1", s.ConversationID())
	assert.Equal(t, []string{"c1"}, notified)

	// A second exchange reuses the adopted conversation and must not
	// notify again.
	_, err = s.Ask(context.Background(), "And the day before?")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, notified)
	require.Len(t, gw.requests, 2)
	assert.Empty(t, gw.requests[0].ConversationID)
	assert.Equal(t, "c1", gw.requests[1].ConversationID)
}

func TestSession_AskFailureKeepsUserMessageAndAppendsErrorTail(t *testing.T) {
	gw := &fakeAskGateway{err: &gateway.GatewayError{Status: 500, Code: "UnknownError", Message: "backend down"}}
	s := newTestSession(gw, nil)

	_, err := s.Ask(context.Background(), "How many customers churned?")
	require.Error(t, err)

	log := s.Messages()
	require.Len(t, log, 2)
	assert.Equal(t, models.MessageRoleUser, log[0].Role)
	assert.Equal(t, "How many customers churned?", log[0].Content, "the question stays visible")
	assert.Equal(t, models.MessageRoleAssistant, log[1].Role)
	assert.True(t, log[1].Error)
	assert.NotEmpty(t, log[1].Content)
}

func TestSession_AskSingleFlight(t *testing.T) {
	gw := &fakeAskGateway{
		result:  &models.AskResult{Success: true, Answer: "ok", ConversationID: "c1"},
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	s := newTestSession(gw, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.Ask(context.Background(), "first question")
		firstDone <- err
	}()

	// Wait until the first exchange is on the wire, then try a second.
	<-gw.entered
	_, err := s.Ask(context.Background(), "second question")
	assert.ErrorIs(t, err, apperrors.ErrAskInFlight)

	close(gw.release)
	require.NoError(t, <-firstDone)

	// The rejected call left no trace: one user + one assistant message.
	log := s.Messages()
	require.Len(t, log, 2)
	assert.Equal(t, "first question", log[0].Content)
}

func TestSession_AskAllowedAgainAfterFailure(t *testing.T) {
	gw := &fakeAskGateway{err: errors.New("network down")}
	s := newTestSession(gw, nil)

	_, err := s.Ask(context.Background(), "q1")
	require.Error(t, err)

	gw.mu.Lock()
	gw.err = nil
	gw.result = &models.AskResult{Success: true, Answer: "fine now", ConversationID: "c9"}
	gw.mu.Unlock()

	_, err = s.Ask(context.Background(), "q2")
	require.NoError(t, err)
	assert.Len(t, s.Messages(), 4)
}

func TestSession_HydrateReplacesLogWholesale(t *testing.T) {
	gw := &fakeAskGateway{result: &models.AskResult{Success: true, Answer: "a", ConversationID: "c1"}}
	s := newTestSession(gw, nil)

	_, err := s.Ask(context.Background(), "question in c1")
	require.NoError(t, err)
	require.Len(t, s.Messages(), 2)

	persisted := []models.Message{
		{ID: "m1", Role: models.MessageRoleUser, Content: "older question", Timestamp: time.Now().Add(-time.Hour)},
		{ID: "m2", Role: models.MessageRoleAssistant, Content: "older answer", Timestamp: time.Now().Add(-time.Hour)},
	}
	s.Hydrate("c2", persisted)

	log := s.Messages()
	require.Len(t, log, 2, "previous conversation must not bleed through")
	assert.Equal(t, "older question", log[0].Content)
	assert.Equal(t, "c2", s.ConversationID())
}

func TestSession_ResetClearsEverything(t *testing.T) {
	s := newTestSession(&fakeAskGateway{}, nil)
	s.Hydrate("c1", []models.Message{{Role: models.MessageRoleUser, Content: "hi"}})

	s.Reset()
	assert.Empty(t, s.Messages())
	assert.Empty(t, s.ConversationID())
}
