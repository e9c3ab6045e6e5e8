package models

import "time"

// MessageRole identifies the sender of a chat message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// AnswerSource tells which backend subsystem produced an answer.
type AnswerSource string

const (
	AnswerSourceDatabase AnswerSource = "database"
	AnswerSourceDocument AnswerSource = "document"
)

// TokenUsage is the per-exchange token breakdown.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// Message is one entry in a conversation's ordered log.
type Message struct {
	ID         string           `json:"id,omitempty"`
	Role       MessageRole      `json:"role"`
	Content    string           `json:"content"`
	SQL        string           `json:"sql,omitempty"`
	ResultRows []map[string]any `json:"resultRows,omitempty"`
	Source     AnswerSource     `json:"source,omitempty"`
	Tokens     *TokenUsage      `json:"tokens,omitempty"`
	CostUSD    *float64         `json:"costUsd,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
	Error      bool             `json:"error,omitempty"`
}

// Conversation is the summary projection used for listing. Aggregate
// counters are maintained server-side and only ever grow.
type Conversation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"messageCount"`
	TotalTokens  int       `json:"totalTokens"`
	TotalCostUSD float64   `json:"totalCostUsd"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ConversationDetail adds the token/cost breakdown to the summary.
type ConversationDetail struct {
	Conversation
	InputTokens   int     `json:"inputTokens"`
	OutputTokens  int     `json:"outputTokens"`
	InputCostUSD  float64 `json:"inputCostUsd"`
	OutputCostUSD float64 `json:"outputCostUsd"`
}

// ConversationWithMessages is the success body of fetching one conversation.
type ConversationWithMessages struct {
	Conversation ConversationDetail `json:"conversation"`
	Messages     []Message          `json:"messages"`
}

// ConversationList is a page of conversation summaries.
type ConversationList struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}

// ConversationStats aggregates totals across all conversations.
type ConversationStats struct {
	ConversationCount int     `json:"conversationCount"`
	MessageCount      int     `json:"messageCount"`
	TotalTokens       int     `json:"totalTokens"`
	TotalCostUSD      float64 `json:"totalCostUsd"`
}

// AskResult is the success body of a question/answer exchange.
type AskResult struct {
	Success        bool             `json:"success"`
	Answer         string           `json:"answer"`
	SQL            string           `json:"sql,omitempty"`
	Data           []map[string]any `json:"data,omitempty"`
	Confidence     *float64         `json:"confidence,omitempty"`
	ConversationID string           `json:"conversationId"`
	Tokens         *TokenUsage      `json:"tokens,omitempty"`
	CostUSD        *float64         `json:"costUsd,omitempty"`
	Source         AnswerSource     `json:"source,omitempty"`
}
