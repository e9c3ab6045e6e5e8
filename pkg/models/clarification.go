package models

// ClarificationReason explains why the backend paused for clarification.
type ClarificationReason string

const (
	ClarificationReasonLowQuality    ClarificationReason = "low_quality_score"
	ClarificationReasonLowConfidence ClarificationReason = "low_confidence"
	ClarificationReasonBoth          ClarificationReason = "both"
)

// ClarificationImportance is the importance tier of a question.
type ClarificationImportance string

const (
	ImportanceCritical ClarificationImportance = "critical"
	ImportanceHigh     ClarificationImportance = "high"
	ImportanceMedium   ClarificationImportance = "medium"
	ImportanceLow      ClarificationImportance = "low"
)

// ClarificationQuestion is one pending question from the backend. Answers
// are keyed by the question's stable ID; Options, when present, constrain
// the answer to a choice.
type ClarificationQuestion struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Importance ClarificationImportance `json:"importance"`
	Question   string                  `json:"question"`
	Options    []string                `json:"options,omitempty"`
	Hints      []string                `json:"hints,omitempty"`
}

// ClarificationState is the clarification payload attached to a
// ProcessingState snapshot. Answered and pending counts may not sum to the
// question total since answers can be partial.
type ClarificationState struct {
	Needed        bool                    `json:"needed"`
	Reason        ClarificationReason     `json:"reason,omitempty"`
	Questions     []ClarificationQuestion `json:"questions,omitempty"`
	AnsweredCount int                     `json:"answeredCount"`
	PendingCount  int                     `json:"pendingCount"`
	QualityScore  *QualityScore           `json:"qualityScore,omitempty"`
	LLMConfidence *float64                `json:"llmConfidence,omitempty"`
	Skipped       bool                    `json:"skipped,omitempty"`
}

// ClarificationAnswer pairs a question ID with the user's free-text or
// selected-option value.
type ClarificationAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// ClarificationSubmitResult is the success body of answer submission. The
// score fields are advisory; they do not change control flow.
type ClarificationSubmitResult struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message,omitempty"`
	PreviousScore *QualityScore `json:"previousScore,omitempty"`
	NewScore      *QualityScore `json:"newScore,omitempty"`
}

// ClarificationSkipResult is the success body of skipping clarification.
type ClarificationSkipResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
