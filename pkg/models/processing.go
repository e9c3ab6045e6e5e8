package models

import (
	"encoding/json"
	"fmt"
)

// Stage is a named step in the onboarding pipeline. Stages are totally
// ordered except for the clarification detour, which may be skipped.
type Stage string

const (
	StageUploading          Stage = "uploading"
	StagePreValidation      Stage = "pre_validation"
	StageAnalyzingStructure Stage = "analyzing_structure"
	StageAwaitingConfirm    Stage = "awaiting_confirmation"
	StageProcessingData     Stage = "processing_data"
	StageSemanticAnalysis   Stage = "semantic_analysis"
	StageNeedsClarification Stage = "needs_clarification"
	StageValidatingQuality  Stage = "validating_quality"
	StageGeneratingExamples Stage = "generating_examples"
	StageReady              Stage = "ready"
)

// StageOrder lists every stage in pipeline order.
var StageOrder = []Stage{
	StageUploading,
	StagePreValidation,
	StageAnalyzingStructure,
	StageAwaitingConfirm,
	StageProcessingData,
	StageSemanticAnalysis,
	StageNeedsClarification,
	StageValidatingQuality,
	StageGeneratingExamples,
	StageReady,
}

// Ordinal returns the zero-based position of the stage in the pipeline,
// or -1 for an unknown stage.
func (s Stage) Ordinal() int {
	for i, v := range StageOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// IsValidStage checks if the given stage is known.
func IsValidStage(s Stage) bool {
	return s.Ordinal() >= 0
}

// Progress holds the backend's nested, file-level progress counters.
// This is distinct from the coarse stage fraction derived from StageOrder.
type Progress struct {
	Current    int     `json:"current"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Validation error types reported per uploaded file.
const (
	ValidationErrCorrupt      = "corrupt"
	ValidationErrEmpty        = "empty"
	ValidationErrNoHeaders    = "no_headers"
	ValidationErrSchemaFailed = "schema_failed"
	ValidationErrUnsupported  = "unsupported"
	ValidationErrTooLarge     = "too_large"
)

// ValidationError is a per-file validation failure reported inline in
// ProcessingState rather than as a request error.
type ValidationError struct {
	FileID    string `json:"fileId"`
	FileName  string `json:"fileName,omitempty"`
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}

// ValidationWarning is a non-fatal per-file finding.
type ValidationWarning struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName,omitempty"`
	Message  string `json:"message"`
}

// QualityScore is a schema quality score in [0,1].
//
// The backend emits this either as a bare number or as an object with a
// "score" field depending on the endpoint; the client normalizes both to a
// plain number.
type QualityScore float64

// UnmarshalJSON accepts both 0.87 and {"score": 0.87}.
func (q *QualityScore) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*q = QualityScore(n)
		return nil
	}
	var obj struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("qualityScore is neither a number nor an object: %w", err)
	}
	*q = QualityScore(obj.Score)
	return nil
}

// ProcessingError is the terminal error attached to ProcessingState.
// The backend sends either a bare string or a structured object.
type ProcessingError struct {
	Stage     Stage  `json:"stage,omitempty"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// UnmarshalJSON accepts both "boom" and {"stage":..., "message":..., "retryable":...}.
func (e *ProcessingError) UnmarshalJSON(data []byte) error {
	var msg string
	if err := json.Unmarshal(data, &msg); err == nil {
		*e = ProcessingError{Message: msg}
		return nil
	}
	type alias ProcessingError
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("processing error is neither a string nor an object: %w", err)
	}
	*e = ProcessingError(a)
	return nil
}

// ProcessingState is one snapshot of the onboarding pipeline as returned by
// the status endpoint. Each poll replaces the previous snapshot wholesale;
// nothing is merged across polls.
type ProcessingState struct {
	Stage              Stage               `json:"stage"`
	Message            string              `json:"message,omitempty"`
	Progress           *Progress           `json:"progress,omitempty"`
	QualityScore       *QualityScore       `json:"qualityScore,omitempty"`
	ValidationErrors   []ValidationError   `json:"validationErrors,omitempty"`
	ValidationWarnings []ValidationWarning `json:"validationWarnings,omitempty"`
	Clarification      *ClarificationState `json:"clarification,omitempty"`
	Error              *ProcessingError    `json:"error,omitempty"`
}

// IsTerminal reports whether the pipeline has finished, successfully or not.
func (s *ProcessingState) IsTerminal() bool {
	return s.Stage == StageReady || s.Error != nil
}
