package onboarding

import (
	"fmt"

	"github.com/tably-ai/tably-cli/pkg/models"
)

// View is which onboarding view a ProcessingState snapshot calls for.
type View int

const (
	// ViewProgress is the normal stage-keyed progress view.
	ViewProgress View = iota
	// ViewValidation shows per-file validation errors.
	ViewValidation
	// ViewClarification shows pending clarification questions.
	ViewClarification
)

func (v View) String() string {
	switch v {
	case ViewProgress:
		return "progress"
	case ViewValidation:
		return "validation"
	case ViewClarification:
		return "clarification"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// SelectView picks the active view for a snapshot. Priority, highest first:
// non-empty validation errors (independent of stage), then clarification
// (when the capability is enabled and a payload is present), then normal
// progress. The result depends on this snapshot only.
func SelectView(state *models.ProcessingState, clarificationEnabled bool) View {
	if len(state.ValidationErrors) > 0 {
		return ViewValidation
	}
	if clarificationEnabled &&
		state.Stage == models.StageNeedsClarification &&
		state.Clarification != nil && state.Clarification.Needed {
		return ViewClarification
	}
	return ViewProgress
}

// Fraction maps a stage to a coarse, monotonic progress fraction:
// (ordinal+1) / stage count. This is the stage-level bar, distinct from the
// nested file-level percentage inside ProcessingState.Progress. Unknown
// stages map to 0.
func Fraction(stage models.Stage) float64 {
	i := stage.Ordinal()
	if i < 0 {
		return 0
	}
	return float64(i+1) / float64(len(models.StageOrder))
}
