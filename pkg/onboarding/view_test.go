package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tably-ai/tably-cli/pkg/models"
)

func clarificationPayload() *models.ClarificationState {
	return &models.ClarificationState{
		Needed:       true,
		Reason:       models.ClarificationReasonLowQuality,
		Questions:    []models.ClarificationQuestion{{ID: "q1", Question: "What does SKU mean here?"}},
		PendingCount: 1,
	}
}

func TestSelectView_NormalProgress(t *testing.T) {
	state := &models.ProcessingState{Stage: models.StageProcessingData}
	assert.Equal(t, ViewProgress, SelectView(state, true))
}

func TestSelectView_ValidationBeatsClarification(t *testing.T) {
	// A snapshot carrying both validation errors and a clarification
	// payload must pick the validation view.
	state := &models.ProcessingState{
		Stage:            models.StageNeedsClarification,
		ValidationErrors: []models.ValidationError{{FileID: "f1", ErrorType: models.ValidationErrCorrupt}},
		Clarification:    clarificationPayload(),
	}
	assert.Equal(t, ViewValidation, SelectView(state, true))
}

func TestSelectView_ValidationIndependentOfStage(t *testing.T) {
	state := &models.ProcessingState{
		Stage:            models.StageGeneratingExamples,
		ValidationErrors: []models.ValidationError{{FileID: "f1", ErrorType: models.ValidationErrTooLarge}},
	}
	assert.Equal(t, ViewValidation, SelectView(state, true))
}

func TestSelectView_Clarification(t *testing.T) {
	state := &models.ProcessingState{
		Stage:         models.StageNeedsClarification,
		Clarification: clarificationPayload(),
	}
	assert.Equal(t, ViewClarification, SelectView(state, true))
}

func TestSelectView_ClarificationStageWithoutPayload(t *testing.T) {
	state := &models.ProcessingState{Stage: models.StageNeedsClarification}
	assert.Equal(t, ViewProgress, SelectView(state, true))
}

func TestSelectView_ClarificationDisabled(t *testing.T) {
	state := &models.ProcessingState{
		Stage:         models.StageNeedsClarification,
		Clarification: clarificationPayload(),
	}
	assert.Equal(t, ViewProgress, SelectView(state, false))
}

// The view is a function of the latest snapshot only: validation errors
// present in one poll and absent in the next leave no residue.
func TestSelectView_NoAccumulationAcrossSnapshots(t *testing.T) {
	withErrors := &models.ProcessingState{
		Stage:            models.StagePreValidation,
		ValidationErrors: []models.ValidationError{{FileID: "f1", ErrorType: models.ValidationErrNoHeaders}},
	}
	assert.Equal(t, ViewValidation, SelectView(withErrors, true))

	cleared := &models.ProcessingState{Stage: models.StageAnalyzingStructure}
	assert.Equal(t, ViewProgress, SelectView(cleared, true))
}

// Stage fraction is derived from the stage ordering, not from the nested
// file-level percentage.
func TestFraction_DistinctFromFileProgress(t *testing.T) {
	state := &models.ProcessingState{
		Stage:    models.StageProcessingData,
		Progress: &models.Progress{Current: 3, Total: 10, Percentage: 30},
	}

	want := float64(models.StageProcessingData.Ordinal()+1) / float64(len(models.StageOrder))
	assert.InDelta(t, 0.5, want, 1e-9)
	assert.InDelta(t, want, Fraction(state.Stage), 1e-9)
	assert.NotEqual(t, state.Progress.Percentage/100, Fraction(state.Stage))
}

func TestFraction_UnknownStage(t *testing.T) {
	assert.Zero(t, Fraction(models.Stage("nope")))
}

func TestFraction_Monotonic(t *testing.T) {
	prev := -1.0
	for _, stage := range models.StageOrder {
		f := Fraction(stage)
		assert.Greater(t, f, prev, "fraction must grow along the pipeline, stage %s", stage)
		prev = f
	}
	assert.InDelta(t, 1.0, Fraction(models.StageReady), 1e-9)
}
