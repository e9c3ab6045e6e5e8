package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jinzhu/inflection"

	"github.com/tably-ai/tably-cli/pkg/models"
	"github.com/tably-ai/tably-cli/pkg/onboarding"
)

// countNoun formats a count with a properly pluralized noun.
func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}

// renderState draws the view selected for one pipeline snapshot.
func renderState(a *App, state *models.ProcessingState, view onboarding.View) {
	switch view {
	case onboarding.ViewValidation:
		renderValidation(a, state)
	case onboarding.ViewClarification:
		renderClarificationHeader(a, state.Clarification)
	default:
		renderProgress(a, state)
	}
}

func renderProgress(a *App, state *models.ProcessingState) {
	bar := progressBar(onboarding.Fraction(state.Stage), 30)
	line := fmt.Sprintf("%s %-22s", bar, state.Stage)
	if state.Progress != nil && state.Progress.Total > 0 {
		// File-level detail; separate from the stage-level bar.
		line += fmt.Sprintf(" (%d/%d, %.0f%%)", state.Progress.Current, state.Progress.Total, state.Progress.Percentage)
	}
	if state.Message != "" {
		line += " " + state.Message
	}
	fmt.Fprintln(a.Stdout, line)
}

func progressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func renderValidation(a *App, state *models.ProcessingState) {
	color.New(color.FgRed).Fprintf(a.Stdout, "%s could not be processed:\n", countNoun(len(state.ValidationErrors), "file"))
	for _, ve := range state.ValidationErrors {
		name := ve.FileName
		if name == "" {
			name = ve.FileID
		}
		fmt.Fprintf(a.Stdout, "  %s: %s (%s)\n", name, ve.Message, ve.ErrorType)
	}
	for _, w := range state.ValidationWarnings {
		color.New(color.FgYellow).Fprintf(a.Stdout, "  warning: %s: %s\n", w.FileName, w.Message)
	}
}

func renderClarificationHeader(a *App, c *models.ClarificationState) {
	color.New(color.FgCyan).Fprintf(a.Stdout, "\nThe pipeline needs clarification (%s): %s pending.\n",
		c.Reason, countNoun(c.PendingCount, "question"))
	if c.QualityScore != nil {
		fmt.Fprintf(a.Stdout, "Current quality score: %.0f%%\n", float64(*c.QualityScore)*100)
	}
}

func renderModel(a *App, model *models.ProposedModel) {
	color.New(color.FgCyan).Fprintf(a.Stdout, "\nProposed model: %s, %s, %s\n",
		countNoun(model.Summary.TableCount, "table"),
		countNoun(model.Summary.RelationshipCount, "relationship"),
		countNoun(model.Summary.TermCount, "term"))

	for _, t := range model.Tables {
		label := t.Name
		if t.MasterData {
			label += " (master data)"
		}
		fmt.Fprintf(a.Stdout, "\n  %s: ~%d rows, from %s\n", label, t.EstimatedRows, strings.Join(t.SourceFiles, ", "))
		for _, c := range t.Columns {
			flags := ""
			if c.PrimaryKey {
				flags = " PK"
			} else if c.ForeignKey {
				flags = " FK"
			}
			fmt.Fprintf(a.Stdout, "    %-24s %s%s\n", c.Name, c.SemanticType, flags)
		}
	}

	for _, r := range model.Relationships {
		fmt.Fprintf(a.Stdout, "  %s.%s -> %s.%s (%s, %.0f%%)\n",
			r.FromTable, r.FromColumn, r.ToTable, r.ToColumn, r.Type, r.Confidence*100)
	}
	for _, w := range model.Warnings {
		color.New(color.FgYellow).Fprintf(a.Stdout, "  warning: %s\n", w)
	}
}

// renderReady fetches and prints the readiness report after the pipeline
// completes.
func renderReady(ctx context.Context, a *App) {
	color.New(color.FgGreen).Fprintln(a.Stdout, "\nOnboarding complete.")

	ready, err := a.Gateway.ReadyStatus(ctx, a.Session.Token())
	if err != nil {
		a.RenderError(err)
		return
	}

	fmt.Fprintf(a.Stdout, "%s is ready: %s across %s.\n",
		ready.OrganizationName,
		countNoun(ready.DataSources.Ready, "data source"),
		countNoun(ready.DataSources.Tables, "table"))
	if ready.QualityScore != nil {
		fmt.Fprintf(a.Stdout, "Quality score: %.0f%%\n", float64(*ready.QualityScore)*100)
	}
	if ready.Chatbot.Available && len(ready.Chatbot.SuggestedQuestions) > 0 {
		fmt.Fprintln(a.Stdout, "Try asking:")
		for _, q := range ready.Chatbot.SuggestedQuestions {
			fmt.Fprintf(a.Stdout, "  tably ask %q\n", q)
		}
	}
}
