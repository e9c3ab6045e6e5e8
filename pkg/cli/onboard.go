package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tably-ai/tably-cli/pkg/gateway"
	"github.com/tably-ai/tably-cli/pkg/models"
	"github.com/tably-ai/tably-cli/pkg/onboarding"
)

func newOnboardCmd(app func() *App) *cobra.Command {
	var skipClarification bool

	cmd := &cobra.Command{
		Use:   "onboard <file>...",
		Short: "Upload files and walk the onboarding pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()
			if err := a.RequireAuth(ctx); err != nil {
				return err
			}

			files, closeAll, err := openUploads(args)
			if err != nil {
				return err
			}
			defer closeAll()

			fmt.Fprintf(a.Stdout, "Uploading %s...\n", countNoun(len(files), "file"))
			start, err := a.Gateway.StartProcessing(ctx, a.Session.Token(), files)
			if err != nil {
				a.RenderError(err)
				return err
			}
			if start.Message != "" {
				fmt.Fprintln(a.Stdout, start.Message)
			}

			// The proposed model, when already included, is reviewed before
			// any polling begins. It is discarded after accept or reject.
			if start.Model != nil {
				if err := reviewModel(ctx, a, start.Model); err != nil {
					return err
				}
			}

			return runProgress(ctx, a, !skipClarification)
		},
	}
	cmd.Flags().BoolVar(&skipClarification, "skip-clarification", false,
		"never pause for clarification questions")
	return cmd
}

func newStatusCmd(app func() *App) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show onboarding progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()
			if err := a.RequireAuth(ctx); err != nil {
				return err
			}

			if follow {
				return runProgress(ctx, a, true)
			}

			state, err := a.Gateway.ProcessingStatus(ctx, a.Session.Token())
			if err != nil {
				a.RenderError(err)
				return err
			}
			renderState(a, state, onboarding.SelectView(state, true))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "poll until the pipeline finishes")
	return cmd
}

func openUploads(paths []string) ([]gateway.UploadFile, func(), error) {
	var handles []*os.File
	closeAll := func() {
		for _, h := range handles {
			h.Close()
		}
	}

	files := make([]gateway.UploadFile, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open %s: %w", p, err)
		}
		handles = append(handles, f)
		files = append(files, gateway.UploadFile{Name: filepath.Base(p), Content: f})
	}
	return files, closeAll, nil
}

// runProgress polls the pipeline and drives the terminal views until a
// terminal state or cancellation.
func runProgress(ctx context.Context, a *App, clarification bool) error {
	var runErr error

	var poller *onboarding.Poller
	poller = onboarding.NewPoller(a.Gateway, a.Session.Token(), a.Config.PollInterval(), onboarding.Callbacks{
		OnUpdate: func(state *models.ProcessingState, view onboarding.View) {
			renderState(a, state, view)
			if view == onboarding.ViewClarification {
				promptClarification(ctx, a, poller, state.Clarification)
			}
		},
		OnReady: func(state *models.ProcessingState) {
			renderReady(ctx, a)
		},
		OnError: func(perr *models.ProcessingError) {
			color.New(color.FgRed).Fprintf(a.Stdout, "Processing failed: %s\n", perr.Message)
			if perr.Retryable {
				fmt.Fprintln(a.Stdout, "You can retry with `tably status --follow`.")
			}
			runErr = fmt.Errorf("processing failed: %s", perr.Message)
		},
		OnFetchError: func(err error) {
			a.RenderError(err)
		},
	}, a.Logger, onboarding.WithClarification(clarification))

	poller.Start(ctx)
	defer poller.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-poller.Done():
		return runErr
	}
}

// promptClarification walks the pending questions interactively, then
// submits the non-empty answers (or skips) so polling resumes.
func promptClarification(ctx context.Context, a *App, poller *onboarding.Poller, c *models.ClarificationState) {
	fmt.Fprintf(a.Stdout, "\nAnswer them now? Press Enter on a question to leave it blank, or answer 'skip' here to continue without clarifying.\n")
	first, err := a.ReadLine()
	if err != nil || strings.EqualFold(first, "skip") {
		res, err := poller.Skip(ctx)
		if err != nil {
			a.RenderError(err)
		} else if res != nil && res.Message != "" {
			color.New(color.FgYellow).Fprintln(a.Stdout, res.Message)
		}
		return
	}

	answers := make([]models.ClarificationAnswer, 0, len(c.Questions))
	for i, q := range c.Questions {
		fmt.Fprintf(a.Stdout, "\n%d. [%s] %s\n", i+1, q.Importance, q.Question)
		for _, hint := range q.Hints {
			fmt.Fprintf(a.Stdout, "   hint: %s\n", hint)
		}
		if len(q.Options) > 0 {
			fmt.Fprintf(a.Stdout, "   options: %s\n", strings.Join(q.Options, ", "))
		}
		fmt.Fprint(a.Stdout, "> ")
		answer, err := a.ReadLine()
		if err != nil {
			break
		}
		// Blank answers are dropped before submission.
		answers = append(answers, models.ClarificationAnswer{QuestionID: q.ID, Answer: strings.TrimSpace(answer)})
	}

	res, err := poller.SubmitAnswers(ctx, answers)
	if err != nil {
		a.RenderError(err)
		// Resume anyway so the pipeline is not stuck on our side.
		if _, err := poller.Skip(ctx); err != nil {
			a.RenderError(err)
		}
		return
	}
	if res.PreviousScore != nil && res.NewScore != nil {
		fmt.Fprintf(a.Stdout, "Quality score: %.0f%% -> %.0f%%\n",
			float64(*res.PreviousScore)*100, float64(*res.NewScore)*100)
	}
}

// reviewModel renders the proposed schema and asks the user to accept it.
func reviewModel(ctx context.Context, a *App, model *models.ProposedModel) error {
	renderModel(a, model)
	if !a.Confirm("Accept this model?") {
		if _, err := a.Gateway.ConfirmModel(ctx, a.Session.Token(), false, nil); err != nil {
			a.RenderError(err)
			return err
		}
		fmt.Fprintln(a.Stdout, "Model rejected.")
		return fmt.Errorf("proposed model rejected")
	}

	res, err := a.Gateway.ConfirmModel(ctx, a.Session.Token(), true, nil)
	if err != nil {
		a.RenderError(err)
		return err
	}
	if res.Message != "" {
		fmt.Fprintln(a.Stdout, res.Message)
	}
	return nil
}
