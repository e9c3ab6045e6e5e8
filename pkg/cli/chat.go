package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tably-ai/tably-cli/pkg/chat"
	"github.com/tably-ai/tably-cli/pkg/models"
)

func newAskCmd(app func() *App) *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question about your data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()
			if err := a.RequireAuth(ctx); err != nil {
				return err
			}

			sess := chat.NewSession(a.Gateway, a.Session.Token(), nil, a.Logger)
			if conversationID != "" {
				sess.Hydrate(conversationID, nil)
			}

			answer, err := sess.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				a.RenderError(err)
				return err
			}
			renderMessage(a, *answer)
			if sess.ConversationID() != conversationID {
				fmt.Fprintf(a.Stdout, "(conversation %s)\n", sess.ConversationID())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "continue an existing conversation")
	return cmd
}

func newChatCmd(app func() *App) *cobra.Command {
	var conversationID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()
			if err := a.RequireAuth(ctx); err != nil {
				return err
			}

			directory := chat.NewDirectory(a.Gateway, a.Session.Token(), a.Logger)
			sess := chat.NewSession(a.Gateway, a.Session.Token(), func(id string) {
				fmt.Fprintf(a.Stdout, "(started conversation %s)\n", id)
			}, a.Logger)

			// Resuming a conversation replays its persisted log.
			if conversationID != "" {
				detail, err := directory.Get(ctx, conversationID)
				if err != nil {
					a.RenderError(err)
					return err
				}
				sess.Hydrate(conversationID, detail.Messages)
				for _, m := range detail.Messages {
					renderMessage(a, m)
				}
			}

			fmt.Fprintln(a.Stdout, "Type a question, or /quit to leave.")
			for {
				fmt.Fprint(a.Stdout, "? ")
				line, err := a.ReadLine()
				if err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
				if line == "/quit" || line == "/exit" {
					return nil
				}

				answer, err := sess.Ask(ctx, line)
				if err != nil {
					a.RenderError(err)
					continue
				}
				renderMessage(a, *answer)
			}
		},
	}
	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "resume an existing conversation")
	return cmd
}

func renderMessage(a *App, m models.Message) {
	switch m.Role {
	case models.MessageRoleUser:
		color.New(color.FgBlue).Fprintf(a.Stdout, "you: %s\n", m.Content)
	default:
		if m.Error {
			color.New(color.FgRed).Fprintf(a.Stdout, "tably: %s\n", m.Content)
			return
		}
		fmt.Fprintf(a.Stdout, "tably: %s\n", m.Content)
	}

	if m.SQL != "" {
		color.New(color.Faint).Fprintf(a.Stdout, "  sql: %s\n", m.SQL)
	}
	for i, row := range m.ResultRows {
		if i >= 10 {
			fmt.Fprintf(a.Stdout, "  ... %d more rows\n", len(m.ResultRows)-i)
			break
		}
		fmt.Fprintf(a.Stdout, "  %v\n", row)
	}
	if m.Tokens != nil || m.CostUSD != nil {
		detail := "  "
		if m.Tokens != nil {
			detail += fmt.Sprintf("tokens: %d in / %d out", m.Tokens.Input, m.Tokens.Output)
		}
		if m.CostUSD != nil {
			detail += fmt.Sprintf("  cost: $%.4f", *m.CostUSD)
		}
		if m.Source != "" {
			detail += fmt.Sprintf("  source: %s", m.Source)
		}
		color.New(color.Faint).Fprintln(a.Stdout, detail)
	}
}
