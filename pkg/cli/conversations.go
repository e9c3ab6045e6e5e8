package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tably-ai/tably-cli/pkg/chat"
)

func newConversationsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "Manage saved conversations",
	}

	dir := func(cmd *cobra.Command) (*App, *chat.Directory, error) {
		a := app()
		if err := a.RequireAuth(cmd.Context()); err != nil {
			return nil, nil, err
		}
		return a, chat.NewDirectory(a.Gateway, a.Session.Token(), a.Logger), nil
	}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, d, err := dir(cmd)
			if err != nil {
				return err
			}
			page, err := d.List(cmd.Context(), limit, offset)
			if err != nil {
				a.RenderError(err)
				return err
			}
			for _, c := range page.Conversations {
				fmt.Fprintf(a.Stdout, "%s  %-40s %s  %d tokens  $%.4f\n",
					c.ID, c.Title, countNoun(c.MessageCount, "message"), c.TotalTokens, c.TotalCostUSD)
			}
			fmt.Fprintf(a.Stdout, "%s total\n", countNoun(page.Total, "conversation"))
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "page size")
	list.Flags().IntVar(&offset, "offset", 0, "page offset")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a conversation's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, d, err := dir(cmd)
			if err != nil {
				return err
			}
			detail, err := d.Get(cmd.Context(), args[0])
			if err != nil {
				a.RenderError(err)
				return err
			}
			fmt.Fprintf(a.Stdout, "%s (%s, %d tokens, $%.4f)\n",
				detail.Conversation.Title,
				countNoun(detail.Conversation.MessageCount, "message"),
				detail.Conversation.TotalTokens,
				detail.Conversation.TotalCostUSD)
			for _, m := range detail.Messages {
				renderMessage(a, m)
			}
			return nil
		},
	}

	var title, dataSourceID string
	create := &cobra.Command{
		Use:   "new",
		Short: "Create an empty conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, d, err := dir(cmd)
			if err != nil {
				return err
			}
			conv, err := d.Create(cmd.Context(), title, dataSourceID)
			if err != nil {
				a.RenderError(err)
				return err
			}
			fmt.Fprintf(a.Stdout, "Created %s\n", conv.ID)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "conversation title")
	create.Flags().StringVar(&dataSourceID, "data-source", "", "bind to a data source")

	rename := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, d, err := dir(cmd)
			if err != nil {
				return err
			}
			if err := d.Rename(cmd.Context(), args[0], args[1]); err != nil {
				a.RenderError(err)
				return err
			}
			fmt.Fprintln(a.Stdout, "Renamed.")
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, d, err := dir(cmd)
			if err != nil {
				return err
			}
			if !a.Confirm(fmt.Sprintf("Delete conversation %s?", args[0])) {
				fmt.Fprintln(a.Stdout, "Aborted.")
				return nil
			}
			if err := d.Delete(cmd.Context(), args[0]); err != nil {
				a.RenderError(err)
				return err
			}
			fmt.Fprintln(a.Stdout, "Deleted.")
			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate conversation totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, d, err := dir(cmd)
			if err != nil {
				return err
			}
			s, err := d.Stats(cmd.Context())
			if err != nil {
				a.RenderError(err)
				return err
			}
			fmt.Fprintf(a.Stdout, "%s, %s, %d tokens, $%.4f total\n",
				countNoun(s.ConversationCount, "conversation"),
				countNoun(s.MessageCount, "message"),
				s.TotalTokens, s.TotalCostUSD)
			return nil
		},
	}

	cmd.AddCommand(list, show, create, rename, remove, stats)
	return cmd
}
