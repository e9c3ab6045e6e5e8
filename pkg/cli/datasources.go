package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tably-ai/tably-cli/pkg/datasources"
)

func newDataSourcesCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasources",
		Aliases: []string{"ds"},
		Short:   "Manage uploaded data sources",
	}

	svc := func(cmd *cobra.Command) (*App, *datasources.Service, error) {
		a := app()
		if err := a.RequireAuth(cmd.Context()); err != nil {
			return nil, nil, err
		}
		return a, datasources.NewService(a.Gateway, a.Session.Token(), a.Logger), nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List data sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, s, err := svc(cmd)
			if err != nil {
				return err
			}
			sources, err := s.List(cmd.Context())
			if err != nil {
				a.RenderError(err)
				return err
			}
			for _, ds := range sources {
				fmt.Fprintf(a.Stdout, "%s  %-30s %-10s %-10s %d rows\n",
					ds.ID, ds.Name, ds.Type, ds.Status, ds.RowCount)
			}
			return nil
		},
	}

	preview := &cobra.Command{
		Use:   "preview <id>",
		Short: "Show a row sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, s, err := svc(cmd)
			if err != nil {
				return err
			}
			p, err := s.Preview(cmd.Context(), args[0])
			if err != nil {
				a.RenderError(err)
				return err
			}
			fmt.Fprintf(a.Stdout, "columns: %v\n", p.Columns)
			for _, row := range p.Rows {
				fmt.Fprintf(a.Stdout, "%v\n", row)
			}
			fmt.Fprintf(a.Stdout, "%d rows total\n", p.Total)
			return nil
		},
	}

	schema := &cobra.Command{
		Use:   "schema <id>",
		Short: "Show the materialized schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, s, err := svc(cmd)
			if err != nil {
				return err
			}
			sch, err := s.Schema(cmd.Context(), args[0])
			if err != nil {
				a.RenderError(err)
				return err
			}
			for _, t := range sch.Tables {
				fmt.Fprintf(a.Stdout, "%s\n", t.Name)
				for _, c := range t.Columns {
					nullable := "not null"
					if c.Nullable {
						nullable = "nullable"
					}
					fmt.Fprintf(a.Stdout, "  %-24s %-12s %s\n", c.Name, c.Type, nullable)
				}
			}
			return nil
		},
	}

	doc := &cobra.Command{
		Use:   "doc <id>",
		Short: "Show extracted document content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, s, err := svc(cmd)
			if err != nil {
				return err
			}
			d, err := s.Document(cmd.Context(), args[0])
			if err != nil {
				a.RenderError(err)
				return err
			}
			fmt.Fprintln(a.Stdout, d.Content)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a data source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, s, err := svc(cmd)
			if err != nil {
				return err
			}
			if !a.Confirm(fmt.Sprintf("Delete data source %s?", args[0])) {
				fmt.Fprintln(a.Stdout, "Aborted.")
				return nil
			}
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				a.RenderError(err)
				return err
			}
			fmt.Fprintln(a.Stdout, "Deleted.")
			return nil
		},
	}

	cmd.AddCommand(list, preview, schema, doc, remove)
	return cmd
}
