package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tably-ai/tably-cli/pkg/config"
)

// NewRootCmd builds the tably command tree.
func NewRootCmd(version string) *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "tably",
		Short:         "Tably - talk to your business data",
		Long:          "Tably uploads your business files, walks the onboarding pipeline,\nand answers questions about your data in plain language.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = NewApp(version)
			if err != nil {
				return fmt.Errorf("initialize: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	appRef := func() *App { return app }

	root.AddCommand(newConfigCmd())
	root.AddCommand(newLoginCmd(appRef))
	root.AddCommand(newRegisterCmd(appRef))
	root.AddCommand(newLogoutCmd(appRef))
	root.AddCommand(newWhoamiCmd(appRef))
	root.AddCommand(newOnboardCmd(appRef))
	root.AddCommand(newStatusCmd(appRef))
	root.AddCommand(newAskCmd(appRef))
	root.AddCommand(newChatCmd(appRef))
	root.AddCommand(newConversationsCmd(appRef))
	root.AddCommand(newDataSourcesCmd(appRef))

	return root
}

// newConfigCmd manages the local configuration file. It deliberately does
// not build the App: it must work before a config file exists.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage local configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a starter config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.WriteDefault()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})
	return cmd
}
