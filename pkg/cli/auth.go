package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tably-ai/tably-cli/pkg/gateway"
	"github.com/tably-ai/tably-cli/pkg/session"
)

func newLoginCmd(app func() *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the Tably backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if email == "" {
				fmt.Fprint(a.Stdout, "Email: ")
				var err error
				if email, err = a.ReadLine(); err != nil {
					return err
				}
			}
			if password == "" {
				fmt.Fprint(a.Stdout, "Password: ")
				var err error
				if password, err = a.ReadLine(); err != nil {
					return err
				}
			}

			if err := a.Session.Login(cmd.Context(), email, password); err != nil {
				a.RenderError(err)
				return err
			}
			user := a.Session.User()
			org := a.Session.Organization()
			color.New(color.FgGreen).Fprintf(a.Stdout, "Logged in as %s (%s)\n", user.Name, user.Email)
			fmt.Fprintf(a.Stdout, "Organization: %s (onboarding: %s)\n", org.Name, org.OnboardingStatus)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	return cmd
}

func newRegisterCmd(app func() *App) *cobra.Command {
	var req gateway.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account and organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Session.Register(cmd.Context(), req); err != nil {
				a.RenderError(err)
				return err
			}
			color.New(color.FgGreen).Fprintf(a.Stdout, "Welcome, %s!\n", a.Session.User().Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.Name, "name", "", "your full name")
	cmd.Flags().StringVar(&req.OrganizationName, "org", "", "organization name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.Stdout, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			status := a.Session.Restore(cmd.Context())
			if status != session.StatusAuthenticated {
				fmt.Fprintln(a.Stdout, "Not logged in.")
				return nil
			}
			user := a.Session.User()
			org := a.Session.Organization()
			fmt.Fprintf(a.Stdout, "%s <%s>\n", user.Name, user.Email)
			fmt.Fprintf(a.Stdout, "Organization: %s (onboarding: %s)\n", org.Name, org.OnboardingStatus)
			return nil
		},
	}
}
