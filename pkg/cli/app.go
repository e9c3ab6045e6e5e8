// Package cli implements the tably command-line interface.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/tably-ai/tably-cli/pkg/apperrors"
	"github.com/tably-ai/tably-cli/pkg/config"
	"github.com/tably-ai/tably-cli/pkg/gateway"
	"github.com/tably-ai/tably-cli/pkg/logging"
	"github.com/tably-ai/tably-cli/pkg/session"
)

// App holds the dependencies shared by every command. It is built once in
// the root command's PersistentPreRun.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Gateway *gateway.Client
	Session *session.Store

	Stdin  io.Reader
	Stdout io.Writer
}

// NewApp wires the application from configuration.
func NewApp(version string) (*App, error) {
	cfg, err := config.Load(version)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	gw := gateway.NewClient(cfg.APIBaseURL, logger)
	tokens := session.NewFileTokenStore(cfg.TokenPath)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Gateway: gw,
		Session: session.NewStore(gw, tokens, logger),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
	}, nil
}

// RequireAuth restores the session and fails if nobody is logged in.
func (a *App) RequireAuth(ctx context.Context) error {
	if a.Session.Status() == session.StatusRestoring {
		a.Session.Restore(ctx)
	}
	if a.Session.Status() != session.StatusAuthenticated {
		return fmt.Errorf("%w: run `tably login` first", apperrors.ErrNotAuthenticated)
	}
	return nil
}

// Confirm asks a yes/no question and returns the answer. Destructive
// operations must go through this before hitting the backend.
func (a *App) Confirm(prompt string) bool {
	fmt.Fprintf(a.Stdout, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(a.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// ReadLine reads one line of input, trimmed.
func (a *App) ReadLine() (string, error) {
	reader := bufio.NewReader(a.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// RenderError prints a failure in a user-facing form. DPA consent errors
// get routed to a dedicated consent explanation instead of a raw dump.
func (a *App) RenderError(err error) {
	var gwErr *gateway.GatewayError
	if errors.As(err, &gwErr) {
		if gwErr.ConsentRequired() {
			color.New(color.FgYellow).Fprintln(a.Stdout, "Your organization must accept the data processing agreement before continuing.")
			fmt.Fprintln(a.Stdout, "Visit your organization settings in the web app to review and accept it, then retry.")
			return
		}
		color.New(color.FgRed).Fprintf(a.Stdout, "Error: %s\n", gwErr.Message)
		if gwErr.IsRetryable() {
			fmt.Fprintln(a.Stdout, "This looks temporary; trying again may help.")
		}
		return
	}
	color.New(color.FgRed).Fprintf(a.Stdout, "Error: %v\n", err)
}
