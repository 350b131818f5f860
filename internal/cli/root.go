// Package cli is the talkmaster operator command line. It drives the same
// API client and lifecycle controller as the dashboard.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/talkmaster-dashboard/internal/apiclient"
	"github.com/iliyamo/talkmaster-dashboard/internal/config"
	"github.com/iliyamo/talkmaster-dashboard/internal/lifecycle"
	"github.com/iliyamo/talkmaster-dashboard/internal/logging"
	"github.com/iliyamo/talkmaster-dashboard/internal/service"
	"github.com/iliyamo/talkmaster-dashboard/internal/session"
)

// App carries the persistent flags shared by every command.
type App struct {
	APIURL   string
	Token    string
	Timeout  time.Duration
	LogLevel string
}

// NewRootCmd builds the talkmaster command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "talkmaster",
		Short:         "TalkMaster dashboard and operator tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the dashboard
  talkmaster serve

  # Accept a talk, then schedule it
  talkmaster --token $TOKEN talks status 12 ACCEPTE
  talkmaster --token $TOKEN talks schedule 12 --room 3 --date 2025-06-12 --time 14:00
`),
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("TALKMASTER_API_URL", "http://localhost:8000"), "TalkMaster API base URL")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("TALKMASTER_TOKEN", ""), "Bearer token used for API calls")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 10*time.Second, "Timeout of one API call")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newTalksCmd(app))
	cmd.AddCommand(newAuditCmd(app))
	return cmd
}

// Execute runs the command tree with .env pre-loaded and returns the exit code.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return 1
	}
	if err := cmd.ExecuteContext(ctx); err != nil {
		var r reported
		if !errors.As(err, &r) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
		return 1
	}
	return 0
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (app *App) logger(cmd *cobra.Command) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), app.LogLevel)
}

func (app *App) client() (*apiclient.Client, error) {
	c, err := apiclient.New(app.APIURL, app.Timeout)
	if err != nil {
		return nil, err
	}
	return c.WithToken(app.Token), nil
}

func (app *App) authenticated() (*apiclient.Client, error) {
	if app.Token == "" {
		return nil, errors.New("no token: pass --token or set TALKMASTER_TOKEN (see talkmaster login)")
	}
	return app.client()
}

// controller returns a lifecycle controller without a cache; events are
// published when a broker is configured.
func (app *App) controller(cmd *cobra.Command) *lifecycle.Controller {
	var events lifecycle.Publisher
	if pub := service.NewPublisher(config.LoadEventsConfig()); pub != nil {
		events = pub
	}
	return lifecycle.New(nil, events, app.logger(cmd))
}

// actorContext tags lifecycle events with the token's subject.
func (app *App) actorContext(ctx context.Context) context.Context {
	actor := "cli"
	if h, err := session.DecodeHint(app.Token); err == nil && h.Subject != "" {
		actor = h.Subject
	}
	return lifecycle.WithActor(ctx, actor)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reported marks an error already printed by writeErr.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

// writeErr prints err for the operator. Controller failures print their
// user-facing message.
func writeErr(cmd *cobra.Command, err error) error {
	msg := err.Error()
	var le *lifecycle.Error
	if errors.As(err, &le) {
		msg = le.Message
	}
	fmt.Fprintln(cmd.ErrOrStderr(), msg)
	return reported{err}
}
