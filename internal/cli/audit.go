package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/talkmaster-dashboard/internal/config"
	"github.com/iliyamo/talkmaster-dashboard/internal/queue"
)

func newAuditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Append talk lifecycle events to the audit log",
		Long:  "Consume the lifecycle queue and append one line per event to <EVENTS_LOG_DIR>/" + queue.AuditFile + ". Runs until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err := queue.StartAuditConsumer(ctx, config.LoadEventsConfig(), app.logger(cmd))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}
