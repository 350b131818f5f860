package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/talkmaster-dashboard/internal/config"
	"github.com/iliyamo/talkmaster-dashboard/internal/logging"
	"github.com/iliyamo/talkmaster-dashboard/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return writeErr(cmd, err)
			}
			logger := logging.New(cmd.OutOrStdout(), cfg.LogLevel)
			srv, err := server.New(cfg, server.LoadInfra(), logger)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}
