package main

import (
	"context"
	"os/signal"
	"syscall"

	"skilllink/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the demand websocket feed and the demand refresh cron",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			if skip, _ := cmd.Flags().GetBool("skip-migrate"); !skip {
				if err := c.Migrate(ctx); err != nil {
					return err
				}
			}
			c.Log.Info("starting", zap.String("env", c.Config.App.Environment), zap.String("version", version))
			return app.New(c).Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("skip-migrate", false, "do not apply pending migrations on startup")
}
