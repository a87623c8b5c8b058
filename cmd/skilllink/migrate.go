package main

import (
	"context"

	"skilllink/internal/app"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			return c.Migrate(ctx)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply migrations and seed the skill catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			if err := c.Migrate(ctx); err != nil {
				return err
			}
			demo, _ := cmd.Flags().GetBool("demo")
			return c.Seed(ctx, demo)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("demo", false, "also create demo users and a month of jobs around Bengaluru")
}
