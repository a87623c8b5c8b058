package main

import (
	"context"
	"fmt"

	"skilllink/internal/app"
	"skilllink/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var refreshDemandCmd = &cobra.Command{
	Use:   "refresh-demand [skill-id]",
	Short: "Recompute demand metrics for one skill, or for every active skill",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid skill id %q: %w", args[0], err)
				}
				s, err := c.DemandUC.RefreshSkill(ctx, id, metrics.TriggerCLI)
				if err != nil {
					return err
				}
				c.Log.Info("skill refreshed",
					zap.String("skill", s.Name),
					zap.Int("current_demand", s.CurrentDemandPct),
					zap.Int("growth_rate", s.GrowthRatePct),
				)
				return nil
			}

			n, err := c.DemandUC.RefreshAll(ctx, metrics.TriggerCLI)
			c.Log.Info("demand refresh finished", zap.Int("refreshed", n))
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(refreshDemandCmd)
}
