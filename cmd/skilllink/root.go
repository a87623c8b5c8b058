package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"skilllink/internal/app"
	"skilllink/internal/config"
	"skilllink/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	appName        = "skilllink"
	connectTimeout = 10 * time.Second
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           appName,
		Short:         "skilllink matches gig workers to jobs and recommends skills to learn",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a YAML config file (overrides SKILLLINK_CONFIG)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
}

// loadConfig resolves the config and a logger honoring the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	if cfgFile != "" {
		if err := os.Setenv("SKILLLINK_CONFIG", cfgFile); err != nil {
			return config.Config{}, nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Log.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("json") {
		cfg.Log.JSON, _ = flags.GetBool("json")
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("creating a logger: %w", err)
	}
	return cfg, log.Named(appName), nil
}

// withContainer loads config, connects the container, runs fn and closes
// everything afterwards.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	connectCtx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
	c, err := app.NewContainer(connectCtx, cfg, log)
	cancel()
	if err != nil {
		log.Error("initializing dependencies", zap.Error(err))
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("closing dependencies", zap.Error(err))
		}
	}()

	return fn(cmd.Context(), c)
}
