package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/utakatalp/prode/internal/config"
	"github.com/utakatalp/prode/internal/store"
)

var (
	// configPath is the CLI --config flag value
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "prode",
	Short: "Group prediction pools",
	Long: `prode keeps group fixtures, results and users' score guesses, and
computes group tables with their tiebreaks from either of them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./prode.yaml if present)")
}

// app bundles what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	store  *store.Store
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger()

	s, err := store.NewStore(ctx, cfg.Database.DSN)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, store: s}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.WithError(err).Warn("Closing database")
	}
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, arg)
	}
	return id, nil
}

func parseGoals(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid goal count %q", arg)
	}
	return n, nil
}
