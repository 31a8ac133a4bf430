package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shagtracker/shagbot/internal/app"
	"github.com/shagtracker/shagbot/internal/config"
	"github.com/shagtracker/shagbot/internal/logger"
)

func SweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one expiry pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context())
		},
	}
}

func runSweep(ctx context.Context) error {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	processed, err := a.Sweeper.ExpireGoals(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d expired goals\n", processed)
	return nil
}
