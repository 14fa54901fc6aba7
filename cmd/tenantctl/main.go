package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:           "tenantctl",
		Short:         "Operator tooling for the tenant registry",
		Long:          "tenantctl manages the tenant registry: listing tenants, running registry migrations, sweeping maintenance jobs across tenants, and checking backing-store health.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")

	root.AddCommand(
		newListCmd(),
		newMigrateCmd(),
		newSweepCmd(),
		newStatusCmd(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "tenantctl:", err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger, honoring the --verbose flag.
func newLogger(cmd *cobra.Command) *slog.Logger {
	opts := []logger.Option{
		logger.WithFormat(logger.FormatText),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithContextExtractors(tenant.LoggerExtractor()),
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts = append(opts, logger.WithLevel(slog.LevelDebug))
	}
	return logger.New(opts...)
}

// connectRegistry loads the Postgres config from the environment and
// opens the pool backing the tenant registry.
func connectRegistry(ctx context.Context) (*pgxpool.Pool, pg.Config, error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, cfg, fmt.Errorf("load postgres config: %w", err)
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("connect to tenant registry: %w", err)
	}
	return pool, cfg, nil
}
