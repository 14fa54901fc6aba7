package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantkit/pkg/config"
	"github.com/dmitrymomot/tenantkit/pkg/mongo"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/pkg/redis"
)

func newStatusCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check connectivity to the configured backing stores",
		Long:  "status pings every backing store whose connection URL is present in the environment: Postgres (PG_CONN_URL), Redis (REDIS_URL), and MongoDB (MONGODB_URL). Unconfigured stores are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			var failed bool

			if os.Getenv("PG_CONN_URL") != "" {
				failed = report(out, "postgres", checkPostgres(ctx)) || failed
			} else {
				fmt.Fprintln(out, "postgres\tskipped (PG_CONN_URL not set)")
			}
			if os.Getenv("REDIS_URL") != "" {
				failed = report(out, "redis", checkRedis(ctx)) || failed
			} else {
				fmt.Fprintln(out, "redis\tskipped (REDIS_URL not set)")
			}
			if os.Getenv("MONGODB_URL") != "" {
				failed = report(out, "mongodb", checkMongo(ctx)) || failed
			} else {
				fmt.Fprintln(out, "mongodb\tskipped (MONGODB_URL not set)")
			}

			if failed {
				return errors.New("one or more backing stores are unhealthy")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "overall healthcheck timeout")
	return cmd
}

// report prints one check result and returns true when it failed.
func report(out io.Writer, name string, err error) bool {
	if err != nil {
		fmt.Fprintf(out, "%s\tFAIL: %v\n", name, err)
		return true
	}
	fmt.Fprintf(out, "%s\tok\n", name)
	return false
}

func checkPostgres(ctx context.Context) error {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	return pg.Healthcheck(pool)(ctx)
}

func checkRedis(ctx context.Context) error {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return redis.Healthcheck(client)(ctx)
}

func checkMongo(ctx context.Context) error {
	var cfg mongo.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	client, err := mongo.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()
	return mongo.Healthcheck(client)(ctx)
}
