package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantkit/pkg/pg"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending tenant registry migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger(cmd)

			pool, cfg, err := connectRegistry(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			return pg.Migrate(ctx, pool, cfg, log)
		},
	}
}
