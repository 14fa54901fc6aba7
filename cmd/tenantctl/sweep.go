package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantkit/pkg/bootstrap"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/pkg/tables"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func newSweepCmd() *cobra.Command {
	var (
		format      string
		tableNames  []string
		dryRun      bool
		baseDomain  string
		showTenants bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run per-tenant maintenance across all active tenants",
		Long:  "sweep boots the tenant subsystems for every active tenant in turn, resolves the requested logical table names against each tenant's prefix, and tears the subsystems down again before moving to the next tenant.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger(cmd)

			pool, cfg, err := connectRegistry(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := pg.NewRepository(pool, cfg.TenantsTable)
			resolver := tables.NewResolver(
				tables.WithFormat(format),
				tables.WithGlobalTables([]string{cfg.TenantsTable, cfg.MigrationsTable}),
			)

			scope := tenant.NewScope(tenant.WithBaseDomain(baseDomain))
			orch := bootstrap.New(scope,
				bootstrap.WithRepository(repo),
				bootstrap.WithLogger(log),
			)
			orch.Register(bootstrap.AdapterTables, bootstrap.NewTableAdapter(resolver))

			out := cmd.OutOrStdout()
			err = bootstrap.Sweep(ctx, repo, orch, func(ctx context.Context, t *tenant.Tenant) error {
				if showTenants {
					fmt.Fprintf(out, "tenant %d (%s)\n", t.ID, t.Subdomain)
				}
				if len(tableNames) == 0 {
					return nil
				}
				resolved, err := resolver.ResolveMany(tableNames)
				if err != nil {
					return err
				}
				for _, logical := range tableNames {
					fmt.Fprintf(out, "  %s -> %s\n", logical, resolved[logical])
				}
				if dryRun {
					log.DebugContext(ctx, "dry run, skipping tenant maintenance")
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", tables.DefaultFormat, "physical table name format")
	cmd.Flags().StringSliceVar(&tableNames, "table", nil, "logical table names to resolve per tenant")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and report without touching tenant data")
	cmd.Flags().StringVar(&baseDomain, "base-domain", "", "base domain for subdomain resolution")
	cmd.Flags().BoolVar(&showTenants, "show-tenants", true, "print each tenant as it is visited")
	return cmd
}
