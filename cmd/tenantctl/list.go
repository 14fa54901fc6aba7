package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantkit/pkg/pg"
)

func newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active tenants in the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, cfg, err := connectRegistry(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := pg.NewRepository(pool, cfg.TenantsTable)
			tenants, err := repo.ListActive(ctx)
			if err != nil {
				return fmt.Errorf("list active tenants: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tenants)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSUBDOMAIN\tDOMAIN\tNAME")
			for _, t := range tenants {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Subdomain, t.Domain, t.Name)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
