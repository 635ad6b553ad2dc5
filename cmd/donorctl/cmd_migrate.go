package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kovil/internal/infra"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.StorageDriver != infra.StorageDriverPostgres {
				return fmt.Errorf("migrate needs STORAGE_DRIVER=postgres")
			}
			applied, err := infra.Migrate(cmd.Context(), c.cfg.DatabaseURL, c.logger)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", v)
			}
			return nil
		},
	}
}
