package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) nextReceiptCmd() *cobra.Command {
	var year int
	var peek bool
	cmd := &cobra.Command{
		Use:   "next-receipt",
		Short: "Issue the next receipt number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctr, err := c.container(cmd.Context())
			if err != nil {
				return err
			}
			defer ctr.Close()

			if year == 0 {
				year = nowIn(c.cfg.Location).Year()
			}
			if peek {
				n, err := ctr.Receipts.Current(cmd.Context(), year)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", year, ctr.Receipts.Format(n))
				return nil
			}
			no, err := ctr.Receipts.Next(cmd.Context(), year)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", year, no)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "receipt year (defaults to the current year)")
	cmd.Flags().BoolVar(&peek, "peek", false, "print the last issued number without consuming one")
	return cmd
}
