package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import donations from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ctr, err := c.container(cmd.Context())
			if err != nil {
				return err
			}
			defer ctr.Close()

			res, err := ctr.Importer.ImportFile(cmd.Context(), filepath.Base(args[0]), "", f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Message)
			for _, w := range res.Warnings {
				fmt.Fprintln(out, "warning:", w)
			}
			for _, e := range res.Errors {
				fmt.Fprintln(out, "error:", e)
			}
			return nil
		},
	}
}
