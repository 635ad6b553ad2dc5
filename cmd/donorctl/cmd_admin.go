package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"kovil/internal/domain"
	"kovil/internal/infra/credentials"
)

func (c *cli) adminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}
	admin.AddCommand(c.adminSetPasswordCmd(), c.adminListCmd())
	return admin
}

func (c *cli) adminSetPasswordCmd() *cobra.Command {
	var password, role string
	cmd := &cobra.Command{
		Use:   "set-password <username>",
		Short: "Create an account or reset its password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("DONORCTL_PASSWORD")
			}
			if password == "" {
				return errors.New("--password or DONORCTL_PASSWORD is required")
			}
			ctr, err := c.container(cmd.Context())
			if err != nil {
				return err
			}
			defer ctr.Close()

			admin, err := ctr.Credentials.SetPassword(cmd.Context(), args[0], password, domain.AdminRole(strings.ToLower(role)))
			var weak *credentials.WeakPasswordError
			if errors.As(err, &weak) {
				return fmt.Errorf("weak password: %s", strings.Join(weak.Reasons, "; "))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) updated\n", admin.Username, admin.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&role, "role", "admin", "role for a new account (admin or superadmin)")
	return cmd
}

func (c *cli) adminListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List administrator accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctr, err := c.container(cmd.Context())
			if err != nil {
				return err
			}
			defer ctr.Close()

			admins, err := ctr.Credentials.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tROLE\tLAST LOGIN")
			for _, a := range admins {
				last := "never"
				if a.LastLoginAt != nil {
					last = a.LastLoginAt.In(c.cfg.Location).Format(time.RFC3339)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Username, a.Role, last)
			}
			return tw.Flush()
		},
	}
}

func nowIn(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
