// Command donorctl runs operator tasks against the donation store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"kovil/internal/bootstrap"
	"kovil/internal/infra"
)

type cli struct {
	cfg    *infra.Config
	logger infra.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "donorctl:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "donorctl",
		Short:         "Operate the temple donation ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = infra.NewLogger(cfg.AppEnv).With().Str("cmd", cmd.Name()).Logger()
			return nil
		},
	}
	root.AddCommand(
		c.migrateCmd(),
		c.importCmd(),
		c.exportCmd(),
		c.nextReceiptCmd(),
		c.adminCmd(),
	)
	return root
}

func (c *cli) container(ctx context.Context) (*bootstrap.Container, error) {
	return bootstrap.New(ctx, c.cfg, c.logger)
}
