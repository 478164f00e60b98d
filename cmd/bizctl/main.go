// Command bizctl is the operator CLI: schema migrations, user provisioning and bulk imports.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/balagrajendran/purchase-management-sub000/pkg/config"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

var version = "1.0.0"

// cli state shared by subcommands, filled in by the root PersistentPreRunE.
type cli struct {
	envFile string
	cfg     *config.Config
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "bizctl",
		Short:         "Operator CLI for the purchase management API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(c.envFile); err != nil && c.envFile != ".env" {
				return fmt.Errorf("load %s: %w", c.envFile, err)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			c.cfg = cfg
			c.log = logger.New(logger.Config{Env: "development", Level: cfg.Log.Level, Output: cmd.ErrOrStderr()})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newMigrateCmd(c), newUserCmd(c), newImportCmd(c))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bizctl: %v\n", err)
		os.Exit(1)
	}
}
