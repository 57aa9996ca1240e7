package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/listingscore/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to .listingscorerc.json",
		Long: `Write the configuration in effect (defaults, an existing config file, the
environment and any flags given) to .listingscorerc.json in the working
directory, so later runs pick it up.

The PostgreSQL DSN and the Redis password are never written; keep them in the
environment or a .env file.`,
		Example: `  listingscore init
  listingscore init --rubric v1 --fail-on error --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func runInit(cmd *cobra.Command, a *app, force bool) error {
	path := config.ConfigFiles[0]
	if !force {
		for _, existing := range config.ConfigFiles {
			if _, err := os.Stat(existing); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", existing)
			}
		}
	}

	cfg := *a.cfg
	cfg.Root = "."
	if a.root != "" {
		cfg.Root = a.root
	}
	cfg.PostgresDSN = ""

	if err := config.SaveConfig(&cfg, path); err != nil {
		return err
	}
	a.logger.Info("Configuration written", zap.String("path", path))
	if !a.cfg.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}
