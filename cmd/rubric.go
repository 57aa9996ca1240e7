package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/listingscore/internal/scoring"
)

func newRubricCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Print the effective rubric as YAML",
		Long: `Print the rubric selected by --rubric or --rubric-file. The output is a
valid rubric file and can be edited and passed back with --rubric-file.`,
		Example: `  listingscore rubric --rubric v1 > rubric.yaml
  listingscore rubric validate rubric.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			data, err := engine.Rubric().Marshal()
			if err != nil {
				return fmt.Errorf("failed to render rubric: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check a rubric file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := scoring.LoadRubric(args[0])
			if err != nil {
				return err
			}
			if !a.cfg.Quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: rubric %s, %d points online, %d offline\n",
					args[0], r.Version, r.OnlineMax, r.OfflineMax)
			}
			return nil
		},
	})
	return cmd
}
