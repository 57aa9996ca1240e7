package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/listingscore/internal/lexicon"
)

func newLexiconCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Print the effective word lists as YAML",
		Long: `Print the lexicon selected by --lexicon, or the built-in wall-art lexicon.
Copy it as a starting point for another niche and pass the edited file back
with --lexicon.`,
		Example: `  listingscore lexicon > ceramics.yaml
  listingscore lexicon validate ceramics.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			data, err := engine.Lexicon().Marshal()
			if err != nil {
				return fmt.Errorf("failed to render lexicon: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check a lexicon file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lex, err := lexicon.Load(args[0])
			if err != nil {
				return err
			}
			if !a.cfg.Quiet {
				words := len(lex.Filler) + len(lex.Rooms) + len(lex.Occasions) + len(lex.Aesthetics) +
					len(lex.Techniques) + len(lex.BuyerIntent) + len(lex.WastedTags)
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d words\n", args[0], words)
			}
			return nil
		},
	})
	return cmd
}
