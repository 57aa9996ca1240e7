package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/listingscore/internal/discovery"
	"github.com/dotcommander/listingscore/internal/format"
)

type fmtOptions struct {
	check bool
	write bool
	diff  bool
}

func newFmtCmd(a *app) *cobra.Command {
	opts := &fmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format listing files canonically",
		Long: `Format listing files with canonical style.

FORMATTING RULES:

  Fields:
  - Order: id, title, tags, description_format, description, materials,
    colors, alt_texts, autocomplete, then other fields alphabetically
  - Tags are trimmed and inner whitespace collapsed

  Markdown:
  - Trim trailing whitespace from lines
  - Ensure file ends with exactly one newline

  JSON:
  - Two-space indent; key order is kept

With no paths, every listing under --root is formatted.`,
		Example: `  listingscore fmt shop/japandi.listing.md
  listingscore fmt -w listings/
  listingscore fmt --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, a, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.check, "check", false, "Exit 1 if files would change (for CI)")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Write changes in place")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Show diff of what would change")
	return cmd
}

func runFmt(cmd *cobra.Command, a *app, opts *fmtOptions, args []string) error {
	paths, err := collectListingPaths(a.cfg.Root, args, scopeAll, false)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files to format")
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	var needsFormatting []string

	for _, path := range paths {
		label := displayPath(a.cfg.Root, path)

		absPath, err := discovery.ValidateFilePath(path)
		if err != nil {
			if !a.cfg.Quiet {
				fmt.Fprintf(errOut, "Skipping %s: %v\n", label, err)
			}
			continue
		}

		formatter, err := format.ForPath(absPath)
		if err != nil {
			continue
		}

		content, err := os.ReadFile(absPath)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", label, err)
		}

		formatted, err := formatter.Format(string(content))
		if err != nil {
			if !a.cfg.Quiet {
				fmt.Fprintf(errOut, "Error formatting %s: %v\n", label, err)
			}
			continue
		}

		if string(content) == formatted {
			if a.cfg.Verbose {
				fmt.Fprintf(out, "%s already formatted\n", label)
			}
			continue
		}
		needsFormatting = append(needsFormatting, absPath)

		switch {
		case opts.check:
			if !a.cfg.Quiet {
				fmt.Fprintf(out, "%s needs formatting\n", label)
			}
		case opts.diff:
			fmt.Fprint(out, format.Diff(string(content), formatted, label))
		case opts.write:
			if err := os.WriteFile(absPath, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("error writing %s: %w", label, err)
			}
			if !a.cfg.Quiet {
				fmt.Fprintf(out, "Formatted %s\n", label)
			}
		default:
			fmt.Fprint(out, formatted)
		}
	}

	a.logger.Info("Formatting done", zap.Int("files", len(paths)), zap.Int("changed", len(needsFormatting)))

	if opts.check && len(needsFormatting) > 0 {
		if !a.cfg.Quiet {
			fmt.Fprintf(errOut, "\n%d file(s) need formatting\n", len(needsFormatting))
		}
		return exitCodeError{code: 1}
	}
	return nil
}
