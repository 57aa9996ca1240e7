package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/listingscore/internal/discovery"
	"github.com/dotcommander/listingscore/internal/listing"
	"github.com/dotcommander/listingscore/internal/output"
)

type scoreOptions struct {
	report  string
	offline bool
}

func newScoreCmd(a *app) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score <listing-file>",
		Short: "Score one listing",
		Long: `Score one listing file (Markdown with YAML frontmatter, YAML or JSON).

The autocomplete report is taken from --report, from the listing's own
"autocomplete" block, or from a sibling <id>.autocomplete.{json,yaml,yml} file,
in that order. With no report the listing is scored offline.`,
		Example: `  listingscore score shop/japandi.listing.md
  listingscore score shop/japandi.listing.md --report reports/japandi.json -f json
  listingscore score shop/japandi.listing.md --offline --fail-on warning`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, a, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.report, "report", "", "Autocomplete report file for online scoring")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "Ignore any autocomplete report and score offline")
	return cmd
}

func runScore(cmd *cobra.Command, a *app, opts *scoreOptions, path string) error {
	absPath, err := discovery.ValidateFilePath(path)
	if err != nil {
		return err
	}

	file, err := listing.Load(absPath)
	if err != nil {
		return err
	}

	report, err := resolveReport(a.logger, file, opts.report, opts.offline)
	if err != nil {
		return err
	}

	engine, err := a.engine()
	if err != nil {
		return err
	}

	res := engine.Score(file.Listing, report)
	a.logger.Info("Scored listing",
		zap.String("path", absPath),
		zap.Int("total", res.Total),
		zap.Int("max", res.Max),
		zap.String("grade", res.Grade),
		zap.Bool("online", res.Online))

	r := output.Single(displayPath(a.cfg.Root, absPath), file.Listing.ID, res)
	if err := a.render(cmd, r); err != nil {
		return err
	}
	return a.checkFailOn(r)
}

// resolveReport picks the autocomplete report for a listing: explicit,
// then embedded, then sibling file.
func resolveReport(logger *zap.Logger, file *listing.File, explicit string, offline bool) (*listing.Autocomplete, error) {
	if offline {
		return nil, nil
	}
	if explicit != "" && file.Autocomplete != nil {
		logger.Info("Explicit report overrides the embedded one",
			zap.String("listing", file.Path), zap.String("report", explicit))
	}
	if explicit == "" {
		if file.Autocomplete != nil {
			return file.Autocomplete, nil
		}
		explicit = discovery.ReportPath(file.Path, "")
	}
	if explicit == "" {
		return nil, nil
	}
	report, err := listing.LoadAutocomplete(explicit)
	if err != nil {
		return nil, fmt.Errorf("error loading autocomplete report: %w", err)
	}
	return report, nil
}

// displayPath shows paths relative to the project root when possible.
func displayPath(root, path string) string {
	if root == "" {
		return path
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
