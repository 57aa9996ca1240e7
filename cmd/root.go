// Package cmd implements the listingscore command line.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dotcommander/listingscore/internal/config"
	"github.com/dotcommander/listingscore/internal/lexicon"
	"github.com/dotcommander/listingscore/internal/logging"
	"github.com/dotcommander/listingscore/internal/output"
	"github.com/dotcommander/listingscore/internal/outputters"
	"github.com/dotcommander/listingscore/internal/project"
	"github.com/dotcommander/listingscore/internal/scoring"
	"github.com/dotcommander/listingscore/internal/types"
)

// exitFunc is swapped out in tests.
var exitFunc = os.Exit

// exitCodeError ends the process with a code and no error message. It is
// how --fail-on reports findings.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// app carries state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
	root   string
}

// Execute runs the CLI with the process arguments and exits non-zero on
// failure.
func Execute() {
	if code := run(os.Args[1:], os.Stdout, os.Stderr); code != 0 {
		exitFunc(code)
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	var exitErr exitCodeError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.code
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "listingscore",
		Short: "Score marketplace listings for search visibility",
		Long: `listingscore grades marketplace listings (title, tags, description and
metadata) against a versioned rubric and lists what to fix.

With an autocomplete report for the listing the score includes market fit
(online mode); without one it is scored offline against a lower maximum.`,
		Version:       output.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.root, "root", "r", "", "Project root for listing discovery (default: nearest directory with a config file, listings/ or .git)")
	flags.BoolP("quiet", "q", false, "Suppress report output; rely on the exit code")
	flags.BoolP("verbose", "v", false, "Show sub-scores and passed checks")
	flags.StringP("format", "f", "console", "Output format (console|json|markdown)")
	flags.StringP("output", "o", "", "Write the report to a file instead of stdout")
	flags.String("fail-on", "none", "Exit with status 2 when findings reach this severity (error|warning|none)")
	flags.String("rubric", scoring.DefaultRubricVersion, "Built-in rubric version (v1|v2)")
	flags.String("rubric-file", "", "Load the rubric from a YAML file instead of a built-in version")
	flags.String("lexicon", "", "Load word lists from a YAML file instead of the built-in lexicon")
	flags.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flags.String("log-file", "", "Write logs to a file instead of stderr")
	flags.String("postgres-dsn", "", "PostgreSQL connection string for score history")

	for key, flag := range map[string]string{
		"quiet":       "quiet",
		"verbose":     "verbose",
		"format":      "format",
		"output":      "output",
		"failOn":      "fail-on",
		"rubric":      "rubric",
		"rubricFile":  "rubric-file",
		"lexicon":     "lexicon",
		"logLevel":    "log-level",
		"logFile":     "log-file",
		"postgresDSN": "postgres-dsn",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		newScoreCmd(a),
		newBatchCmd(a),
		newDraftCmd(a),
		newHistoryCmd(a),
		newRubricCmd(a),
		newLexiconCmd(a),
		newFmtCmd(a),
		newInitCmd(a),
	)
	return rootCmd
}

// init loads configuration and builds the logger once flags are parsed.
func (a *app) init() error {
	cfg, err := config.Load(a.v, a.root)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if a.root == "" && cfg.Root == "." {
		if cfg.Root, err = project.FindProjectRoot("."); err != nil {
			return fmt.Errorf("error finding project root: %w", err)
		}
	}
	a.cfg = cfg

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	a.logger = logger
	a.logger.Debug("Configuration loaded",
		zap.String("root", cfg.Root),
		zap.String("rubric", cfg.Rubric),
		zap.String("format", cfg.Format))
	return nil
}

// engine builds the scoring engine from the configured rubric and lexicon.
func (a *app) engine() (*scoring.Engine, error) {
	var (
		rubric *scoring.Rubric
		err    error
	)
	if a.cfg.RubricFile != "" {
		rubric, err = scoring.LoadRubric(a.cfg.RubricFile)
	} else {
		rubric, err = scoring.RubricByVersion(a.cfg.Rubric)
	}
	if err != nil {
		return nil, err
	}

	lex := lexicon.Default()
	if a.cfg.Lexicon != "" {
		if lex, err = lexicon.Load(a.cfg.Lexicon); err != nil {
			return nil, err
		}
	}

	return scoring.NewEngine(rubric, lex)
}

// render writes a report with the configured formatter.
func (a *app) render(cmd *cobra.Command, r *output.Report) error {
	o := outputters.NewOutputter(a.cfg)
	o.SetStdout(cmd.OutOrStdout())
	if err := o.Format(r, a.cfg.Format); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}

// checkFailOn turns the report's worst finding into exit status 2 when it
// reaches the --fail-on level. Listings that failed to load count as errors.
func (a *app) checkFailOn(r *output.Report) error {
	level, err := config.ParseFailOn(a.cfg.FailOn)
	if err != nil {
		return err
	}

	worst := r.WorstSeverity()
	if r.Failed() > 0 {
		worst = types.SeverityError
	}

	switch {
	case level == config.FailOnError && worst == types.SeverityError,
		level == config.FailOnWarning && worst.Rank() >= types.SeverityWarning.Rank():
		a.logger.Info("Findings reached fail-on level", zap.String("failOn", a.cfg.FailOn), zap.String("worst", string(worst)))
		return exitCodeError{code: 2}
	}
	return nil
}
