package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dotcommander/listingscore/internal/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [listing-id]",
		Short: "Show stored scores from PostgreSQL",
		Long: `Without an id, show the newest stored score of every listing. With an id,
show that listing's scores over time, newest first.

Scores are stored by "listingscore batch --history".`,
		Example: `  listingscore history --postgres-dsn postgres://localhost/shop
  listingscore history japandi --limit 5 -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.PostgresDSN == "" {
				return fmt.Errorf("history needs a PostgreSQL DSN (--postgres-dsn or LISTINGSCORE_POSTGRESDSN)")
			}

			w, err := history.Open(cmd.Context(), a.cfg.PostgresDSN)
			if err != nil {
				return err
			}
			defer w.Close()

			var records []history.Record
			if len(args) == 1 {
				records, err = w.ListingHistory(cmd.Context(), args[0], limit)
			} else {
				records, err = w.Latest(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), a.cfg.Format, records)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum records shown for one listing")
	return cmd
}

// historyRow is the JSON shape of a stored score.
type historyRow struct {
	ListingID string  `json:"listing_id"`
	Path      string  `json:"path"`
	Rubric    string  `json:"rubric_version"`
	Online    bool    `json:"online"`
	Total     int     `json:"total"`
	Max       int     `json:"max"`
	Percent   float64 `json:"percent"`
	Grade     string  `json:"grade"`
	Errors    int     `json:"errors"`
	Warnings  int     `json:"warnings"`
	ScoredAt  string  `json:"scored_at"`
}

func printHistory(w io.Writer, format string, records []history.Record) error {
	if format == "json" {
		rows := make([]historyRow, 0, len(records))
		for _, r := range records {
			rows = append(rows, historyRow{
				ListingID: r.ListingID,
				Path:      r.Path,
				Rubric:    r.RubricVersion,
				Online:    r.Online,
				Total:     r.Total,
				Max:       r.Max,
				Percent:   r.Percent,
				Grade:     r.Grade,
				Errors:    r.Errors,
				Warnings:  r.Warnings,
				ScoredAt:  r.ScoredAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No stored scores.")
		return nil
	}
	for _, r := range records {
		mode := "offline"
		if r.Online {
			mode = "online"
		}
		fmt.Fprintf(w, "%-20s %-24s %3d/%-3d %5.1f%%  %s  %d errors, %d warnings  [%s, %s]\n",
			r.ScoredAt.Local().Format("2006-01-02 15:04:05"), r.ListingID, r.Total, r.Max, r.Percent,
			r.Grade, r.Errors, r.Warnings, r.RubricVersion, mode)
	}
	return nil
}
