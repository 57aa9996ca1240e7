// Package output renders scored listings for the terminal, as JSON and as
// Markdown.
package output

import (
	"io"
	"time"

	"github.com/dotcommander/listingscore/internal/batch"
	"github.com/dotcommander/listingscore/internal/scoring"
	"github.com/dotcommander/listingscore/internal/types"
)

// Tool identifies the producer in machine-readable reports.
const Tool = "listingscore"

// Version is stamped into reports; set by the cmd package at startup.
var Version = "dev"

// Report is one rendering unit: a single listing from score, or many
// listings plus a summary from batch.
type Report struct {
	Listings   []ListingReport
	Summary    *batch.Summary
	Suppressed int
	StartTime  time.Time
}

// ListingReport is one listing's row in a report. Result is nil when the
// listing could not be loaded.
type ListingReport struct {
	Path   string          `json:"path"`
	ID     string          `json:"id,omitempty"`
	Result *scoring.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Cached bool            `json:"cached,omitempty"`
}

// Formatter renders a report.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// NewReport builds a report from batch outcomes, in outcome order.
func NewReport(outcomes []batch.Outcome) *Report {
	r := &Report{StartTime: time.Now(), Listings: make([]ListingReport, 0, len(outcomes))}
	for _, o := range outcomes {
		lr := ListingReport{Path: o.Path, ID: o.ID, Cached: o.Cached}
		if o.OK() {
			res := o.Result
			lr.Result = &res
		} else {
			lr.Error = o.Err.Error()
		}
		r.Listings = append(r.Listings, lr)
	}
	return r
}

// Single builds a report for one scored listing.
func Single(path, id string, res scoring.Result) *Report {
	return &Report{
		StartTime: time.Now(),
		Listings:  []ListingReport{{Path: path, ID: id, Result: &res}},
	}
}

// Failed counts listings that could not be scored.
func (r *Report) Failed() int {
	n := 0
	for _, l := range r.Listings {
		if l.Result == nil {
			n++
		}
	}
	return n
}

// WorstSeverity is the most severe issue across all scored listings.
func (r *Report) WorstSeverity() types.Severity {
	worst := types.SeverityGood
	for _, l := range r.Listings {
		if l.Result == nil {
			continue
		}
		if sev := l.Result.WorstSeverity(); sev.Rank() > worst.Rank() {
			worst = sev
		}
	}
	return worst
}

// label is how a listing is named in human-readable output.
func (l ListingReport) label() string {
	if l.Path != "" {
		return l.Path
	}
	if l.ID != "" {
		return l.ID
	}
	return "(listing)"
}

func countSeverity(issues []scoring.Issue, sev types.Severity) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

func mode(res *scoring.Result) string {
	if res.Online {
		return "online"
	}
	return "offline"
}
