package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/listingscore/internal/batch"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	indent bool
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(indent bool) *JSONFormatter {
	return &JSONFormatter{indent: indent}
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header   JSONHeader      `json:"header"`
	Summary  *batch.Summary  `json:"summary,omitempty"`
	Listings []ListingReport `json:"listings"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	Duration   string `json:"duration,omitempty"`
	Suppressed int    `json:"suppressed,omitempty"`
}

// Format writes the report as one JSON document.
func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	report := JSONReport{
		Header: JSONHeader{
			Tool:       Tool,
			Version:    Version,
			Timestamp:  time.Now().Format(time.RFC3339),
			Suppressed: r.Suppressed,
		},
		Summary:  r.Summary,
		Listings: r.Listings,
	}
	if !r.StartTime.IsZero() {
		report.Header.Duration = time.Since(r.StartTime).Round(time.Millisecond).String()
	}
	if report.Listings == nil {
		report.Listings = []ListingReport{}
	}

	var data []byte
	var err error
	if f.indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("error writing JSON: %w", err)
	}
	return nil
}
