// Package baseline records known listing issues so repeated batch runs can
// report only new findings.
package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dotcommander/listingscore/internal/scoring"
	"github.com/dotcommander/listingscore/internal/types"
)

// DefaultPath is where batch --create-baseline writes when no path is given.
const DefaultPath = ".listingscore-baseline.json"

// Baseline represents a snapshot of known issues that should be ignored
type Baseline struct {
	Version      string   `json:"version"`
	CreatedAt    string   `json:"created_at"`
	Fingerprints []string `json:"fingerprints"`
	index        map[string]bool
}

// Finding is an issue attributed to one listing.
type Finding struct {
	ListingID string
	Issue     scoring.Issue
}

// FindingsOf returns the warnings and errors of a result. Good findings are
// confirmations and never baselined.
func FindingsOf(listingID string, res scoring.Result) []Finding {
	var out []Finding
	for _, issue := range res.Issues {
		if issue.Severity == types.SeverityGood {
			continue
		}
		out = append(out, Finding{ListingID: listingID, Issue: issue})
	}
	return out
}

// CreateBaseline creates a new baseline from a list of findings
func CreateBaseline(findings []Finding) *Baseline {
	fingerprints := make([]string, 0, len(findings))
	index := make(map[string]bool)

	for _, f := range findings {
		fp := fingerprint(f)
		if !index[fp] {
			fingerprints = append(fingerprints, fp)
			index[fp] = true
		}
	}

	sort.Strings(fingerprints)

	return &Baseline{
		Version:      "1.0",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Fingerprints: fingerprints,
		index:        index,
	}
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}

	b.index = make(map[string]bool, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.index[fp] = true
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// IsKnown checks if a finding is in the baseline
func (b *Baseline) IsKnown(f Finding) bool {
	if b == nil || b.index == nil {
		return false
	}
	return b.index[fingerprint(f)]
}

// Filter returns a copy of res without the known issues of listingID, both
// in the flat issue list and in each section, plus the number suppressed.
// Scores are untouched.
func (b *Baseline) Filter(listingID string, res scoring.Result) (scoring.Result, int) {
	if b == nil || len(b.index) == 0 {
		return res, 0
	}

	keep := func(issues []scoring.Issue) ([]scoring.Issue, int) {
		kept := make([]scoring.Issue, 0, len(issues))
		dropped := 0
		for _, issue := range issues {
			if b.IsKnown(Finding{ListingID: listingID, Issue: issue}) {
				dropped++
				continue
			}
			kept = append(kept, issue)
		}
		return kept, dropped
	}

	out := res
	var suppressed int
	out.Issues, suppressed = keep(res.Issues)

	out.Sections.Title.Issues, _ = keep(res.Sections.Title.Issues)
	out.Sections.Tags.Issues, _ = keep(res.Sections.Tags.Issues)
	out.Sections.Description.Issues, _ = keep(res.Sections.Description.Issues)
	out.Sections.Metadata.Issues, _ = keep(res.Sections.Metadata.Issues)
	if res.Sections.MarketFit != nil {
		market := *res.Sections.MarketFit
		market.Issues, _ = keep(market.Issues)
		out.Sections.MarketFit = &market
	}

	return out, suppressed
}

// fingerprint hashes listing id, area and the normalized message. Severity is
// left out so a warning that becomes an error stays known.
func fingerprint(f Finding) string {
	data := fmt.Sprintf("%s|%s|%s", f.ListingID, f.Issue.Area, normalizeMessage(f.Issue.Message))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

var (
	doubleQuotedRe = regexp.MustCompile(`"[^"]+"`)
	numberRe       = regexp.MustCompile(`\b\d+\b`)
)

// normalizeMessage replaces counts and quoted values with placeholders so a
// finding survives small edits (title 41 chars -> 43 chars).
func normalizeMessage(msg string) string {
	msg = doubleQuotedRe.ReplaceAllString(msg, `"*"`)
	msg = numberRe.ReplaceAllString(msg, `N`)
	return strings.Join(strings.Fields(msg), " ")
}
