package scoring

import "github.com/dotcommander/listingscore/internal/types"

// Issue is one finding about a listing. Issues explain a score; they are
// never an input to it.
type Issue struct {
	Severity types.Severity `json:"severity"`
	Area     types.Area     `json:"area"`
	Message  string         `json:"message"`
}

// SubScore is a single scoring criterion inside a section
type SubScore struct {
	Name      string `json:"name"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"max_points"`
	Note      string `json:"note,omitempty"`
}

// SectionScore is the fixed-shape result of one section scorer.
type SectionScore struct {
	Area        types.Area `json:"area"`
	Subs        []SubScore `json:"subs"`
	Total       int        `json:"total"`
	Max         int        `json:"max"`
	Issues      []Issue    `json:"issues,omitempty"`
	Suggestions []string   `json:"suggestions,omitempty"`
}

// Sub returns the named sub-score.
func (s SectionScore) Sub(name string) (SubScore, bool) {
	for _, sub := range s.Subs {
		if sub.Name == name {
			return sub, true
		}
	}
	return SubScore{}, false
}

// Sections holds the per-section results. MarketFit is nil when the
// market-fit section did not run.
type Sections struct {
	Title       SectionScore  `json:"title"`
	Tags        SectionScore  `json:"tags"`
	Description SectionScore  `json:"description"`
	Metadata    SectionScore  `json:"metadata"`
	MarketFit   *SectionScore `json:"market_fit,omitempty"`
}

// All returns the sections that ran, in report order.
func (s Sections) All() []SectionScore {
	all := []SectionScore{s.Title, s.Tags, s.Description, s.Metadata}
	if s.MarketFit != nil {
		all = append(all, *s.MarketFit)
	}
	return all
}

// Result is the complete score of one listing.
type Result struct {
	Total         int      `json:"total"`
	Max           int      `json:"max"`
	Percent       float64  `json:"percent"`
	Grade         string   `json:"grade"`
	RubricVersion string   `json:"rubric_version"`
	Online        bool     `json:"online"`
	Sections      Sections `json:"sections"`
	Issues        []Issue  `json:"issues"`
	Suggestions   []string `json:"suggestions"`
}

// IssuesBySeverity returns the issues of one severity, in report order.
func (r Result) IssuesBySeverity(sev types.Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// WorstSeverity returns the most severe issue severity, or good when there
// are no warnings or errors.
func (r Result) WorstSeverity() types.Severity {
	worst := types.SeverityGood
	for _, issue := range r.Issues {
		if issue.Severity.Rank() > worst.Rank() {
			worst = issue.Severity
		}
	}
	return worst
}

// Sub-score names.
const (
	SubLength           = "length"
	SubPlacement        = "keyword_placement"
	SubStructure        = "structure"
	SubRepetition       = "repetition"
	SubFiller           = "filler_words"
	SubVolume           = "volume_bonus"
	SubCount            = "count"
	SubFormat           = "format"
	SubMultiWord        = "multi_word"
	SubWasted           = "wasted_tags"
	SubSearchVolume     = "search_volume"
	SubDiversity        = "diversity"
	SubStuffing         = "stuffing"
	SubSnippet          = "snippet_keyword"
	SubDensity          = "tag_density"
	SubSections         = "sections"
	SubMaterials        = "materials"
	SubColors           = "colors"
	SubAltTexts         = "alt_texts"
	SubKeywordValidated = "keyword_validated"
	SubTagCoverage      = "tag_coverage"
	SubPrice            = "price_competitive"
)
