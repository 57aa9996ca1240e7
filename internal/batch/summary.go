package batch

import (
	"regexp"
	"sort"

	"github.com/dotcommander/listingscore/internal/types"
)

// LowestLimit caps the lowest-scoring list in a summary.
const LowestLimit = 10

// Summary aggregates a batch run.
type Summary struct {
	Listings    int            `json:"listings"`
	Scored      int            `json:"scored"`
	Failed      int            `json:"failed"`
	Cached      int            `json:"cached"`
	MeanPercent float64        `json:"mean_percent"`
	Grades      map[string]int `json:"grades"`
	TopIssues   []IssueCount   `json:"top_issues"`
	Lowest      []Scored       `json:"lowest"`
}

// IssueCount is how many listings raised one kind of issue.
type IssueCount struct {
	Area     types.Area     `json:"area"`
	Severity types.Severity `json:"severity"`
	Pattern  string         `json:"pattern"`
	Count    int            `json:"count"`
}

// Scored identifies one scored listing for the lowest-scoring list.
type Scored struct {
	Path    string  `json:"path"`
	ID      string  `json:"id"`
	Percent float64 `json:"percent"`
	Grade   string  `json:"grade"`
}

var (
	quotedRe = regexp.MustCompile(`"[^"]*"`)
	numberRe = regexp.MustCompile(`\d+`)
)

// IssuePattern strips the listing-specific parts of an issue message so the
// same finding on different listings groups together.
func IssuePattern(message string) string {
	return numberRe.ReplaceAllString(quotedRe.ReplaceAllString(message, `"…"`), "N")
}

// Summarize aggregates outcomes. Good-severity findings are not counted as
// issues.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{
		Listings: len(outcomes),
		Grades:   make(map[string]int),
	}
	counts := make(map[IssueCount]int)
	var percentSum float64

	for _, o := range outcomes {
		if !o.OK() {
			s.Failed++
			continue
		}
		s.Scored++
		if o.Cached {
			s.Cached++
		}
		s.Grades[o.Result.Grade]++
		percentSum += o.Result.Percent
		s.Lowest = append(s.Lowest, Scored{Path: o.Path, ID: o.ID, Percent: o.Result.Percent, Grade: o.Result.Grade})

		seen := make(map[IssueCount]bool)
		for _, issue := range o.Result.Issues {
			if issue.Severity == types.SeverityGood {
				continue
			}
			key := IssueCount{Area: issue.Area, Severity: issue.Severity, Pattern: IssuePattern(issue.Message)}
			if !seen[key] {
				seen[key] = true
				counts[key]++
			}
		}
	}

	if s.Scored > 0 {
		s.MeanPercent = float64(int(percentSum/float64(s.Scored)*10+0.5)) / 10
	}

	for key, n := range counts {
		key.Count = n
		s.TopIssues = append(s.TopIssues, key)
	}
	sort.Slice(s.TopIssues, func(i, j int) bool {
		a, b := s.TopIssues[i], s.TopIssues[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Area != b.Area {
			return a.Area < b.Area
		}
		return a.Pattern < b.Pattern
	})

	sort.SliceStable(s.Lowest, func(i, j int) bool {
		return s.Lowest[i].Percent < s.Lowest[j].Percent
	})
	if len(s.Lowest) > LowestLimit {
		s.Lowest = s.Lowest[:LowestLimit]
	}
	return s
}
