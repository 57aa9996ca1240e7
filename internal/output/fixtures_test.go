package output

import (
	"errors"

	"github.com/dotcommander/listingscore/internal/batch"
	"github.com/dotcommander/listingscore/internal/scoring"
	"github.com/dotcommander/listingscore/internal/types"
)

func sampleResult(total int, grade string, issues ...scoring.Issue) scoring.Result {
	title := scoring.SectionScore{
		Area:  types.AreaTitle,
		Total: 20, Max: 25,
		Subs: []scoring.SubScore{
			{Name: scoring.SubLength, Points: 5, MaxPoints: 5},
			{Name: scoring.SubVolume, Points: 0, MaxPoints: 3, Note: "offline"},
		},
	}
	return scoring.Result{
		Total:         total,
		Max:           77,
		Percent:       float64(total*1000/77) / 10,
		Grade:         grade,
		RubricVersion: "v2",
		Sections: scoring.Sections{
			Title:       title,
			Tags:        scoring.SectionScore{Area: types.AreaTags, Total: 25, Max: 30},
			Description: scoring.SectionScore{Area: types.AreaDescription, Total: 15, Max: 20},
			Metadata:    scoring.SectionScore{Area: types.AreaMetadata, Total: 5, Max: 10},
		},
		Issues:      issues,
		Suggestions: []string{`add a room tag such as "living room"`},
	}
}

func sampleIssues() []scoring.Issue {
	return []scoring.Issue{
		{Severity: types.SeverityGood, Area: types.AreaTitle, Message: "title length is 72 characters"},
		{Severity: types.SeverityWarning, Area: types.AreaTitle, Message: "title contains filler word \"beautiful\""},
		{Severity: types.SeverityError, Area: types.AreaTags, Message: `duplicate tag "wall art"`},
	}
}

func sampleOutcomes() []batch.Outcome {
	return []batch.Outcome{
		{Path: "shop/japandi.listing.md", ID: "japandi", Result: sampleResult(65, "B", sampleIssues()...)},
		{Path: "shop/boho.listing.yaml", ID: "boho", Result: sampleResult(30, "F"), Cached: true},
		{Path: "shop/broken.listing.json", Err: errors.New("invalid listing: tags must be a list")},
	}
}

func batchReport() *Report {
	outcomes := sampleOutcomes()
	r := NewReport(outcomes)
	s := batch.Summarize(outcomes)
	r.Summary = &s
	r.Suppressed = 2
	return r
}
