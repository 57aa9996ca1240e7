package scoring

import (
	"reflect"
	"testing"

	"github.com/dotcommander/listingscore/internal/listing"
	"github.com/dotcommander/listingscore/internal/types"
)

func scoreMarket(tags []string, report *listing.Autocomplete) SectionScore {
	s := NewMarketFitScorer(*NewRubricV2().MarketFit)
	return s.Score(testInput(listing.Listing{Tags: tags}, report))
}

func TestMarketFitAllConfirmed(t *testing.T) {
	l := listing.Listing{Tags: perfectTags}
	got := scoreMarket(perfectTags, confirmAll(l))
	if got.Total != 15 {
		t.Errorf("Total = %d, want 15; subs %+v", got.Total, got.Subs)
	}
	if sub, _ := got.Sub(SubPrice); sub.Points != 3 {
		t.Errorf("price points = %d, want the full stub credit", sub.Points)
	}
}

func TestMarketFitKeywordRejected(t *testing.T) {
	l := listing.Listing{Tags: perfectTags}
	report := confirmAll(l)
	report.Results[0].Found = false
	report.Results[0].Alternatives = []string{"japandi art", "japandi print"}

	got := scoreMarket(perfectTags, report)
	sub, _ := got.Sub(SubKeywordValidated)
	if sub.Points != 0 {
		t.Errorf("keyword points = %d, want 0", sub.Points)
	}
	if !hasIssue(got.Issues, types.SeverityError, `"japandi wall art"`) {
		t.Errorf("missing error naming the keyword: %+v", got.Issues)
	}
	want := []string{`consider "japandi art" as the primary keyword`, `consider "japandi print" as the primary keyword`}
	if !reflect.DeepEqual(got.Suggestions, want) {
		t.Errorf("Suggestions = %q, want %q", got.Suggestions, want)
	}
	if cov, _ := got.Sub(SubTagCoverage); cov.Points != 6 {
		t.Errorf("coverage points = %d, want 6 for 12 of 13", cov.Points)
	}
}

func TestMarketFitCoverage(t *testing.T) {
	tests := []struct {
		found, total int
		want         int
	}{
		{10, 10, 6},
		{8, 10, 6},
		{7, 10, 4},
		{6, 10, 4},
		{4, 10, 2},
		{3, 10, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		report := &listing.Autocomplete{Results: []listing.KeywordResult{}}
		for i := 0; i < tt.total; i++ {
			report.Results = append(report.Results, listing.KeywordResult{Keyword: string(rune('a' + i)), Found: i < tt.found})
		}
		sub, _ := scoreMarket([]string{"japandi wall art"}, report).Sub(SubTagCoverage)
		if sub.Points != tt.want {
			t.Errorf("%d/%d: coverage points = %d, want %d", tt.found, tt.total, sub.Points, tt.want)
		}
	}
}
