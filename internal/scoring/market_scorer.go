package scoring

import (
	"github.com/dotcommander/listingscore/internal/types"
)

// MarketFitScorer scores the autocomplete report. It only runs online.
type MarketFitScorer struct {
	rubric MarketFitRubric
}

// NewMarketFitScorer creates a market-fit scorer.
func NewMarketFitScorer(r MarketFitRubric) *MarketFitScorer {
	return &MarketFitScorer{rubric: r}
}

// Score evaluates whether the primary keyword is a live search term and how
// many checked phrases were confirmed. Price competitiveness is a fixed
// full-credit stub until pricing data exists.
func (s *MarketFitScorer) Score(in Input) SectionScore {
	r := s.rubric
	b := newSection(types.AreaMarket, r.Max)
	s.scoreKeyword(b, in)
	s.scoreCoverage(b, in)
	b.sub(SubPrice, r.Points.Price, r.Points.Price, "stub: no pricing data")
	return b.build()
}

func (s *MarketFitScorer) scoreKeyword(b *sectionBuilder, in Input) {
	max := s.rubric.Points.Keyword
	if in.SK == "" {
		b.sub(SubKeywordValidated, 0, max, "no primary keyword")
		b.fail("no primary keyword to validate: add tags")
		return
	}
	result, checked := in.Report.Lookup(in.SK)
	if checked && result.Found {
		b.sub(SubKeywordValidated, max, max, "")
		b.good("primary keyword %q is a live search suggestion", in.SK)
		return
	}

	b.sub(SubKeywordValidated, 0, max, "")
	if checked {
		b.fail("primary keyword %q is not a live search suggestion", in.SK)
	} else {
		b.fail("primary keyword %q was not checked against autocomplete", in.SK)
	}
	for _, alt := range result.Alternatives {
		b.suggest("consider %q as the primary keyword", alt)
	}
}

func (s *MarketFitScorer) scoreCoverage(b *sectionBuilder, in Input) {
	r := s.rubric
	found, total := in.Report.Found(), in.Report.Total()
	if total == 0 {
		b.sub(SubTagCoverage, 0, r.Points.Coverage, "empty report")
		b.warn("autocomplete report checked no phrases")
		return
	}
	percent := found * 100 / total
	points := ScoreTiered(percent, r.Coverage, 0)
	b.sub(SubTagCoverage, points, r.Points.Coverage, "")
	if points < r.Points.Coverage {
		b.warn("%d of %d checked phrases are live search suggestions", found, total)
	}
}
