// Package scoring implements the listing quality engine: section scorers,
// the tag classifier, and the aggregator that turns section totals into a
// grade. The engine is pure; identical inputs give identical results and a
// single Engine is safe for concurrent use.
package scoring

import (
	"fmt"
	"math"

	"github.com/dotcommander/listingscore/internal/lexicon"
	"github.com/dotcommander/listingscore/internal/listing"
)

// Engine scores listings against one rubric and lexicon.
type Engine struct {
	rubric *Rubric
	lex    *lexicon.Lexicon

	title       *TitleScorer
	tags        *TagsScorer
	description *DescriptionScorer
	metadata    *MetadataScorer
	market      *MarketFitScorer
}

// NewEngine creates an engine. A nil rubric selects the default version and
// a nil lexicon the built-in one.
func NewEngine(r *Rubric, lex *lexicon.Lexicon) (*Engine, error) {
	if r == nil {
		r = NewRubricV2()
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rubric %s: %w", r.Version, err)
	}
	if lex == nil {
		lex = lexicon.Default()
	} else {
		lex = lex.Normalized()
	}

	e := &Engine{
		rubric:      r,
		lex:         lex,
		title:       NewTitleScorer(r.Title, lex),
		tags:        NewTagsScorer(r.Tags, lex),
		description: NewDescriptionScorer(r.Description),
		metadata:    NewMetadataScorer(r.Metadata),
	}
	if r.MarketFit != nil {
		e.market = NewMarketFitScorer(*r.MarketFit)
	}
	return e, nil
}

// MustNewEngine is NewEngine for rubrics known to be valid.
func MustNewEngine(r *Rubric, lex *lexicon.Lexicon) *Engine {
	e, err := NewEngine(r, lex)
	if err != nil {
		panic(err)
	}
	return e
}

// Rubric returns the engine's rubric.
func (e *Engine) Rubric() *Rubric {
	return e.rubric
}

// Lexicon returns the engine's normalized lexicon.
func (e *Engine) Lexicon() *lexicon.Lexicon {
	return e.lex
}

// Score scores one listing. A nil report runs offline; a report is ignored
// when the rubric has no market-fit section.
func (e *Engine) Score(l listing.Listing, report *listing.Autocomplete) Result {
	if e.market == nil {
		report = nil
	}
	in := NewInput(l, report)

	sections := Sections{
		Title:       e.title.Score(in),
		Tags:        e.tags.Score(in),
		Description: e.description.Score(in),
		Metadata:    e.metadata.Score(in),
	}
	if in.Online() {
		mf := e.market.Score(in)
		sections.MarketFit = &mf
	}
	return e.aggregate(sections, in.Online())
}

func (e *Engine) aggregate(sections Sections, online bool) Result {
	res := Result{
		Max:           e.rubric.OfflineMax,
		RubricVersion: e.rubric.Version,
		Online:        online,
		Sections:      sections,
		Issues:        []Issue{},
		Suggestions:   []string{},
	}
	if online {
		res.Max = e.rubric.OnlineMax
	}

	for _, s := range sections.All() {
		res.Total += s.Total
		res.Issues = append(res.Issues, s.Issues...)
		res.Suggestions = append(res.Suggestions, s.Suggestions...)
	}

	percent := 0.0
	if res.Max > 0 {
		percent = float64(res.Total) * 100 / float64(res.Max)
	}
	res.Percent = math.Round(percent*10) / 10
	res.Grade = e.rubric.Grade(percent)
	return res
}
