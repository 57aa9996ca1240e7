package scoring

import (
	"sort"
	"strings"

	"github.com/dotcommander/listingscore/internal/lexicon"
	"github.com/dotcommander/listingscore/internal/types"
)

// TitleScorer scores the listing title.
type TitleScorer struct {
	rubric TitleRubric
	lex    *lexicon.Lexicon
}

// NewTitleScorer creates a title scorer.
func NewTitleScorer(r TitleRubric, lex *lexicon.Lexicon) *TitleScorer {
	return &TitleScorer{rubric: r, lex: lex}
}

// Score evaluates length, keyword placement, structure, repetition, filler
// words and, online, search volume.
func (s *TitleScorer) Score(in Input) SectionScore {
	r := s.rubric
	b := newSection(types.AreaTitle, r.Max)

	if in.Title == "" {
		b.fail("title is empty")
		b.zero(
			[]string{SubLength, SubPlacement, SubStructure, SubRepetition, SubFiller, SubVolume},
			[]int{r.Points.Length, r.Points.Placement, r.Points.Structure, r.Points.Repetition, r.Points.Filler, r.Points.Volume},
		)
		return b.build()
	}

	s.scoreLength(b, in)
	s.scorePlacement(b, in)
	segments := splitSegments(in.NormTitle, r.Delimiters)
	s.scoreStructure(b, segments)
	s.scoreRepetition(b, in)
	s.scoreFiller(b, in)
	s.scoreVolume(b, in, segments)
	return b.build()
}

func (s *TitleScorer) scoreLength(b *sectionBuilder, in Input) {
	r := s.rubric
	n := runeLen(in.Title)
	switch {
	case n > r.HardLimit:
		b.sub(SubLength, 0, r.Points.Length, "over limit")
		b.fail("title is %d characters, over the %d character limit", n, r.HardLimit)
	case n >= r.TargetMin && n <= r.TargetMax:
		b.sub(SubLength, r.Points.Length, r.Points.Length, "")
		b.good("title length %d is within %d-%d", n, r.TargetMin, r.TargetMax)
	case n >= r.NearMin && n < r.TargetMin:
		b.sub(SubLength, r.Points.Length/2, r.Points.Length, "short")
		b.warn("title is %d characters; aim for %d-%d", n, r.TargetMin, r.TargetMax)
	default:
		b.sub(SubLength, 0, r.Points.Length, "out of range")
		b.fail("title is %d characters; aim for %d-%d", n, r.TargetMin, r.TargetMax)
	}
}

func (s *TitleScorer) scorePlacement(b *sectionBuilder, in Input) {
	max := s.rubric.Points.Placement
	if in.SK == "" {
		b.sub(SubPlacement, 0, max, "no primary keyword")
		b.warn("no primary keyword to place in the title: add tags")
		return
	}

	titleWords := words(in.NormTitle)
	skWords := words(in.SK)
	leadsWithFirstWord := len(titleWords) > 0 && len(skWords) > 0 && titleWords[0] == skWords[0]

	switch {
	case strings.HasPrefix(in.NormTitle, in.SK) || leadsWithFirstWord:
		b.sub(SubPlacement, max, max, "")
		b.good("title starts with the primary keyword %q", in.SK)
	case strings.Contains(in.NormTitle, in.SK):
		b.sub(SubPlacement, max/2, max, "not leading")
		b.warn("move the primary keyword %q to the start of the title", in.SK)
	default:
		b.sub(SubPlacement, 0, max, "missing")
		b.fail("title does not contain the primary keyword %q", in.SK)
	}
}

func (s *TitleScorer) scoreStructure(b *sectionBuilder, segments []string) {
	r := s.rubric
	n := len(segments)
	if n >= r.MinSegments && n <= r.MaxSegments {
		b.sub(SubStructure, r.Points.Structure, r.Points.Structure, "")
		return
	}
	b.sub(SubStructure, r.Points.Structure/2, r.Points.Structure, "")
	b.warn("title has %d segments; split it into %d-%d with %s", n, r.MinSegments, r.MaxSegments,
		strings.Join(r.Delimiters, " or "))
}

func (s *TitleScorer) scoreRepetition(b *sectionBuilder, in Input) {
	r := s.rubric
	counts := make(map[string]int)
	for _, w := range words(in.NormTitle) {
		if runeLen(w) >= r.MinWordLength {
			counts[w]++
		}
	}
	var repeated []string
	for w, n := range counts {
		if n > 1 {
			repeated = append(repeated, w)
		}
	}
	sort.Strings(repeated)

	b.sub(SubRepetition, Penalize(r.Points.Repetition, len(repeated), r.RepeatPenalty), r.Points.Repetition, "")
	if len(repeated) > 0 {
		b.warn("title repeats %s", quoteAll(repeated))
	}
}

func (s *TitleScorer) scoreFiller(b *sectionBuilder, in Input) {
	r := s.rubric
	var found []string
	occurrences := 0
	for _, f := range s.lex.Filler {
		if n := lexicon.CountWord(in.NormTitle, f); n > 0 {
			found = append(found, f)
			occurrences += n
		}
	}
	b.sub(SubFiller, Penalize(r.Points.Filler, occurrences, r.FillerPenalty), r.Points.Filler, "")
	if len(found) > 0 {
		b.warn("filler words carry no search value: %s", quoteAll(found))
	}
}

func (s *TitleScorer) scoreVolume(b *sectionBuilder, in Input, segments []string) {
	max := s.rubric.Points.Volume
	if !in.Online() {
		b.sub(SubVolume, 0, max, "offline")
		return
	}

	switch {
	case in.SK != "" && in.Report.IsFound(in.SK):
		b.sub(SubVolume, max, max, "")
	case len(segments) > 0 && in.Report.IsFound(segments[0]):
		b.sub(SubVolume, max, max, "")
	default:
		for _, k := range in.Report.FoundKeywords() {
			if lexicon.ContainsWord(in.NormTitle, k) {
				b.sub(SubVolume, max/2, max, "partial")
				b.warn("only %q in the title is a confirmed search term", k)
				return
			}
		}
		b.sub(SubVolume, 0, max, "")
		b.fail("no phrase in the title is a confirmed search term")
	}
}

// splitSegments splits text on any delimiter and drops blank segments.
func splitSegments(text string, delimiters []string) []string {
	parts := []string{text}
	for _, d := range delimiters {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, d)...)
		}
		parts = next
	}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
