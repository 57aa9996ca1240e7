package scoring

import (
	"strings"

	"github.com/dotcommander/listingscore/internal/lexicon"
	"github.com/dotcommander/listingscore/internal/types"
)

// DescriptionScorer scores the listing description.
type DescriptionScorer struct {
	rubric DescriptionRubric
}

// NewDescriptionScorer creates a description scorer.
func NewDescriptionScorer(r DescriptionRubric) *DescriptionScorer {
	return &DescriptionScorer{rubric: r}
}

// Score evaluates length, keyword placement in the search snippet, tag
// density and structured sections.
func (s *DescriptionScorer) Score(in Input) SectionScore {
	r := s.rubric
	b := newSection(types.AreaDescription, r.Max)

	if in.Description == "" {
		b.fail("description is empty")
		b.zero(
			[]string{SubLength, SubSnippet, SubDensity, SubSections},
			[]int{r.Points.Length, r.Points.Snippet, r.Points.Density, r.Points.Sections},
		)
		return b.build()
	}

	s.scoreLength(b, in)
	s.scoreSnippet(b, in)
	s.scoreDensity(b, in)
	s.scoreSections(b, in)
	return b.build()
}

func (s *DescriptionScorer) scoreLength(b *sectionBuilder, in Input) {
	r := s.rubric
	n := runeLen(in.Description)
	switch {
	case n >= r.FullLength:
		b.sub(SubLength, r.Points.Length, r.Points.Length, "")
	case n >= r.PartialLength:
		b.sub(SubLength, r.PartialLengthPoints, r.Points.Length, "short")
		b.warn("description is %d characters; aim for %d or more", n, r.FullLength)
	default:
		b.sub(SubLength, 0, r.Points.Length, "too short")
		b.fail("description is only %d characters; write at least %d", n, r.PartialLength)
	}
}

// scoreSnippet checks the search-snippet window only. The window is counted
// in runes of the trimmed description as written, before whitespace is
// collapsed. A keyword that first appears later earns nothing.
func (s *DescriptionScorer) scoreSnippet(b *sectionBuilder, in Input) {
	r := s.rubric
	if in.SK == "" {
		b.sub(SubSnippet, 0, r.Points.Snippet, "no primary keyword")
		b.warn("no primary keyword to place in the description: add tags")
		return
	}
	window := lexicon.Normalize(prefixRunes(in.Description, r.SnippetWindow))
	if strings.Contains(window, in.SK) {
		b.sub(SubSnippet, r.Points.Snippet, r.Points.Snippet, "")
		b.good("primary keyword appears in the first %d characters", r.SnippetWindow)
		return
	}
	b.sub(SubSnippet, 0, r.Points.Snippet, "")
	b.fail("primary keyword %q is not in the first %d characters of the description", in.SK, r.SnippetWindow)
}

func (s *DescriptionScorer) scoreDensity(b *sectionBuilder, in Input) {
	r := s.rubric
	seen := make(map[string]bool, len(in.NormTags))
	for _, tag := range in.NormTags {
		if !seen[tag] && strings.Contains(in.NormDescription, tag) {
			seen[tag] = true
		}
	}
	n := len(seen)
	points := ScoreTiered(n, r.Density, 0)
	b.sub(SubDensity, points, r.Points.Density, "")
	if points < r.Points.Density {
		b.warn("%d tags appear verbatim in the description", n)
	}
}

func (s *DescriptionScorer) scoreSections(b *sectionBuilder, in Input) {
	r := s.rubric
	fit := containsMarker(in.NormDescription, r.FitMarkers)
	details := containsMarker(in.NormDescription, r.DetailMarkers)
	switch {
	case fit && details:
		b.sub(SubSections, r.Points.Sections, r.Points.Sections, "")
	case fit:
		b.sub(SubSections, r.Points.Sections/2, r.Points.Sections, "")
		b.warn("add a details section (e.g. %q)", first(r.DetailMarkers))
	case details:
		b.sub(SubSections, r.Points.Sections/2, r.Points.Sections, "")
		b.warn("add a section on who the item is for (e.g. %q)", first(r.FitMarkers))
	default:
		b.sub(SubSections, 0, r.Points.Sections, "")
		b.warn("description has no structured sections")
	}
}

func containsMarker(text string, markers []string) bool {
	for _, m := range markers {
		if m = lexicon.Normalize(m); m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}
