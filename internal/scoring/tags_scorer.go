package scoring

import (
	"strings"

	"github.com/dotcommander/listingscore/internal/lexicon"
	"github.com/dotcommander/listingscore/internal/types"
)

var categoryHints = map[string]string{
	types.CategoryCore:        "add a tag that contains the primary keyword",
	types.CategoryBuyerIntent: "add a gift or buyer-intent tag (e.g. \"gift for her\")",
	types.CategoryRoom:        "add a room-specific tag (e.g. \"bedroom wall decor\")",
	types.CategoryOccasion:    "add an occasion tag (e.g. \"housewarming gift\")",
	types.CategoryStyle:       "add a style or technique tag (e.g. \"minimalist line art\")",
	types.CategoryNiche:       "add a niche tag naming the subject or audience",
}

// TagsScorer scores the tag set.
type TagsScorer struct {
	rubric TagsRubric
	lex    *lexicon.Lexicon
}

// NewTagsScorer creates a tags scorer.
func NewTagsScorer(r TagsRubric, lex *lexicon.Lexicon) *TagsScorer {
	return &TagsScorer{rubric: r, lex: lex}
}

// Score evaluates tag count, format, specificity, waste, search volume,
// category diversity and stuffing.
func (s *TagsScorer) Score(in Input) SectionScore {
	r := s.rubric
	b := newSection(types.AreaTags, r.Max)

	if len(in.Tags) == 0 {
		b.fail("no tags")
		b.zero(
			[]string{SubCount, SubFormat, SubMultiWord, SubWasted, SubSearchVolume, SubDiversity, SubStuffing},
			[]int{r.Points.Count, r.Points.Format, r.Points.MultiWord, r.Points.Wasted, r.Points.Volume, r.Points.Diversity, r.Points.Stuffing},
		)
		return b.build()
	}

	classifier := NewClassifier(s.lex, in.SK)
	s.scoreCount(b, in)
	s.scoreFormat(b, in)
	s.scoreMultiWord(b, in)
	s.scoreWasted(b, in, classifier)
	s.scoreVolume(b, in)
	s.scoreDiversity(b, in, classifier)
	s.scoreStuffing(b, in)
	return b.build()
}

func (s *TagsScorer) scoreCount(b *sectionBuilder, in Input) {
	r := s.rubric
	n := len(in.Tags)
	b.sub(SubCount, Proportional(r.Points.Count, min(n, r.MaxTags), r.MaxTags), r.Points.Count, "")
	switch {
	case n < r.MaxTags:
		b.warn("using %d of %d tag slots", n, r.MaxTags)
	case n > r.MaxTags:
		b.warn("%d tags exceed the %d tag limit", n, r.MaxTags)
	default:
		b.good("all %d tag slots used", r.MaxTags)
	}
}

func (s *TagsScorer) scoreFormat(b *sectionBuilder, in Input) {
	r := s.rubric
	over := 0
	for _, tag := range in.Tags {
		if n := runeLen(tag); n > r.MaxTagLength {
			over++
			b.fail("tag %q is %d characters, over the %d character limit", tag, n, r.MaxTagLength)
		}
	}
	b.sub(SubFormat, Penalize(r.Points.Format, over, r.OverLengthPenalty), r.Points.Format, "")
}

func (s *TagsScorer) scoreMultiWord(b *sectionBuilder, in Input) {
	r := s.rubric
	var single []string
	for _, tag := range in.NormTags {
		if len(strings.Fields(tag)) == 1 {
			single = append(single, tag)
		}
	}
	b.sub(SubMultiWord, Penalize(r.Points.MultiWord, len(single), r.SingleWordPenalty), r.Points.MultiWord, "")
	if len(single) > 0 {
		b.warn("single-word tags are too broad: %s", quoteAll(single))
	}
}

func (s *TagsScorer) scoreWasted(b *sectionBuilder, in Input, c *Classifier) {
	r := s.rubric
	var wasted []string
	for _, tag := range in.NormTags {
		if c.IsWasted(tag) {
			wasted = append(wasted, tag)
		}
	}
	b.sub(SubWasted, Penalize(r.Points.Wasted, len(wasted), r.WastedPenalty), r.Points.Wasted, "")
	if len(wasted) > 0 {
		b.warn("generic category tags waste slots: %s", quoteAll(wasted))
	}
}

func (s *TagsScorer) scoreVolume(b *sectionBuilder, in Input) {
	max := s.rubric.Points.Volume
	if !in.Online() {
		b.sub(SubSearchVolume, 0, max, "offline")
		return
	}
	confirmed := 0
	for _, tag := range in.NormTags {
		if in.Report.IsFound(tag) {
			confirmed++
		}
	}
	b.sub(SubSearchVolume, Proportional(max, confirmed, len(in.Tags)), max, "")
	if confirmed < len(in.Tags) {
		b.warn("%d of %d tags are confirmed search terms", confirmed, len(in.Tags))
	}
}

func (s *TagsScorer) scoreDiversity(b *sectionBuilder, in Input, c *Classifier) {
	r := s.rubric
	covered := c.Coverage(in.NormTags)
	n := len(covered)
	b.sub(SubDiversity, ScoreTiered(n, r.Diversity, r.DiversityFloor), r.Points.Diversity, "")

	if n >= len(types.Categories) {
		b.good("tags cover all %d categories", n)
		return
	}
	b.warn("tags cover %d of %d categories", n, len(types.Categories))
	for _, cat := range types.Categories {
		if !covered[cat] {
			b.suggest("%s", categoryHints[cat])
		}
	}
}

func (s *TagsScorer) scoreStuffing(b *sectionBuilder, in Input) {
	r := s.rubric
	counts := RootCounts(in.NormTags, r.MinRootLength)
	stuffed := StuffedRoots(counts, r.StuffingThreshold)
	dupes := DuplicateTags(in.NormTags)

	for _, root := range stuffed {
		b.warn("root %q appears in %d tags", root, counts[root])
	}
	for _, d := range dupes {
		b.fail("duplicate tag %q", d)
	}
	points := r.Points.Stuffing - len(stuffed)*r.StuffingPenalty - len(dupes)*r.DuplicatePenalty
	b.sub(SubStuffing, points, r.Points.Stuffing, "")
}
