package scoring

import (
	"github.com/dotcommander/listingscore/internal/lexicon"
	"github.com/dotcommander/listingscore/internal/types"
)

// Classifier maps tags to semantic categories using a lexicon and the
// listing's primary keyword.
type Classifier struct {
	lex      *lexicon.Lexicon
	skTokens []string
	wasted   map[string]bool
}

// NewClassifier builds a classifier for one listing. sk is the primary
// keyword; its tokens longer than two characters define the core category.
func NewClassifier(lex *lexicon.Lexicon, sk string) *Classifier {
	return &Classifier{
		lex:      lex,
		skTokens: KeywordTokens(sk),
		wasted:   lexicon.Set(lex.WastedTags),
	}
}

// KeywordTokens returns the normalized word tokens of a keyword that are
// longer than two characters.
func KeywordTokens(keyword string) []string {
	var out []string
	for _, w := range words(lexicon.Normalize(keyword)) {
		if runeLen(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

// Classify returns the categories a tag belongs to, in canonical order.
// A tag that matches nothing else is niche.
func (c *Classifier) Classify(tag string) []string {
	t := lexicon.Normalize(tag)
	var cats []string
	if _, ok := lexicon.ContainsAny(t, c.skTokens); ok {
		cats = append(cats, types.CategoryCore)
	}
	if _, ok := lexicon.ContainsAny(t, c.lex.BuyerIntent); ok {
		cats = append(cats, types.CategoryBuyerIntent)
	}
	if _, ok := lexicon.ContainsAny(t, c.lex.Rooms); ok {
		cats = append(cats, types.CategoryRoom)
	}
	if _, ok := lexicon.ContainsAny(t, c.lex.Occasions); ok {
		cats = append(cats, types.CategoryOccasion)
	}
	_, aesthetic := lexicon.ContainsAny(t, c.lex.Aesthetics)
	_, technique := lexicon.ContainsAny(t, c.lex.Techniques)
	if aesthetic || technique {
		cats = append(cats, types.CategoryStyle)
	}
	if len(cats) == 0 {
		cats = append(cats, types.CategoryNiche)
	}
	return cats
}

// IsWasted reports whether the tag exactly matches a generic category term.
func (c *Classifier) IsWasted(tag string) bool {
	return c.wasted[lexicon.Normalize(tag)]
}

// Coverage returns the set of categories covered by tags.
func (c *Classifier) Coverage(tags []string) map[string]bool {
	covered := make(map[string]bool, len(types.Categories))
	for _, tag := range tags {
		for _, cat := range c.Classify(tag) {
			covered[cat] = true
		}
	}
	return covered
}
