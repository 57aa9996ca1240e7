// Package listing defines the listing fields the scoring engine consumes and
// the optional autocomplete report a caller may attach to a scoring call.
package listing

import (
	"strings"

	"github.com/dotcommander/listingscore/internal/lexicon"
)

// Colors holds the primary and secondary color attributes.
type Colors struct {
	Primary   string `yaml:"primary,omitempty" json:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty" json:"secondary,omitempty"`
}

// Count returns how many of the two colors are set. Whitespace-only values
// count as unset.
func (c *Colors) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	if strings.TrimSpace(c.Primary) != "" {
		n++
	}
	if strings.TrimSpace(c.Secondary) != "" {
		n++
	}
	return n
}

// Listing is one marketplace listing. The first non-blank tag is the
// listing's primary keyword.
type Listing struct {
	ID                string   `yaml:"id,omitempty" json:"id,omitempty"`
	Title             string   `yaml:"title" json:"title"`
	Tags              []string `yaml:"tags" json:"tags"`
	Description       string   `yaml:"description,omitempty" json:"description,omitempty"`
	DescriptionFormat string   `yaml:"description_format,omitempty" json:"description_format,omitempty"`
	Materials         []string `yaml:"materials,omitempty" json:"materials,omitempty"`
	Colors            *Colors  `yaml:"colors,omitempty" json:"colors,omitempty"`
	AltTexts          []string `yaml:"alt_texts,omitempty" json:"alt_texts,omitempty"`
}

// CleanTags returns the tags trimmed, with blank entries dropped.
func (l Listing) CleanTags() []string {
	out := make([]string, 0, len(l.Tags))
	for _, t := range l.Tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// PrimaryKeyword returns the first non-blank tag, or "" when there is none.
func (l Listing) PrimaryKeyword() string {
	for _, t := range l.Tags {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return ""
}

// KeywordResult is the autocomplete verdict for one phrase.
type KeywordResult struct {
	Keyword      string   `yaml:"keyword" json:"keyword"`
	Found        bool     `yaml:"found" json:"found"`
	Position     int      `yaml:"position,omitempty" json:"position,omitempty"`
	Alternatives []string `yaml:"alternatives,omitempty" json:"alternatives,omitempty"`
}

// Autocomplete is an externally produced report telling which phrases are
// live search suggestions on the marketplace.
type Autocomplete struct {
	Results []KeywordResult `yaml:"results" json:"results"`
}

// Found counts the confirmed phrases.
func (a *Autocomplete) Found() int {
	if a == nil {
		return 0
	}
	n := 0
	for _, r := range a.Results {
		if r.Found {
			n++
		}
	}
	return n
}

// Total counts the checked phrases.
func (a *Autocomplete) Total() int {
	if a == nil {
		return 0
	}
	return len(a.Results)
}

// Lookup finds the result for phrase, comparing normalized text.
// The first entry wins when a phrase was reported twice.
func (a *Autocomplete) Lookup(phrase string) (KeywordResult, bool) {
	if a == nil {
		return KeywordResult{}, false
	}
	want := lexicon.Normalize(phrase)
	if want == "" {
		return KeywordResult{}, false
	}
	for _, r := range a.Results {
		if lexicon.Normalize(r.Keyword) == want {
			return r, true
		}
	}
	return KeywordResult{}, false
}

// IsFound reports whether phrase was checked and confirmed.
func (a *Autocomplete) IsFound(phrase string) bool {
	r, ok := a.Lookup(phrase)
	return ok && r.Found
}

// FoundKeywords returns the normalized confirmed phrases in report order.
func (a *Autocomplete) FoundKeywords() []string {
	if a == nil {
		return nil
	}
	var out []string
	for _, r := range a.Results {
		if k := lexicon.Normalize(r.Keyword); r.Found && k != "" {
			out = append(out, k)
		}
	}
	return out
}
