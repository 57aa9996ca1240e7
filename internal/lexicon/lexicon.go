// Package lexicon holds the niche-specific word lists the scoring engine
// classifies tags and titles with. Lists are plain data: the built-in set
// targets wall-art listings, and any other niche can ship its own YAML file.
package lexicon

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/listingscore/internal/cue"
	"github.com/dotcommander/listingscore/pkg/errors"
)

// Lexicon is the set of word lists used by the classifier and title checks.
type Lexicon struct {
	Filler      []string `yaml:"filler" json:"filler"`
	Rooms       []string `yaml:"rooms" json:"rooms"`
	Occasions   []string `yaml:"occasions" json:"occasions"`
	Aesthetics  []string `yaml:"aesthetics" json:"aesthetics"`
	Techniques  []string `yaml:"techniques" json:"techniques"`
	BuyerIntent []string `yaml:"buyer_intent" json:"buyer_intent"`
	WastedTags  []string `yaml:"wasted_tags" json:"wasted_tags"`
}

// Normalize folds s for comparison: NFKC, lower case, trimmed, inner
// whitespace collapsed to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFKC.String(s))), " ")
}

// Default returns the built-in wall-art lexicon.
func Default() *Lexicon {
	return (&Lexicon{
		Filler: []string{
			"beautiful", "stunning", "amazing", "gorgeous", "lovely", "awesome",
			"unique", "best", "perfect", "wonderful", "cute", "nice", "fantastic",
			"incredible", "exquisite", "high quality",
		},
		Rooms: []string{
			"bedroom", "living room", "office", "nursery", "kitchen", "bathroom",
			"dining room", "hallway", "entryway", "dorm", "kids room", "playroom",
			"studio", "apartment", "cabin", "classroom",
		},
		Occasions: []string{
			"christmas", "birthday", "anniversary", "wedding", "valentine",
			"mothers day", "mother's day", "fathers day", "father's day",
			"halloween", "easter", "thanksgiving", "housewarming", "graduation",
			"baby shower", "new year", "holiday", "retirement",
		},
		Aesthetics: []string{
			"minimalist", "boho", "bohemian", "japandi", "scandinavian",
			"mid century", "modern", "rustic", "vintage", "farmhouse", "abstract",
			"neutral", "wabi sabi", "cottagecore", "industrial", "coastal", "retro",
			"aesthetic", "maximalist",
		},
		Techniques: []string{
			"watercolor", "watercolour", "ink", "digital", "line art",
			"line drawing", "oil painting", "acrylic", "charcoal", "pencil",
			"photography", "printable", "linocut", "sketch", "gouache",
		},
		BuyerIntent: []string{
			"gift", "for her", "for him", "for mom", "for dad", "for women",
			"for men", "for kids", "decor idea", "makeover", "lover", "present",
		},
		WastedTags: []string{
			"poster", "posters", "wall art", "art print", "art prints", "print",
			"prints", "art", "wall decor", "home decor", "decor", "artwork",
			"painting", "wall hanging",
		},
	}).Normalized()
}

// Load reads a lexicon from a YAML file. Lists missing from the file stay
// empty; a file that does not match the lexicon schema is rejected.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewInputError("lexicon is not valid YAML", path, err)
	}
	validator, err := cue.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	issues, err := validator.ValidateLexicon(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to validate lexicon: %w", err)
	}
	if len(issues) > 0 {
		return nil, errors.NewInputError(issues[0].Error(), path, nil)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, errors.NewInputError("failed to decode lexicon", path, err)
	}
	return lex.Normalized(), nil
}

// Marshal renders the lexicon as YAML.
func (l *Lexicon) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

// Normalized returns a copy with every list normalized and deduplicated.
func (l *Lexicon) Normalized() *Lexicon {
	return &Lexicon{
		Filler:      normalizeAll(l.Filler),
		Rooms:       normalizeAll(l.Rooms),
		Occasions:   normalizeAll(l.Occasions),
		Aesthetics:  normalizeAll(l.Aesthetics),
		Techniques:  normalizeAll(l.Techniques),
		BuyerIntent: normalizeAll(l.BuyerIntent),
		WastedTags:  normalizeAll(l.WastedTags),
	}
}

// normalizeAll normalizes every entry and drops blanks and duplicates,
// keeping first-seen order.
func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		n := Normalize(w)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// ContainsAny reports the first entry of words found inside text.
// Both sides are expected to be normalized.
func ContainsAny(text string, words []string) (string, bool) {
	for _, w := range words {
		if ContainsWord(text, w) {
			return w, true
		}
	}
	return "", false
}

// ContainsWord reports whether w occurs in text as a whole word. A plural
// "s" or "es" may follow ("gift" in "gifts"); any other trailing letters
// ("best" in "bestseller") or leading ones ("ink" in "pink") do not match.
func ContainsWord(text, w string) bool {
	return CountWord(text, w) > 0
}

// CountWord counts the whole-word occurrences of w in text, with the same
// boundary rules as ContainsWord.
func CountWord(text, w string) int {
	if w == "" {
		return 0
	}
	n := 0
	for offset := 0; offset <= len(text)-len(w); {
		i := strings.Index(text[offset:], w)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(w)
		if (start == 0 || !isWordByte(text[start-1])) && endsWord(text[end:]) {
			n++
			offset = end
			continue
		}
		offset = start + 1
	}
	return n
}

// endsWord reports whether rest, the text after a match, begins on a word
// boundary once an optional plural suffix is skipped.
func endsWord(rest string) bool {
	for _, suffix := range []string{"", "s", "es"} {
		if !strings.HasPrefix(rest, suffix) {
			continue
		}
		if len(rest) == len(suffix) || !isWordByte(rest[len(suffix)]) {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b >= 0x80
}

// Set builds a lookup set from normalized entries.
func Set(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
