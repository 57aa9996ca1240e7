package scoring

import (
	"sort"
	"strings"

	"github.com/dotcommander/listingscore/internal/lexicon"
)

// RootCounts counts, for each word root, how many tags contain it. Tokens
// shorter than minLength runes are ignored and a root counts once per tag.
func RootCounts(tags []string, minLength int) map[string]int {
	counts := make(map[string]int)
	for _, tag := range tags {
		seen := make(map[string]bool)
		for _, w := range words(lexicon.Normalize(tag)) {
			if runeLen(w) < minLength {
				continue
			}
			root := foldPlural(w)
			if seen[root] {
				continue
			}
			seen[root] = true
			counts[root]++
		}
	}
	return counts
}

// StuffedRoots returns the roots found in more than threshold tags, sorted.
func StuffedRoots(counts map[string]int, threshold int) []string {
	var out []string
	for root, n := range counts {
		if n > threshold {
			out = append(out, root)
		}
	}
	sort.Strings(out)
	return out
}

// DuplicateTags returns each tag that appears more than once, compared
// case-insensitively after trimming, in first-appearance order.
func DuplicateTags(tags []string) []string {
	seen := make(map[string]int, len(tags))
	var out []string
	for _, tag := range tags {
		t := lexicon.Normalize(tag)
		if t == "" {
			continue
		}
		seen[t]++
		if seen[t] == 2 {
			out = append(out, t)
		}
	}
	return out
}

// foldPlural strips a simple English plural suffix.
func foldPlural(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case len(w) > 4 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return strings.TrimSuffix(w, "s")
	default:
		return w
	}
}
