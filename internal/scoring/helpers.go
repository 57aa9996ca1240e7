package scoring

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dotcommander/listingscore/internal/types"
)

// ScoreTiered returns the points of the first tier whose Min the value
// reaches. Tiers are sorted by descending Min. Values below every tier get
// the floor.
func ScoreTiered(value int, tiers []Tier, floor int) int {
	for _, t := range tiers {
		if value >= t.Min {
			return t.Points
		}
	}
	return floor
}

// Penalize subtracts penalty per occurrence from max, never going below zero.
func Penalize(max, count, penalty int) int {
	return clamp(max-count*penalty, 0, max)
}

// Proportional returns floor(max * part / whole), or zero when whole is zero.
func Proportional(max, part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return clamp(max*part/whole, 0, max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sectionBuilder accumulates one section's sub-scores and findings.
type sectionBuilder struct {
	area  types.Area
	max   int
	subs  []SubScore
	issue []Issue
	hints []string
}

func newSection(area types.Area, max int) *sectionBuilder {
	return &sectionBuilder{area: area, max: max}
}

func (b *sectionBuilder) sub(name string, points, max int, note string) {
	b.subs = append(b.subs, SubScore{Name: name, Points: clamp(points, 0, max), MaxPoints: max, Note: note})
}

func (b *sectionBuilder) good(format string, args ...any) {
	b.add(types.SeverityGood, format, args...)
}

func (b *sectionBuilder) warn(format string, args ...any) {
	b.add(types.SeverityWarning, format, args...)
}

func (b *sectionBuilder) fail(format string, args ...any) {
	b.add(types.SeverityError, format, args...)
}

func (b *sectionBuilder) add(sev types.Severity, format string, args ...any) {
	b.issue = append(b.issue, Issue{Severity: sev, Area: b.area, Message: fmt.Sprintf(format, args...)})
}

func (b *sectionBuilder) suggest(format string, args ...any) {
	b.hints = append(b.hints, fmt.Sprintf(format, args...))
}

// zero records every named sub-score at zero, used when a section
// short-circuits on empty input.
func (b *sectionBuilder) zero(names []string, maxima []int) {
	for i, name := range names {
		b.sub(name, 0, maxima[i], "")
	}
}

func (b *sectionBuilder) build() SectionScore {
	total := 0
	for _, s := range b.subs {
		total += s.Points
	}
	return SectionScore{
		Area:        b.area,
		Subs:        b.subs,
		Total:       clamp(total, 0, b.max),
		Max:         b.max,
		Issues:      b.issue,
		Suggestions: b.hints,
	}
}

// words splits text into lowercase word tokens on anything that is not a
// letter, digit or apostrophe.
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// prefixRunes returns the first n runes of s.
func prefixRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("%q", it)
	}
	return strings.Join(quoted, ", ")
}
