package scoring

import (
	"reflect"
	"testing"

	"github.com/dotcommander/listingscore/internal/lexicon"
	"github.com/dotcommander/listingscore/internal/types"
)

func TestKeywordTokens(t *testing.T) {
	got := KeywordTokens("Japandi Wall Art of the Sea")
	want := []string{"japandi", "wall", "art", "the", "sea"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeywordTokens() = %q, want %q", got, want)
	}
	if got := KeywordTokens(""); got != nil {
		t.Errorf("KeywordTokens(\"\") = %q, want nil", got)
	}
}

func TestClassify(t *testing.T) {
	c := NewClassifier(lexicon.Default(), "japandi wall art")
	tests := []struct {
		tag  string
		want []string
	}{
		{"japandi wall art", []string{types.CategoryCore, types.CategoryStyle}},
		{"Gift for Her", []string{types.CategoryBuyerIntent}},
		{"boho bedroom decor", []string{types.CategoryRoom, types.CategoryStyle}},
		{"christmas present", []string{types.CategoryBuyerIntent, types.CategoryOccasion}},
		{"japanese ink drawing", []string{types.CategoryStyle}},
		{"pink flamingo", []string{types.CategoryNiche}},
		{"mountain landscape", []string{types.CategoryNiche}},
		{"office wall decor", []string{types.CategoryCore, types.CategoryRoom}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := c.Classify(tt.tag); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestClassifyWithoutKeyword(t *testing.T) {
	c := NewClassifier(lexicon.Default(), "")
	if got := c.Classify("wall art"); !reflect.DeepEqual(got, []string{types.CategoryNiche}) {
		t.Errorf("Classify() without keyword = %q, want niche", got)
	}
}

func TestIsWasted(t *testing.T) {
	c := NewClassifier(lexicon.Default(), "japandi wall art")
	tests := []struct {
		tag  string
		want bool
	}{
		{"poster", true},
		{" Wall Art ", true},
		{"art print", true},
		{"japandi wall art", false},
		{"scandinavian poster", false},
	}
	for _, tt := range tests {
		if got := c.IsWasted(tt.tag); got != tt.want {
			t.Errorf("IsWasted(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestCoverage(t *testing.T) {
	c := NewClassifier(lexicon.Default(), "japandi wall art")
	covered := c.Coverage(perfectTags)
	for _, cat := range types.Categories {
		if !covered[cat] {
			t.Errorf("Coverage() missing %q", cat)
		}
	}
}

func TestClassifyCustomLexicon(t *testing.T) {
	lex := (&lexicon.Lexicon{Rooms: []string{"Garage"}, Techniques: []string{"Enamel"}}).Normalized()
	c := NewClassifier(lex, "enamel pin")
	got := c.Classify("garage enamel sign")
	want := []string{types.CategoryCore, types.CategoryRoom, types.CategoryStyle}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Classify() = %q, want %q", got, want)
	}
}
