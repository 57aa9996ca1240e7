package scoring

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/listingscore/internal/cue"
	"github.com/dotcommander/listingscore/pkg/errors"
)

// Rubric versions shipped with the engine.
const (
	RubricV1 = "v1"
	RubricV2 = "v2"

	DefaultRubricVersion = RubricV2
)

// Rubric holds every weight and threshold the scorers use. A new rubric
// version is a new Rubric value, not new aggregation code.
type Rubric struct {
	Version      string            `yaml:"version" json:"version"`
	OnlineMax    int               `yaml:"online_max" json:"online_max"`
	OfflineMax   int               `yaml:"offline_max" json:"offline_max"`
	Grades       []GradeBreakpoint `yaml:"grades" json:"grades"`
	FailingGrade string            `yaml:"failing_grade" json:"failing_grade"`

	Title       TitleRubric       `yaml:"title" json:"title"`
	Tags        TagsRubric        `yaml:"tags" json:"tags"`
	Description DescriptionRubric `yaml:"description" json:"description"`
	Metadata    MetadataRubric    `yaml:"metadata" json:"metadata"`
	MarketFit   *MarketFitRubric  `yaml:"market_fit,omitempty" json:"market_fit,omitempty"`
}

// GradeBreakpoint maps a minimum percentage of the maximum to a grade.
type GradeBreakpoint struct {
	Grade      string  `yaml:"grade" json:"grade"`
	MinPercent float64 `yaml:"min_percent" json:"min_percent"`
}

// Tier awards Points when a measured value is at least Min.
type Tier struct {
	Min    int `yaml:"min" json:"min"`
	Points int `yaml:"points" json:"points"`
}

type TitlePoints struct {
	Length     int `yaml:"length" json:"length"`
	Placement  int `yaml:"placement" json:"placement"`
	Structure  int `yaml:"structure" json:"structure"`
	Repetition int `yaml:"repetition" json:"repetition"`
	Filler     int `yaml:"filler" json:"filler"`
	Volume     int `yaml:"volume" json:"volume"`
}

type TitleRubric struct {
	Max           int         `yaml:"max" json:"max"`
	Points        TitlePoints `yaml:"points" json:"points"`
	TargetMin     int         `yaml:"target_min" json:"target_min"`
	TargetMax     int         `yaml:"target_max" json:"target_max"`
	NearMin       int         `yaml:"near_min" json:"near_min"`
	HardLimit     int         `yaml:"hard_limit" json:"hard_limit"`
	Delimiters    []string    `yaml:"delimiters" json:"delimiters"`
	MinSegments   int         `yaml:"min_segments" json:"min_segments"`
	MaxSegments   int         `yaml:"max_segments" json:"max_segments"`
	MinWordLength int         `yaml:"min_word_length" json:"min_word_length"`
	RepeatPenalty int         `yaml:"repeat_penalty" json:"repeat_penalty"`
	FillerPenalty int         `yaml:"filler_penalty" json:"filler_penalty"`
}

type TagsPoints struct {
	Count     int `yaml:"count" json:"count"`
	Format    int `yaml:"format" json:"format"`
	MultiWord int `yaml:"multi_word" json:"multi_word"`
	Wasted    int `yaml:"wasted" json:"wasted"`
	Volume    int `yaml:"volume" json:"volume"`
	Diversity int `yaml:"diversity" json:"diversity"`
	Stuffing  int `yaml:"stuffing" json:"stuffing"`
}

type TagsRubric struct {
	Max               int        `yaml:"max" json:"max"`
	Points            TagsPoints `yaml:"points" json:"points"`
	MaxTags           int        `yaml:"max_tags" json:"max_tags"`
	MaxTagLength      int        `yaml:"max_tag_length" json:"max_tag_length"`
	OverLengthPenalty int        `yaml:"over_length_penalty" json:"over_length_penalty"`
	SingleWordPenalty int        `yaml:"single_word_penalty" json:"single_word_penalty"`
	WastedPenalty     int        `yaml:"wasted_penalty" json:"wasted_penalty"`
	Diversity         []Tier     `yaml:"diversity" json:"diversity"`
	DiversityFloor    int        `yaml:"diversity_floor" json:"diversity_floor"`
	StuffingThreshold int        `yaml:"stuffing_threshold" json:"stuffing_threshold"`
	MinRootLength     int        `yaml:"min_root_length" json:"min_root_length"`
	StuffingPenalty   int        `yaml:"stuffing_penalty" json:"stuffing_penalty"`
	DuplicatePenalty  int        `yaml:"duplicate_penalty" json:"duplicate_penalty"`
}

type DescriptionPoints struct {
	Length   int `yaml:"length" json:"length"`
	Snippet  int `yaml:"snippet" json:"snippet"`
	Density  int `yaml:"density" json:"density"`
	Sections int `yaml:"sections" json:"sections"`
}

type DescriptionRubric struct {
	Max                 int               `yaml:"max" json:"max"`
	Points              DescriptionPoints `yaml:"points" json:"points"`
	FullLength          int               `yaml:"full_length" json:"full_length"`
	PartialLength       int               `yaml:"partial_length" json:"partial_length"`
	PartialLengthPoints int               `yaml:"partial_length_points" json:"partial_length_points"`
	SnippetWindow       int               `yaml:"snippet_window" json:"snippet_window"`
	Density             []Tier            `yaml:"density" json:"density"`
	FitMarkers          []string          `yaml:"fit_markers" json:"fit_markers"`
	DetailMarkers       []string          `yaml:"detail_markers" json:"detail_markers"`
}

type MetadataPoints struct {
	Materials int `yaml:"materials" json:"materials"`
	Colors    int `yaml:"colors" json:"colors"`
	AltTexts  int `yaml:"alt_texts" json:"alt_texts"`
}

type MetadataRubric struct {
	Max         int            `yaml:"max" json:"max"`
	Points      MetadataPoints `yaml:"points" json:"points"`
	MinAltTexts int            `yaml:"min_alt_texts" json:"min_alt_texts"`
}

type MarketFitPoints struct {
	Keyword  int `yaml:"keyword" json:"keyword"`
	Coverage int `yaml:"coverage" json:"coverage"`
	Price    int `yaml:"price" json:"price"`
}

// MarketFitRubric scores the autocomplete report. Coverage tiers use the
// percentage of checked phrases that were found.
type MarketFitRubric struct {
	Max      int             `yaml:"max" json:"max"`
	Points   MarketFitPoints `yaml:"points" json:"points"`
	Coverage []Tier          `yaml:"coverage" json:"coverage"`
}

var defaultGrades = []GradeBreakpoint{
	{Grade: "A", MinPercent: 92},
	{Grade: "B", MinPercent: 80},
	{Grade: "C", MinPercent: 65},
	{Grade: "D", MinPercent: 50},
}

var (
	defaultFitMarkers    = []string{"perfect for", "why you'll love", "ideal for", "great for", "why this"}
	defaultDetailMarkers = []string{"print details", "technical details", "details", "what's included", "specifications"}
)

// NewRubricV2 returns the current rubric: online-capable, with a market-fit
// section and search-volume sub-scores inside title and tags.
func NewRubricV2() *Rubric {
	return &Rubric{
		Version:      RubricV2,
		OnlineMax:    100,
		OfflineMax:   77,
		Grades:       append([]GradeBreakpoint(nil), defaultGrades...),
		FailingGrade: "F",
		Title: TitleRubric{
			Max:           25,
			Points:        TitlePoints{Length: 6, Placement: 6, Structure: 4, Repetition: 3, Filler: 3, Volume: 3},
			TargetMin:     60,
			TargetMax:     140,
			NearMin:       40,
			HardLimit:     140,
			Delimiters:    []string{"|"},
			MinSegments:   2,
			MaxSegments:   3,
			MinWordLength: 4,
			RepeatPenalty: 1,
			FillerPenalty: 1,
		},
		Tags: TagsRubric{
			Max:               35,
			Points:            TagsPoints{Count: 5, Format: 3, MultiWord: 4, Wasted: 4, Volume: 5, Diversity: 8, Stuffing: 6},
			MaxTags:           13,
			MaxTagLength:      20,
			OverLengthPenalty: 1,
			SingleWordPenalty: 1,
			WastedPenalty:     2,
			Diversity:         []Tier{{Min: 6, Points: 8}, {Min: 5, Points: 6}, {Min: 4, Points: 4}, {Min: 3, Points: 2}},
			DiversityFloor:    1,
			StuffingThreshold: 3,
			MinRootLength:     4,
			StuffingPenalty:   2,
			DuplicatePenalty:  3,
		},
		Description: DescriptionRubric{
			Max:                 20,
			Points:              DescriptionPoints{Length: 5, Snippet: 6, Density: 5, Sections: 4},
			FullLength:          500,
			PartialLength:       250,
			PartialLengthPoints: 3,
			SnippetWindow:       160,
			Density:             []Tier{{Min: 8, Points: 5}, {Min: 5, Points: 3}, {Min: 2, Points: 1}},
			FitMarkers:          append([]string(nil), defaultFitMarkers...),
			DetailMarkers:       append([]string(nil), defaultDetailMarkers...),
		},
		Metadata: MetadataRubric{
			Max:         5,
			Points:      MetadataPoints{Materials: 2, Colors: 2, AltTexts: 1},
			MinAltTexts: 5,
		},
		MarketFit: &MarketFitRubric{
			Max:      15,
			Points:   MarketFitPoints{Keyword: 6, Coverage: 6, Price: 3},
			Coverage: []Tier{{Min: 80, Points: 6}, {Min: 60, Points: 4}, {Min: 40, Points: 2}},
		},
	}
}

// NewRubricV1 returns the legacy offline rubric: four sections, no volume
// sub-scores and no market-fit section.
func NewRubricV1() *Rubric {
	return &Rubric{
		Version:      RubricV1,
		OnlineMax:    100,
		OfflineMax:   100,
		Grades:       append([]GradeBreakpoint(nil), defaultGrades...),
		FailingGrade: "F",
		Title: TitleRubric{
			Max:           30,
			Points:        TitlePoints{Length: 8, Placement: 8, Structure: 6, Repetition: 4, Filler: 4},
			TargetMin:     60,
			TargetMax:     140,
			NearMin:       40,
			HardLimit:     140,
			Delimiters:    []string{"|"},
			MinSegments:   2,
			MaxSegments:   3,
			MinWordLength: 4,
			RepeatPenalty: 1,
			FillerPenalty: 1,
		},
		Tags: TagsRubric{
			Max:               40,
			Points:            TagsPoints{Count: 6, Format: 4, MultiWord: 5, Wasted: 5, Diversity: 12, Stuffing: 8},
			MaxTags:           13,
			MaxTagLength:      20,
			OverLengthPenalty: 1,
			SingleWordPenalty: 1,
			WastedPenalty:     2,
			Diversity:         []Tier{{Min: 6, Points: 12}, {Min: 5, Points: 9}, {Min: 4, Points: 6}, {Min: 3, Points: 3}},
			DiversityFloor:    1,
			StuffingThreshold: 3,
			MinRootLength:     4,
			StuffingPenalty:   2,
			DuplicatePenalty:  3,
		},
		Description: DescriptionRubric{
			Max:                 20,
			Points:              DescriptionPoints{Length: 5, Snippet: 6, Density: 5, Sections: 4},
			FullLength:          500,
			PartialLength:       250,
			PartialLengthPoints: 3,
			SnippetWindow:       160,
			Density:             []Tier{{Min: 8, Points: 5}, {Min: 5, Points: 3}, {Min: 2, Points: 1}},
			FitMarkers:          append([]string(nil), defaultFitMarkers...),
			DetailMarkers:       append([]string(nil), defaultDetailMarkers...),
		},
		Metadata: MetadataRubric{
			Max:         10,
			Points:      MetadataPoints{Materials: 4, Colors: 4, AltTexts: 2},
			MinAltTexts: 5,
		},
	}
}

// RubricByVersion returns a built-in rubric.
func RubricByVersion(version string) (*Rubric, error) {
	switch version {
	case RubricV1:
		return NewRubricV1(), nil
	case RubricV2, "":
		return NewRubricV2(), nil
	default:
		return nil, fmt.Errorf("unknown rubric version %q: valid versions are %s, %s", version, RubricV1, RubricV2)
	}
}

// LoadRubric reads a rubric from a YAML file and validates it.
func LoadRubric(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewInputError("rubric is not valid YAML", path, err)
	}

	validator, err := cue.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	issues, err := validator.ValidateRubric(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to validate rubric: %w", err)
	}
	if len(issues) > 0 {
		return nil, errors.NewInputError(issues[0].Error(), path, nil)
	}

	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, errors.NewInputError("failed to decode rubric", path, err)
	}
	if err := r.Validate(); err != nil {
		return nil, errors.NewInputError("invalid rubric", path, err)
	}
	return &r, nil
}

// Marshal renders the rubric as YAML.
func (r *Rubric) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// HasMarketFit reports whether the rubric defines a market-fit section.
func (r *Rubric) HasMarketFit() bool {
	return r.MarketFit != nil
}

// ReachableMax returns the highest total the rubric can award, offline or
// online. Section maxima clamp their sub-score sums.
func (r *Rubric) ReachableMax(online bool) int {
	online = online && r.HasMarketFit()

	title := sum(r.Title.Points.Length, r.Title.Points.Placement, r.Title.Points.Structure,
		r.Title.Points.Repetition, r.Title.Points.Filler)
	tags := sum(r.Tags.Points.Count, r.Tags.Points.Format, r.Tags.Points.MultiWord,
		r.Tags.Points.Wasted, r.Tags.Points.Diversity, r.Tags.Points.Stuffing)
	if online {
		title += r.Title.Points.Volume
		tags += r.Tags.Points.Volume
	}
	desc := sum(r.Description.Points.Length, r.Description.Points.Snippet,
		r.Description.Points.Density, r.Description.Points.Sections)
	meta := sum(r.Metadata.Points.Materials, r.Metadata.Points.Colors, r.Metadata.Points.AltTexts)

	total := min(title, r.Title.Max) + min(tags, r.Tags.Max) +
		min(desc, r.Description.Max) + min(meta, r.Metadata.Max)
	if online {
		mf := r.MarketFit
		total += min(sum(mf.Points.Keyword, mf.Points.Coverage, mf.Points.Price), mf.Max)
	}
	return total
}

// Validate checks the cross-field invariants the aggregator relies on:
// no section or total can exceed its ceiling.
func (r *Rubric) Validate() error {
	if r.Version == "" {
		return fmt.Errorf("rubric version is required")
	}
	if r.OnlineMax <= 0 || r.OfflineMax <= 0 {
		return fmt.Errorf("rubric maxima must be positive")
	}
	if r.FailingGrade == "" {
		return fmt.Errorf("failing grade is required")
	}

	checks := []struct {
		section string
		max     int
		points  []int
	}{
		{"title", r.Title.Max, []int{r.Title.Points.Length, r.Title.Points.Placement, r.Title.Points.Structure,
			r.Title.Points.Repetition, r.Title.Points.Filler, r.Title.Points.Volume}},
		{"tags", r.Tags.Max, []int{r.Tags.Points.Count, r.Tags.Points.Format, r.Tags.Points.MultiWord,
			r.Tags.Points.Wasted, r.Tags.Points.Volume, r.Tags.Points.Diversity, r.Tags.Points.Stuffing}},
		{"description", r.Description.Max, []int{r.Description.Points.Length, r.Description.Points.Snippet,
			r.Description.Points.Density, r.Description.Points.Sections}},
		{"metadata", r.Metadata.Max, []int{r.Metadata.Points.Materials, r.Metadata.Points.Colors,
			r.Metadata.Points.AltTexts}},
	}
	if r.MarketFit != nil {
		checks = append(checks, struct {
			section string
			max     int
			points  []int
		}{"market_fit", r.MarketFit.Max, []int{r.MarketFit.Points.Keyword, r.MarketFit.Points.Coverage,
			r.MarketFit.Points.Price}})
	}
	for _, c := range checks {
		if c.max < 0 {
			return fmt.Errorf("%s: max must not be negative", c.section)
		}
		for _, p := range c.points {
			if p < 0 {
				return fmt.Errorf("%s: sub-score maxima must not be negative", c.section)
			}
			if p > c.max {
				return fmt.Errorf("%s: sub-score maximum %d exceeds section maximum %d", c.section, p, c.max)
			}
		}
	}

	if r.MarketFit == nil && (r.Title.Points.Volume > 0 || r.Tags.Points.Volume > 0) {
		return fmt.Errorf("volume sub-scores require a market_fit section")
	}
	if got := r.ReachableMax(false); got > r.OfflineMax {
		return fmt.Errorf("offline_max %d is below the offline reachable total %d", r.OfflineMax, got)
	}
	if got := r.ReachableMax(true); got > r.OnlineMax {
		return fmt.Errorf("online_max %d is below the online reachable total %d", r.OnlineMax, got)
	}

	if r.Title.TargetMin > r.Title.TargetMax || r.Title.NearMin > r.Title.TargetMin {
		return fmt.Errorf("title: length thresholds must satisfy near_min <= target_min <= target_max")
	}
	if r.Title.MinSegments > r.Title.MaxSegments {
		return fmt.Errorf("title: min_segments exceeds max_segments")
	}
	if r.Description.PartialLength > r.Description.FullLength {
		return fmt.Errorf("description: partial_length exceeds full_length")
	}
	if r.Description.PartialLengthPoints > r.Description.Points.Length {
		return fmt.Errorf("description: partial_length_points exceeds the length maximum")
	}
	if r.Tags.MaxTags <= 0 {
		return fmt.Errorf("tags: max_tags must be positive")
	}
	if r.Tags.DiversityFloor > r.Tags.Points.Diversity {
		return fmt.Errorf("tags: diversity_floor exceeds the diversity maximum")
	}

	tierSets := map[string]struct {
		tiers []Tier
		max   int
	}{
		"tags.diversity":      {r.Tags.Diversity, r.Tags.Points.Diversity},
		"description.density": {r.Description.Density, r.Description.Points.Density},
	}
	if r.MarketFit != nil {
		tierSets["market_fit.coverage"] = struct {
			tiers []Tier
			max   int
		}{r.MarketFit.Coverage, r.MarketFit.Points.Coverage}
	}
	for name, set := range tierSets {
		if err := validateTiers(set.tiers, set.max); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if !sort.SliceIsSorted(r.Grades, func(i, j int) bool {
		return r.Grades[i].MinPercent > r.Grades[j].MinPercent
	}) {
		return fmt.Errorf("grades must be sorted by descending min_percent")
	}
	return nil
}

func validateTiers(tiers []Tier, max int) error {
	for i, t := range tiers {
		if t.Points > max {
			return fmt.Errorf("tier %d awards %d points, above the maximum %d", i, t.Points, max)
		}
		if i > 0 && t.Min >= tiers[i-1].Min {
			return fmt.Errorf("tiers must be sorted by descending min")
		}
	}
	return nil
}

// Grade maps a percentage of the maximum to a letter grade.
func (r *Rubric) Grade(percent float64) string {
	for _, g := range r.Grades {
		if percent >= g.MinPercent {
			return g.Grade
		}
	}
	return r.FailingGrade
}

func sum(values ...int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
