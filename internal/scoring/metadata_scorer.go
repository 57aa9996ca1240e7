package scoring

import (
	"strings"

	"github.com/dotcommander/listingscore/internal/types"
)

// MetadataScorer scores materials, colors and image alt texts. Missing
// metadata is a warning, never an error.
type MetadataScorer struct {
	rubric MetadataRubric
}

func NewMetadataScorer(r MetadataRubric) *MetadataScorer {
	return &MetadataScorer{rubric: r}
}

func (s *MetadataScorer) Score(in Input) SectionScore {
	r := s.rubric
	b := newSection(types.AreaMetadata, r.Max)

	if countNonBlank(in.Listing.Materials) > 0 {
		b.sub(SubMaterials, r.Points.Materials, r.Points.Materials, "")
	} else {
		b.sub(SubMaterials, 0, r.Points.Materials, "")
		b.warn("no materials set")
	}

	switch in.Listing.Colors.Count() {
	case 2:
		b.sub(SubColors, r.Points.Colors, r.Points.Colors, "")
	case 1:
		b.sub(SubColors, r.Points.Colors/2, r.Points.Colors, "")
		b.warn("only one color set; add a secondary color")
	default:
		b.sub(SubColors, 0, r.Points.Colors, "")
		b.warn("no colors set")
	}

	if n := countNonBlank(in.Listing.AltTexts); n >= r.MinAltTexts {
		b.sub(SubAltTexts, r.Points.AltTexts, r.Points.AltTexts, "")
	} else {
		b.sub(SubAltTexts, 0, r.Points.AltTexts, "")
		b.warn("%d of %d image alt texts written", n, r.MinAltTexts)
	}
	return b.build()
}

func countNonBlank(items []string) int {
	n := 0
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			n++
		}
	}
	return n
}
