package scoring

import (
	"github.com/dotcommander/listingscore/internal/lexicon"
	"github.com/dotcommander/listingscore/internal/listing"
)

const perfectDescription = `This japandi wall art piece brings calm to any space. A minimalist line art study of quiet peaks, it pairs a mountain landscape with a zen garden print feel.

Perfect for: a boho bedroom decor refresh, living room decor, or office wall decor. It makes a thoughtful gift for her and a welcome housewarming gift.

Print details: archival matte paper, pigment inks, shipped flat in a rigid mailer. Frame not included. Colors may vary slightly between screens. Files are sized for standard frames from 5x7 up to 24x36 inches, and every order is packed by hand in our studio.`

var perfectTags = []string{
	"japandi wall art",
	"minimalist line art",
	"boho bedroom decor",
	"gift for her",
	"housewarming gift",
	"mountain landscape",
	"zen garden print",
	"living room decor",
	"neutral tone artwork",
	"scandinavian poster",
	"office wall decor",
	"japanese ink drawing",
	"christmas present",
}

func perfectListing() listing.Listing {
	return listing.Listing{
		ID:          "perfect",
		Title:       "Japandi Wall Art | Minimalist Line Drawing | Boho Bedroom Decor",
		Tags:        append([]string(nil), perfectTags...),
		Description: perfectDescription,
		Materials:   []string{"archival paper", "pigment ink"},
		Colors:      &listing.Colors{Primary: "Beige", Secondary: "Black"},
		AltTexts: []string{
			"japandi wall art above a sofa",
			"close up of the line drawing",
			"print in a natural oak frame",
			"size guide",
			"bedroom gallery wall",
		},
	}
}

// confirmAll builds a report confirming every tag of l.
func confirmAll(l listing.Listing) *listing.Autocomplete {
	report := &listing.Autocomplete{}
	for i, tag := range l.CleanTags() {
		report.Results = append(report.Results, listing.KeywordResult{Keyword: tag, Found: true, Position: i + 1})
	}
	return report
}

func testEngine(r *Rubric) *Engine {
	return MustNewEngine(r, lexicon.Default())
}

func testInput(l listing.Listing, report *listing.Autocomplete) Input {
	return NewInput(l, report)
}
