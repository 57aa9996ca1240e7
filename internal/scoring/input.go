package scoring

import (
	"strings"

	"github.com/dotcommander/listingscore/internal/lexicon"
	"github.com/dotcommander/listingscore/internal/listing"
)

// Input is a listing prepared for the section scorers: tags cleaned, text
// normalized once, and the primary keyword resolved.
type Input struct {
	Listing         listing.Listing
	Title           string
	NormTitle       string
	Tags            []string
	NormTags        []string
	Description     string
	NormDescription string
	SK              string
	Report          *listing.Autocomplete
}

// NewInput prepares l for scoring. A nil report means offline mode.
func NewInput(l listing.Listing, report *listing.Autocomplete) Input {
	tags := l.CleanTags()
	norm := make([]string, len(tags))
	for i, t := range tags {
		norm[i] = lexicon.Normalize(t)
	}
	title := strings.TrimSpace(l.Title)
	desc := strings.TrimSpace(l.Description)
	return Input{
		Listing:         l,
		Title:           title,
		NormTitle:       lexicon.Normalize(title),
		Tags:            tags,
		NormTags:        norm,
		Description:     desc,
		NormDescription: lexicon.Normalize(desc),
		SK:              lexicon.Normalize(l.PrimaryKeyword()),
		Report:          report,
	}
}

// Online reports whether an autocomplete report was supplied.
func (in Input) Online() bool {
	return in.Report != nil
}
