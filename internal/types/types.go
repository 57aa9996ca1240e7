// Package types provides shared types used across the listingscore codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

// Severity classifies a finding. Good findings confirm a passed check.
type Severity string

// Severity level constants.
const (
	SeverityGood    Severity = "good"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank orders severities for fail-on comparisons (good < warning < error).
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Area names the listing section a finding belongs to.
type Area string

// Area constants, in report order.
const (
	AreaTitle       Area = "title"
	AreaTags        Area = "tags"
	AreaDescription Area = "description"
	AreaMetadata    Area = "metadata"
	AreaMarket      Area = "market"
)

// Areas lists every area in report order.
var Areas = []Area{AreaTitle, AreaTags, AreaDescription, AreaMetadata, AreaMarket}

// Tag category constants.
const (
	CategoryCore        = "core"
	CategoryBuyerIntent = "buyer_intent"
	CategoryRoom        = "room"
	CategoryOccasion    = "occasion"
	CategoryStyle       = "style"
	CategoryNiche       = "niche"
)

// Categories lists every tag category in canonical order.
var Categories = []string{
	CategoryCore,
	CategoryBuyerIntent,
	CategoryRoom,
	CategoryOccasion,
	CategoryStyle,
	CategoryNiche,
}
