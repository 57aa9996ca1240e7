package output

import (
	"testing"

	"github.com/dotcommander/listingscore/internal/types"
)

func TestNewReport(t *testing.T) {
	r := NewReport(sampleOutcomes())
	if len(r.Listings) != 3 {
		t.Fatalf("got %d listings, want 3", len(r.Listings))
	}
	if r.Listings[0].Result == nil || r.Listings[0].Result.Grade != "B" {
		t.Errorf("first listing = %+v", r.Listings[0])
	}
	if !r.Listings[1].Cached {
		t.Error("cached flag lost")
	}
	if r.Listings[2].Result != nil || r.Listings[2].Error == "" {
		t.Errorf("failed listing = %+v", r.Listings[2])
	}
	if got := r.Failed(); got != 1 {
		t.Errorf("Failed() = %d, want 1", got)
	}
	if got := r.WorstSeverity(); got != types.SeverityError {
		t.Errorf("WorstSeverity() = %s, want error", got)
	}
}

func TestSingle(t *testing.T) {
	r := Single("a.listing.md", "a", sampleResult(70, "B"))
	if len(r.Listings) != 1 || r.Listings[0].Result.Total != 70 {
		t.Errorf("Single() = %+v", r)
	}
	if got := r.WorstSeverity(); got != types.SeverityGood {
		t.Errorf("WorstSeverity() = %s, want good", got)
	}
}

func TestListingLabel(t *testing.T) {
	tests := []struct {
		l    ListingReport
		want string
	}{
		{ListingReport{Path: "p.md", ID: "p"}, "p.md"},
		{ListingReport{ID: "draft-1"}, "draft-1"},
		{ListingReport{}, "(listing)"},
	}
	for _, tt := range tests {
		if got := tt.l.label(); got != tt.want {
			t.Errorf("label() = %q, want %q", got, tt.want)
		}
	}
}
