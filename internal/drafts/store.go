// Package drafts keeps listings that were filled in but not yet saved,
// keyed by listing id. Lifecycle belongs to the caller: a store is an
// explicit value, never package state.
package drafts

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/dotcommander/listingscore/internal/listing"
	"github.com/dotcommander/listingscore/pkg/errors"
)

// ErrNotFound is returned when no draft exists for an id.
var ErrNotFound = stderrors.New("draft not found")

// DefaultTTL is how long a draft lives when the store is not told otherwise.
const DefaultTTL = 24 * time.Hour

// Draft is an unsaved listing with its optional autocomplete report.
type Draft struct {
	Listing listing.Listing       `json:"listing"`
	Report  *listing.Autocomplete `json:"report,omitempty"`
	SavedAt time.Time             `json:"saved_at"`
}

// Store holds drafts by listing id.
type Store interface {
	Save(ctx context.Context, id string, d Draft) error
	Get(ctx context.Context, id string) (Draft, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

func checkID(op, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.NewStoreError("draft id is required", op, nil)
	}
	return nil
}
