package drafts

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/listingscore/internal/listing"
	"github.com/dotcommander/listingscore/pkg/errors"
)

// exerciseStore runs the contract every Store implementation must meet.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	var storeErr *errors.StoreError
	require.ErrorAs(t, s.Save(ctx, " ", Draft{}), &storeErr)

	d := Draft{
		Listing: listing.Listing{ID: "42", Title: "Japandi Wall Art", Tags: []string{"japandi wall art"}},
		Report:  &listing.Autocomplete{Results: []listing.KeywordResult{{Keyword: "japandi wall art", Found: true}}},
	}
	require.NoError(t, s.Save(ctx, "42", d))
	require.NoError(t, s.Save(ctx, "7", Draft{Listing: listing.Listing{ID: "7"}}))

	got, err := s.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, d.Listing, got.Listing)
	assert.Equal(t, 1, got.Report.Found())
	assert.False(t, got.SavedAt.IsZero())

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"42", "7"}, ids)

	require.NoError(t, s.Delete(ctx, "42"))
	require.ErrorIs(t, s.Delete(ctx, "42"), ErrNotFound)
	_, err = s.Get(ctx, "42")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(8, time.Hour)
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreEvictsAndExpires(t *testing.T) {
	ctx := context.Background()

	small := NewMemoryStore(2, time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, small.Save(ctx, fmt.Sprint(i), Draft{}))
	}
	_, err := small.Get(ctx, "0")
	assert.ErrorIs(t, err, ErrNotFound)

	short := NewMemoryStore(2, 20*time.Millisecond)
	require.NoError(t, short.Save(ctx, "a", Draft{}))
	assert.Eventually(t, func() bool {
		_, err := short.Get(ctx, "a")
		return err == ErrNotFound
	}, time.Second, 10*time.Millisecond)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("LISTINGSCORE_TEST_REDIS")
	if addr == "" {
		t.Skip("LISTINGSCORE_TEST_REDIS not set")
	}
	prefix := fmt.Sprintf("listingscore:test:%d:", time.Now().UnixNano())
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, KeyPrefix: prefix, TTL: time.Minute}, nil)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisStore(ctx, RedisConfig{Addr: "127.0.0.1:1"}, nil)
	var storeErr *errors.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "ping", storeErr.Operation)
}
