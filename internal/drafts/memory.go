package drafts

import (
	"context"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore keeps drafts in an expiring LRU. It is safe for concurrent use.
type MemoryStore struct {
	lru *expirable.LRU[string, Draft]
	now func() time.Time
}

// NewMemoryStore creates a store holding at most size drafts for ttl each.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 256
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, Draft](size, nil, ttl),
		now: time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, id string, d Draft) error {
	if err := checkID("save", id); err != nil {
		return err
	}
	if d.SavedAt.IsZero() {
		d.SavedAt = s.now()
	}
	s.lru.Add(id, d)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Draft, error) {
	d, ok := s.lru.Get(id)
	if !ok {
		return Draft{}, ErrNotFound
	}
	return d, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if !s.lru.Remove(id) {
		return ErrNotFound
	}
	return nil
}

// List returns the stored ids, sorted.
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	keys := s.lru.Keys()
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Close() error {
	s.lru.Purge()
	return nil
}
