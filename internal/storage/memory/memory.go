// Package memory implements an in-process storage.Medium.
package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"findash/internal/storage"
)

// Store keeps every item in a map. It is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	items  map[string]string
	quota  int
	writes int
}

// Option configures a Store.
type Option func(*Store)

// WithQuota caps the total size in bytes of keys plus values. A write that
// would exceed it fails with storage.ErrUnavailable and leaves the store
// unchanged.
func WithQuota(bytes int) Option {
	return func(s *Store) { s.quota = bytes }
}

// New returns a store pre-populated with seed.
func New(seed map[string]string, opts ...Option) *Store {
	s := &Store{items: make(map[string]string, len(seed))}
	for k, v := range seed {
		s.items[k] = v
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromDir seeds a store from every *.json file in base, keyed by the file
// name without extension. A missing directory yields an empty store.
func NewFromDir(base string, opts ...Option) (*Store, error) {
	seed := map[string]string{}
	entries, err := os.ReadDir(base)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read seed dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(base, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read seed %s: %w", e.Name(), err)
		}
		seed[strings.TrimSuffix(e.Name(), ".json")] = string(b)
	}
	return New(seed, opts...), nil
}

func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *Store) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		size := len(key) + len(value)
		for k, v := range s.items {
			if k != key {
				size += len(k) + len(v)
			}
		}
		if size > s.quota {
			return fmt.Errorf("set %s: quota of %d bytes exceeded: %w", key, s.quota, storage.ErrUnavailable)
		}
	}
	s.items[key] = value
	s.writes++
	return nil
}

func (s *Store) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Writes returns how many successful SetItem calls the store has seen.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Keys returns the stored keys in no particular order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	return out
}
