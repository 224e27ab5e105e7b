// Package storage defines the key-value medium snapshots are persisted in,
// together with its SQLite implementation and a read-through cache.
package storage

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the medium cannot be used at all (quota
// exhausted, storage disabled, backend unreachable). Callers degrade to
// in-memory defaults when they see it.
var ErrUnavailable = errors.New("storage unavailable")

// Medium is an origin-scoped string key-value store, one value per key.
type Medium interface {
	// GetItem returns the value under key. ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// Unavailable is a Medium on which every call fails with ErrUnavailable.
var Unavailable Medium = unavailable{}

type unavailable struct{}

func (unavailable) GetItem(context.Context, string) (string, bool, error) {
	return "", false, ErrUnavailable
}

func (unavailable) SetItem(context.Context, string, string) error { return ErrUnavailable }

func (unavailable) RemoveItem(context.Context, string) error { return ErrUnavailable }

// IsUnavailable reports whether err means the medium cannot be used.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
