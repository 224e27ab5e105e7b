// Package backend builds the storage medium selected by configuration.
package backend

import (
	"context"
	"time"

	"findash/internal/cache"
	"findash/internal/storage"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// ReadyFunc reports whether the backend can currently serve requests.
type ReadyFunc func(ctx context.Context) error

// BackendResult is a ready-to-use medium plus its lifecycle hooks.
type BackendResult struct {
	Medium  storage.Medium
	Type    BackendType
	Cleanup CleanupFunc
	Ready   ReadyFunc
	// Cache is the read-through cache in front of Medium, nil when disabled.
	// Callers register it with a cache.Manager for expiry sweeps.
	Cache *cache.LRUCache[string]
}

// Close runs Cleanup when present.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// File backend directory; the memory backend seeds from it when present.
	DataDirectory string

	CacheSize int
	CacheTTL  time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
	NoneBackend   BackendType = "none"
)

func (bt BackendType) String() string {
	return string(bt)
}

// Shared reports whether other processes can open the same medium.
func (bt BackendType) Shared() bool {
	return bt == SQLiteBackend || bt == FileBackend
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MemoryBackend, NoneBackend:
		return true
	default:
		return false
	}
}
