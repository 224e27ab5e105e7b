package storage

import (
	"context"

	"findash/internal/cache"
)

// CachedMedium is a read-through, write-through cache in front of another
// Medium. Absent keys are not cached.
type CachedMedium struct {
	next  Medium
	cache cache.Cache[string]
}

// NewCachedMedium wraps next with c.
func NewCachedMedium(next Medium, c cache.Cache[string]) *CachedMedium {
	return &CachedMedium{next: next, cache: c}
}

func (m *CachedMedium) GetItem(ctx context.Context, key string) (string, bool, error) {
	if v, ok := m.cache.Get(key); ok {
		return v, true, nil
	}
	v, ok, err := m.next.GetItem(ctx, key)
	if err != nil || !ok {
		return v, ok, err
	}
	m.cache.Set(key, v)
	return v, true, nil
}

func (m *CachedMedium) SetItem(ctx context.Context, key, value string) error {
	if err := m.next.SetItem(ctx, key, value); err != nil {
		m.cache.Delete(key)
		return err
	}
	m.cache.Set(key, value)
	return nil
}

func (m *CachedMedium) RemoveItem(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return m.next.RemoveItem(ctx, key)
}

// Unwrap returns the underlying medium.
func (m *CachedMedium) Unwrap() Medium {
	return m.next
}

// Uncached strips every read-through cache layered over m.
func Uncached(m Medium) Medium {
	for {
		c, ok := m.(*CachedMedium)
		if !ok {
			return m
		}
		m = c.next
	}
}
