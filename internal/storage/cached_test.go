package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"findash/internal/cache"
)

type countingMedium struct {
	items  map[string]string
	gets   int
	setErr error
}

func (m *countingMedium) GetItem(_ context.Context, key string) (string, bool, error) {
	m.gets++
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *countingMedium) SetItem(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = value
	return nil
}

func (m *countingMedium) RemoveItem(_ context.Context, key string) error {
	delete(m.items, key)
	return nil
}

func TestCachedMedium_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := &countingMedium{items: map[string]string{"k": "v"}}
	m := NewCachedMedium(inner, cache.NewLRUCache[string](4, time.Minute))

	for i := 0; i < 3; i++ {
		if v, ok, err := m.GetItem(ctx, "k"); err != nil || !ok || v != "v" {
			t.Fatalf("unexpected get %q %v %v", v, ok, err)
		}
	}
	if inner.gets != 1 {
		t.Fatalf("expected one inner read, got %d", inner.gets)
	}

	// Absent keys always reach the inner medium.
	m.GetItem(ctx, "missing")
	m.GetItem(ctx, "missing")
	if inner.gets != 3 {
		t.Fatalf("expected absent keys not cached, inner gets=%d", inner.gets)
	}
}

func TestCachedMedium_WriteThroughAndInvalidate(t *testing.T) {
	ctx := context.Background()
	inner := &countingMedium{items: map[string]string{}}
	m := NewCachedMedium(inner, cache.NewLRUCache[string](4, time.Minute))

	if err := m.SetItem(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := m.GetItem(ctx, "k"); v != "v1" || inner.gets != 0 {
		t.Fatalf("expected cached v1 without inner read, got %q gets=%d", v, inner.gets)
	}

	inner.setErr = ErrUnavailable
	if err := m.SetItem(ctx, "k", "v2"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected inner error, got %v", err)
	}
	if v, _, _ := m.GetItem(ctx, "k"); v != "v1" || inner.gets != 1 {
		t.Fatalf("failed write must drop the cached entry, got %q gets=%d", v, inner.gets)
	}

	if err := m.RemoveItem(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.GetItem(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
	if m.Unwrap() != Medium(inner) {
		t.Fatalf("Unwrap should return inner medium")
	}
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	if _, _, err := Unavailable.GetItem(ctx, "k"); !IsUnavailable(err) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := Unavailable.SetItem(ctx, "k", "v"); !IsUnavailable(err) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := Unavailable.RemoveItem(ctx, "k"); !IsUnavailable(err) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
