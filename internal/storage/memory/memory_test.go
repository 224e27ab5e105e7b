package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"findash/internal/storage"
)

var _ storage.Medium = (*Store)(nil)

func TestStoreSetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := New(nil)

	if _, ok, err := s.GetItem(ctx, "k"); ok || err != nil {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := s.SetItem(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetItem(ctx, "k", "v2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, _ := s.GetItem(ctx, "k"); !ok || v != "v2" {
		t.Fatalf("expected v2, got %q ok=%v", v, ok)
	}
	if s.Writes() != 2 {
		t.Fatalf("expected 2 writes, got %d", s.Writes())
	}
	if err := s.RemoveItem(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveItem(ctx, "k"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if _, ok, _ := s.GetItem(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestStoreQuota(t *testing.T) {
	ctx := context.Background()
	s := New(map[string]string{"a": "12345"}, WithQuota(10))

	err := s.SetItem(ctx, "b", "123456")
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, ok, _ := s.GetItem(ctx, "b"); ok {
		t.Fatalf("rejected write must not be stored")
	}
	// Replacing an existing key only counts the new value.
	if err := s.SetItem(ctx, "a", "123456789"); err != nil {
		t.Fatalf("expected replacement within quota, got %v", err)
	}
}

func TestNewFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "financeData.json"), []byte(`{"user":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewFromDir(dir)
	if err != nil {
		t.Fatalf("NewFromDir: %v", err)
	}
	if v, ok, _ := s.GetItem(context.Background(), "financeData"); !ok || v != `{"user":{}}` {
		t.Fatalf("unexpected seed %q ok=%v", v, ok)
	}
	if len(s.Keys()) != 1 {
		t.Fatalf("expected one key, got %v", s.Keys())
	}

	empty, err := NewFromDir(filepath.Join(dir, "missing"))
	if err != nil || len(empty.Keys()) != 0 {
		t.Fatalf("expected empty store for missing dir, err=%v", err)
	}
}
