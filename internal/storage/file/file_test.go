package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"findash/internal/storage"
)

var _ storage.Medium = (*Store)(nil)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok, err := s.GetItem(ctx, "financeData"); ok || err != nil {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := s.SetItem(ctx, "financeData", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetItem(ctx, "financeData", `{"a":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.GetItem(ctx, "financeData")
	if err != nil || !ok || v != `{"a":2}` {
		t.Fatalf("unexpected value %q ok=%v err=%v", v, ok, err)
	}

	if _, err := os.Stat(filepath.Join(s.Dir(), "financeData.json")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 1 {
		t.Fatalf("expected no temp files left, got %d entries", len(entries))
	}

	if err := s.RemoveItem(ctx, "financeData"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveItem(ctx, "financeData"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestFileStoreEscapesKeys(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetItem(ctx, "../escape", "x"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(s.Dir()), "escape.json")); err == nil {
		t.Fatalf("key escaped the data dir")
	}
	if v, ok, _ := s.GetItem(ctx, "../escape"); !ok || v != "x" {
		t.Fatalf("expected value back, got %q ok=%v", v, ok)
	}
}
