package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Component: ComponentSnapshot})

	logger.Info("seeded", FieldStorageKey, "financeData")
	logger.WithComponent(ComponentStorage).Warn("slow write")

	out := buf.String()
	if !strings.Contains(out, "component=snapshot") || !strings.Contains(out, "storage_key=financeData") {
		t.Fatalf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "component=storage") {
		t.Fatalf("expected storage component in: %s", out)
	}
	if strings.Count(out, "component=") != 2 {
		t.Fatalf("expected one component per line, got: %s", out)
	}
}

func TestFromContextFallsBack(t *testing.T) {
	if l := FromContext(context.Background()); l.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got component %q", l.Component())
	}
	logger := Discard().WithComponent(ComponentHTTP)
	if l := FromContext(NewContext(context.Background(), logger)); l != logger {
		t.Fatalf("expected stored logger")
	}
}

func TestLogFieldsBuilder(t *testing.T) {
	f := NewFields().WithSnapshot("financeData", OpUpdate).WithError(errors.New("boom")).WithError(nil)
	if f[FieldStorageKey] != "financeData" || f[FieldOperation] != OpUpdate || f[FieldError] != "boom" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if got := len(f.ToSlice()); got != 6 {
		t.Fatalf("expected 6 slice entries, got %d", got)
	}
	if _, ok := NewFields().WithRequestID("")[FieldRequestID]; ok {
		t.Fatalf("empty request id should be skipped")
	}
}
