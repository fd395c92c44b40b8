package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmpty(t *testing.T) {
	store := Empty()
	if seq, ok := store.Table().Escape(Reset); !ok || seq != "\x1b[0m" {
		t.Fatalf("Escape(reset) = (%q, %v), want the reset sequence", seq, ok)
	}
	if _, ok := store.Table().Escape("green"); ok {
		t.Fatalf("empty store has a green entry, want reset-only table")
	}
	res := store.Resolve("anything.log")
	if len(res.Filters) != 0 || len(res.Colors) != 0 {
		t.Fatalf("Resolve on empty store = %d filters, %d colors, want none", len(res.Filters), len(res.Colors))
	}
	res = store.ResolveStdin()
	if len(res.Filters) != 0 || len(res.Colors) != 0 {
		t.Fatalf("ResolveStdin on empty store = %d filters, %d colors, want none", len(res.Filters), len(res.Colors))
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "no-such-rules.conf"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, ok := store.Table().Escape("green"); ok {
		t.Fatalf("missing file produced a seeded table, want the empty store")
	}
}

func TestLoad_ParseErrorFallsBackToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.conf")
	if err := os.WriteFile(path, []byte("match default {\n  color red /oops\n}\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error for malformed file")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load error = %T (%v), want it to wrap *ParseError", err, err)
	}
	if store == nil {
		t.Fatalf("Load returned nil store, want the empty fallback")
	}
	if res := store.Resolve("app.log"); len(res.Colors) != 0 || len(res.Filters) != 0 {
		t.Fatalf("fallback store still has rules: %+v", res)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.conf")
	if err := os.WriteFile(path, []byte("match /app/ {\n  color green /ok/\n}\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if res := store.Resolve("app.log"); len(res.Colors) != 1 {
		t.Fatalf("Resolve(app.log) colors = %d, want 1", len(res.Colors))
	}
}

func TestLoad_TildeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, "rules.conf"), []byte("match /x/ {\n  deny /y/\n}\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, err := Load("~/rules.conf")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if res := store.Resolve("x.log"); len(res.Filters) != 1 {
		t.Fatalf("Resolve(x.log) filters = %d, want 1", len(res.Filters))
	}
}
