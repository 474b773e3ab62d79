package rag

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

func TestLocalIndexReplaceAndSearch(t *testing.T) {
	ctx := context.Background()
	ix := NewLocalIndex(logger.NewNop(), t.TempDir())

	ok, err := ix.Exists(ctx, "folder-a")
	if err != nil || ok {
		t.Fatalf("Exists before write: ok=%v err=%v", ok, err)
	}
	if _, err := ix.Search(ctx, "folder-a", []float32{1, 0}, 2); !errors.Is(err, ErrIndexNotFound) {
		t.Fatalf("Search before write: err=%v", err)
	}

	entries := []Entry{
		{ID: "a", Ordinal: 0, Content: "east", Vector: []float32{1, 0}},
		{ID: "b", Ordinal: 1, Content: "north", Vector: []float32{0, 1}},
		{ID: "c", Ordinal: 2, Content: "north-east", Vector: []float32{1, 1}},
	}
	if err := ix.Replace(ctx, "folder-a", entries); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if ok, err := ix.Exists(ctx, "folder-a"); err != nil || !ok {
		t.Fatalf("Exists after write: ok=%v err=%v", ok, err)
	}

	got, err := ix.Search(ctx, "folder-a", []float32{1, 0.1}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("Search order: %+v", got)
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("scores not descending: %+v", got)
	}

	if _, err := ix.Search(ctx, "folder-a", []float32{1, 0, 0}, 2); err == nil {
		t.Fatalf("expected dim mismatch error")
	}
}

func TestLocalIndexReplaceOverwritesAndInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	ix := NewLocalIndex(logger.NewNop(), t.TempDir())

	if err := ix.Replace(ctx, "ns", []Entry{{ID: "old", Content: "old", Vector: []float32{1, 0}}}); err != nil {
		t.Fatalf("Replace old: %v", err)
	}
	if _, err := ix.Search(ctx, "ns", []float32{1, 0}, 1); err != nil {
		t.Fatalf("Search old: %v", err)
	}
	if err := ix.Replace(ctx, "ns", []Entry{{ID: "new", Content: "new", Vector: []float32{1, 0}}}); err != nil {
		t.Fatalf("Replace new: %v", err)
	}
	got, err := ix.Search(ctx, "ns", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search new: %v", err)
	}
	if len(got) != 1 || got[0].ID != "new" {
		t.Fatalf("stale results: %+v", got)
	}
}

func TestLocalIndexEmptyIndexReturnsNoMatches(t *testing.T) {
	ctx := context.Background()
	ix := NewLocalIndex(logger.NewNop(), t.TempDir())
	if err := ix.Replace(ctx, "empty", nil); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := ix.Search(ctx, "empty", []float32{1}, 2)
	if err != nil || len(got) != 0 {
		t.Fatalf("Search empty: got=%v err=%v", got, err)
	}
}

func TestLocalIndexRejectsPathNamespaces(t *testing.T) {
	ix := NewLocalIndex(logger.NewNop(), t.TempDir())
	for _, ns := range []string{"", "..", "a/b", `a\b`} {
		if _, err := ix.Path(ns); err == nil {
			t.Fatalf("Path(%q): expected error", ns)
		}
	}
	p, err := ix.Path("abc")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if _, err := os.Stat(p); err == nil {
		t.Fatalf("index should not exist yet")
	}
}
