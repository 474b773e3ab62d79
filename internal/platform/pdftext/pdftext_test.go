package pdftext

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPagesRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("definitely not a pdf"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New().Pages(path); err == nil {
		t.Fatalf("expected error for malformed pdf")
	}
}

func TestPagesMissingFile(t *testing.T) {
	if _, err := New().Pages(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestPagesExtractsTextAndKeepsBlankPages(t *testing.T) {
	pages, err := New().Pages(filepath.Join("testdata", "two_pages.pdf"))
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d: %q", len(pages), pages)
	}
	if !strings.Contains(pages[0], "Refunds are processed within 30 days.") {
		t.Fatalf("page 1 text: %q", pages[0])
	}
	if strings.TrimSpace(pages[1]) != "" {
		t.Fatalf("page 2 should be blank: %q", pages[1])
	}
}
