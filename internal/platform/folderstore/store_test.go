package folderstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := New(logger.NewNop(), t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestCreateFolderMakesVectorStoreDir(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateFolder(context.Background(), "abc"); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	st, err := os.Stat(filepath.Join(s.BaseDir(), "abc", "vector_store"))
	if err != nil || !st.IsDir() {
		t.Fatalf("vector_store dir missing: %v", err)
	}
	if err := s.RemoveFolder(context.Background(), "abc"); err != nil {
		t.Fatalf("RemoveFolder: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.BaseDir(), "abc")); !os.IsNotExist(err) {
		t.Fatalf("folder still present: %v", err)
	}
}

func TestSaveFileOverwritesAndStripsDirectories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.CreateFolder(ctx, "u1"); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	p1, n, err := s.SaveFile(ctx, "u1", "../../etc/report.pdf", strings.NewReader("first"))
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	if n != 5 || p1 != filepath.Join(s.BaseDir(), "u1", "report.pdf") {
		t.Fatalf("SaveFile: path=%s n=%d", p1, n)
	}
	p2, _, err := s.SaveFile(ctx, "u1", "report.pdf", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("SaveFile again: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("same name should map to same path")
	}
	raw, _ := os.ReadFile(p2)
	if string(raw) != "second" {
		t.Fatalf("content: %q", raw)
	}

	if err := s.DeleteFile(ctx, p2); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if err := s.DeleteFile(ctx, p2); err != nil {
		t.Fatalf("DeleteFile missing: %v", err)
	}
	if err := s.DeleteFile(ctx, "/etc/passwd"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("DeleteFile outside base: %v", err)
	}
}

func TestCleanFilenameAndContentType(t *testing.T) {
	cases := map[string]string{
		"doc.pdf":          "doc.pdf",
		"a/b/c.pdf":        "c.pdf",
		`C:\Users\x\y.pdf`: "y.pdf",
		"..":               "",
		"":                 "",
		"   ":              "",
	}
	for in, want := range cases {
		if got := CleanFilename(in); got != want {
			t.Fatalf("CleanFilename(%q)=%q want %q", in, got, want)
		}
	}
	if got := ContentType("x.PDF", ""); got != "application/pdf" {
		t.Fatalf("ContentType pdf: %q", got)
	}
	if got := ContentType("x.unknownext", "text/weird"); got != "text/weird" {
		t.Fatalf("ContentType header: %q", got)
	}
	if got := ContentType("x", ""); got != "application/octet-stream" {
		t.Fatalf("ContentType default: %q", got)
	}
}

func TestFolderPathRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	for _, f := range []string{"", "..", "a/b"} {
		if _, err := s.FolderPath(f); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("FolderPath(%q): %v", f, err)
		}
	}
}
