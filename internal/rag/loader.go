package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

// PageReader extracts the plain text of every page of a document.
type PageReader interface {
	Pages(path string) ([]string, error)
}

// DirectoryLoader reads every top-level file in a folder matching Glob, one Document per page.
type DirectoryLoader struct {
	Log    *logger.Logger
	Glob   string
	Reader PageReader
}

// LoadResult carries the loaded pages plus the files that could not be read.
type LoadResult struct {
	Documents []Document
	Files     int
	Skipped   []string
}

func (l *DirectoryLoader) Load(ctx context.Context, dir string) (*LoadResult, error) {
	if l.Reader == nil {
		return nil, fmt.Errorf("directory loader: page reader is nil")
	}
	glob := l.Glob
	if glob == "" {
		glob = "*.pdf"
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ok, err := filepath.Match(strings.ToLower(glob), strings.ToLower(e.Name()))
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", glob, err)
		}
		if ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	res := &LoadResult{}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages, err := l.Reader.Pages(p)
		if err != nil {
			res.Skipped = append(res.Skipped, p)
			if l.Log != nil {
				l.Log.Warn("skipping unreadable document", "path", p, "error", err)
			}
			continue
		}
		res.Files++
		for i, text := range pages {
			if strings.TrimSpace(text) == "" {
				continue
			}
			res.Documents = append(res.Documents, Document{
				PageContent: text,
				Metadata:    Metadata{Source: p, Page: i},
			})
		}
	}
	if len(paths) > 0 && res.Files == 0 {
		return nil, fmt.Errorf("none of the %d documents in %s could be read", len(paths), dir)
	}
	return res, nil
}
