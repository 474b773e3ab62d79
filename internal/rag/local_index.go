package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

const (
	localIndexDir  = "vector_store/db_faiss"
	localIndexFile = "index.json"
)

type localIndexFileV1 struct {
	Version   int       `json:"version"`
	Namespace string    `json:"namespace"`
	Dim       int       `json:"dim"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []Entry   `json:"entries"`
}

type cachedIndex struct {
	modTime time.Time
	size    int64
	file    *localIndexFileV1
}

// LocalIndex keeps one flat JSON index per namespace under <baseDir>/<namespace>/vector_store.
// Search is a brute-force cosine scan.
type LocalIndex struct {
	log     *logger.Logger
	baseDir string

	mu    sync.Mutex
	cache map[string]cachedIndex
}

func NewLocalIndex(log *logger.Logger, baseDir string) *LocalIndex {
	return &LocalIndex{
		log:     log.With("index", "local"),
		baseDir: baseDir,
		cache:   map[string]cachedIndex{},
	}
}

// Path returns where the index for namespace lives.
func (ix *LocalIndex) Path(namespace string) (string, error) {
	ns := strings.TrimSpace(namespace)
	if ns == "" || ns == "." || ns == ".." || strings.ContainsAny(ns, `/\`) {
		return "", fmt.Errorf("invalid namespace %q", namespace)
	}
	return filepath.Join(ix.baseDir, ns, filepath.FromSlash(localIndexDir), localIndexFile), nil
}

func (ix *LocalIndex) Replace(ctx context.Context, namespace string, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := ix.Path(namespace)
	if err != nil {
		return err
	}
	dim := 0
	for i, e := range entries {
		if i == 0 {
			dim = len(e.Vector)
		} else if len(e.Vector) != dim {
			return fmt.Errorf("entry %d has dim %d, expected %d", i, len(e.Vector), dim)
		}
	}

	payload, err := json.Marshal(localIndexFileV1{
		Version:   1,
		Namespace: namespace,
		Dim:       dim,
		CreatedAt: time.Now().UTC(),
		Entries:   entries,
	})
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), localIndexFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp index: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("install index: %w", err)
	}

	ix.mu.Lock()
	delete(ix.cache, path)
	ix.mu.Unlock()

	ix.log.Debug("local index written", "namespace", namespace, "entries", len(entries), "dim", dim)
	return nil
}

func (ix *LocalIndex) Exists(ctx context.Context, namespace string) (bool, error) {
	path, err := ix.Path(namespace)
	if err != nil {
		return false, err
	}
	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !st.IsDir(), nil
}

func (ix *LocalIndex) Search(ctx context.Context, namespace string, vector []float32, k int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	idx, err := ix.load(namespace)
	if err != nil {
		return nil, err
	}
	if len(idx.Entries) == 0 {
		return nil, nil
	}
	if idx.Dim != len(vector) {
		return nil, fmt.Errorf("query dim %d does not match index dim %d", len(vector), idx.Dim)
	}

	matches := make([]Match, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		matches = append(matches, Match{
			ID:       e.ID,
			Ordinal:  e.Ordinal,
			Content:  e.Content,
			Metadata: e.Metadata,
			Score:    cosine(vector, e.Vector),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Ordinal < matches[j].Ordinal
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (ix *LocalIndex) load(namespace string) (*localIndexFileV1, error) {
	path, err := ix.Path(namespace)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrIndexNotFound
	}
	if err != nil {
		return nil, err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if c, ok := ix.cache[path]; ok && c.modTime.Equal(st.ModTime()) && c.size == st.Size() {
		return c.file, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrIndexNotFound
		}
		return nil, err
	}
	var f localIndexFileV1
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", path, err)
	}
	ix.cache[path] = cachedIndex{modTime: st.ModTime(), size: st.Size(), file: &f}
	return &f, nil
}
