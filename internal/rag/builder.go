package rag

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type BuildStats struct {
	Files    int
	Pages    int
	Chunks   int
	Skipped  []string
	Duration time.Duration
}

// Builder turns a folder of documents into a fresh index namespace.
type Builder struct {
	Log         *logger.Logger
	Loader      *DirectoryLoader
	Splitter    *RecursiveCharacterSplitter
	Embedder    Embedder
	Index       VectorIndex
	BatchSize   int
	Concurrency int
}

func (b *Builder) Build(ctx context.Context, dir, namespace string) (*BuildStats, error) {
	start := time.Now()

	loaded, err := b.Loader.Load(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	chunks := b.Splitter.SplitDocuments(loaded.Documents)

	entries := make([]Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = Entry{
			ID:       fmt.Sprintf("chunk-%d", i),
			Ordinal:  i,
			Content:  c.PageContent,
			Metadata: c.Metadata,
		}
	}

	if err := b.embed(ctx, entries); err != nil {
		return nil, err
	}
	if err := b.Index.Replace(ctx, namespace, entries); err != nil {
		return nil, fmt.Errorf("replace index: %w", err)
	}

	stats := &BuildStats{
		Files:    loaded.Files,
		Pages:    len(loaded.Documents),
		Chunks:   len(entries),
		Skipped:  loaded.Skipped,
		Duration: time.Since(start),
	}
	if b.Log != nil {
		b.Log.Info("index built",
			"namespace", namespace,
			"files", stats.Files,
			"pages", stats.Pages,
			"chunks", stats.Chunks,
			"skipped", len(stats.Skipped),
			"duration_ms", stats.Duration.Milliseconds(),
		)
	}
	return stats, nil
}

func (b *Builder) embed(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	size := b.BatchSize
	if size <= 0 {
		size = 32
	}
	limit := b.Concurrency
	if limit <= 0 {
		limit = 2
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for start := 0; start < len(entries); start += size {
		end := start + size
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Content
			}
			vecs, err := b.Embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed chunks %d-%d: %w", batch[0].Ordinal, batch[len(batch)-1].Ordinal, err)
			}
			if len(vecs) != len(batch) {
				return fmt.Errorf("embed chunks: expected %d vectors, got %d", len(batch), len(vecs))
			}
			for i := range batch {
				batch[i].Vector = vecs[i]
			}
			return nil
		})
	}
	return g.Wait()
}
