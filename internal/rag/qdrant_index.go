package rag

import (
	"context"
	"fmt"

	"github.com/yungbote/docqa-backend/internal/platform/qdrant"
)

// QdrantStore is the subset of the Qdrant adapter the index needs.
type QdrantStore interface {
	Upsert(ctx context.Context, namespace string, points []qdrant.Point) error
	Search(ctx context.Context, namespace string, q []float32, topK int) ([]qdrant.ScoredPoint, error)
	DeleteNamespace(ctx context.Context, namespace string) error
	CountNamespace(ctx context.Context, namespace string) (int, error)
}

// QdrantIndex stores each namespace as a payload-filtered slice of one Qdrant collection.
// An empty namespace counts as missing.
type QdrantIndex struct {
	Store QdrantStore
}

func (ix *QdrantIndex) Replace(ctx context.Context, namespace string, entries []Entry) error {
	if err := ix.Store.DeleteNamespace(ctx, namespace); err != nil {
		return fmt.Errorf("clear namespace: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	points := make([]qdrant.Point, 0, len(entries))
	for _, e := range entries {
		points = append(points, qdrant.Point{
			ID:     e.ID,
			Vector: e.Vector,
			Payload: map[string]any{
				"content": e.Content,
				"ordinal": e.Ordinal,
				"source":  e.Metadata.Source,
				"page":    e.Metadata.Page,
			},
		})
	}
	return ix.Store.Upsert(ctx, namespace, points)
}

func (ix *QdrantIndex) Search(ctx context.Context, namespace string, vector []float32, k int) ([]Match, error) {
	exists, err := ix.Exists(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrIndexNotFound
	}
	hits, err := ix.Store.Search(ctx, namespace, vector, k)
	if err != nil {
		return nil, unavailable(err)
	}
	out := make([]Match, 0, len(hits))
	for _, h := range hits {
		m := Match{ID: h.ID, Score: h.Score}
		m.Content, _ = h.Payload["content"].(string)
		m.Metadata.Source, _ = h.Payload["source"].(string)
		m.Ordinal = payloadInt(h.Payload["ordinal"])
		m.Metadata.Page = payloadInt(h.Payload["page"])
		out = append(out, m)
	}
	return out, nil
}

func (ix *QdrantIndex) Exists(ctx context.Context, namespace string) (bool, error) {
	n, err := ix.Store.CountNamespace(ctx, namespace)
	if err != nil {
		return false, unavailable(err)
	}
	return n > 0, nil
}

func unavailable(err error) error {
	if qdrant.IsUnavailable(err) {
		return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	return err
}

func payloadInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
