package rag

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/yungbote/docqa-backend/internal/data/repos"
	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/dbctx"
)

// PGVectorIndex keeps chunks in the chunk_embeddings table. Postgres only.
type PGVectorIndex struct {
	Repo repos.ChunkEmbeddingRepo
}

func (ix *PGVectorIndex) Replace(ctx context.Context, namespace string, entries []Entry) error {
	rows := make([]*types.ChunkEmbedding, 0, len(entries))
	for _, e := range entries {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("encode chunk metadata: %w", err)
		}
		rows = append(rows, &types.ChunkEmbedding{
			Namespace: namespace,
			Ordinal:   e.Ordinal,
			Content:   e.Content,
			Metadata:  datatypes.JSON(meta),
			Embedding: pgvector.NewVector(e.Vector),
		})
	}
	return ix.Repo.ReplaceNamespace(dbctx.Context{Ctx: ctx}, namespace, rows)
}

func (ix *PGVectorIndex) Search(ctx context.Context, namespace string, vector []float32, k int) ([]Match, error) {
	dbc := dbctx.Context{Ctx: ctx}
	n, err := ix.Repo.CountNamespace(dbc, namespace)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrIndexNotFound
	}
	rows, err := ix.Repo.SearchNamespace(dbc, namespace, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(rows))
	for _, r := range rows {
		m := Match{
			ID:      fmt.Sprintf("chunk-%d", r.Ordinal),
			Ordinal: r.Ordinal,
			Content: r.Content,
			Score:   1 - r.Distance,
		}
		if len(r.Metadata) > 0 {
			_ = json.Unmarshal(r.Metadata, &m.Metadata)
		}
		out = append(out, m)
	}
	return out, nil
}

func (ix *PGVectorIndex) Exists(ctx context.Context, namespace string) (bool, error) {
	n, err := ix.Repo.CountNamespace(dbctx.Context{Ctx: ctx}, namespace)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
