package vectors

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/dbctx"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

// ScoredChunk is a chunk row with its cosine distance to the query vector.
type ScoredChunk struct {
	ID       uint
	Ordinal  int
	Content  string
	Metadata datatypes.JSON
	Distance float64
}

type ChunkEmbeddingRepo interface {
	ReplaceNamespace(dbc dbctx.Context, namespace string, rows []*types.ChunkEmbedding) error
	SearchNamespace(dbc dbctx.Context, namespace string, query pgvector.Vector, limit int) ([]ScoredChunk, error)
	CountNamespace(dbc dbctx.Context, namespace string) (int64, error)
}

type chunkEmbeddingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChunkEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) ChunkEmbeddingRepo {
	return &chunkEmbeddingRepo{db: db, log: baseLog.With("repo", "ChunkEmbeddingRepo")}
}

// ReplaceNamespace deletes every row of namespace and inserts rows in one transaction.
func (r *chunkEmbeddingRepo) ReplaceNamespace(dbc dbctx.Context, namespace string, rows []*types.ChunkEmbedding) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("namespace = ?", namespace).Delete(&types.ChunkEmbedding{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for _, row := range rows {
			row.Namespace = namespace
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

func (r *chunkEmbeddingRepo) SearchNamespace(dbc dbctx.Context, namespace string, query pgvector.Vector, limit int) ([]ScoredChunk, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []ScoredChunk
	if limit <= 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ChunkEmbedding{}).
		Select("id, ordinal, content, metadata, embedding <=> ? AS distance", query).
		Where("namespace = ?", namespace).
		Order("distance ASC, ordinal ASC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chunkEmbeddingRepo) CountNamespace(dbc dbctx.Context, namespace string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.ChunkEmbedding{}).
		Where("namespace = ?", namespace).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
