package vectors

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// ChunkEmbedding is one indexed chunk when the pgvector index is selected.
// The vector dimension is fixed by the migration, not by this struct.
type ChunkEmbedding struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	Namespace string          `gorm:"column:namespace;not null;index:idx_chunk_ns_ord,priority:1"`
	Ordinal   int             `gorm:"column:ordinal;not null;index:idx_chunk_ns_ord,priority:2"`
	Content   string          `gorm:"column:content;type:text;not null"`
	Metadata  datatypes.JSON  `gorm:"column:metadata;type:jsonb"`
	Embedding pgvector.Vector `gorm:"column:embedding;type:vector"`
	CreatedAt time.Time       `gorm:"column:created_at;not null"`
}

func (ChunkEmbedding) TableName() string { return "chunk_embeddings" }
