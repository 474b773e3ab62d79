package db

import (
	"fmt"

	types "github.com/yungbote/docqa-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.File{},
		&types.QueryLog{},
	)
}

// EnsurePGVector installs the vector extension and the chunk_embeddings table.
// Only valid on postgres.
func EnsurePGVector(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector;`).Error; err != nil {
		return fmt.Errorf("enable vector extension: %w", err)
	}
	if err := db.AutoMigrate(&types.ChunkEmbedding{}); err != nil {
		return fmt.Errorf("migrate chunk_embeddings: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}
