package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/docqa-backend/internal/data/repos/files"
	"github.com/yungbote/docqa-backend/internal/data/repos/queries"
	"github.com/yungbote/docqa-backend/internal/data/repos/user"
	"github.com/yungbote/docqa-backend/internal/data/repos/vectors"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type FileRepo = files.FileRepo
type QueryLogRepo = queries.QueryLogRepo
type ChunkEmbeddingRepo = vectors.ChunkEmbeddingRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewFileRepo(db *gorm.DB, log *logger.Logger) FileRepo { return files.NewFileRepo(db, log) }

func NewQueryLogRepo(db *gorm.DB, log *logger.Logger) QueryLogRepo {
	return queries.NewQueryLogRepo(db, log)
}

func NewChunkEmbeddingRepo(db *gorm.DB, log *logger.Logger) ChunkEmbeddingRepo {
	return vectors.NewChunkEmbeddingRepo(db, log)
}
