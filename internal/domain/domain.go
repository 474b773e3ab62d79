package domain

import (
	"github.com/yungbote/docqa-backend/internal/domain/files"
	"github.com/yungbote/docqa-backend/internal/domain/queries"
	"github.com/yungbote/docqa-backend/internal/domain/user"
	"github.com/yungbote/docqa-backend/internal/domain/vectors"
)

const (
	QueryStatusOK     = queries.StatusOK
	QueryStatusFailed = queries.StatusFailed
)

type User = user.User
type File = files.File
type QueryLog = queries.QueryLog
type ChunkEmbedding = vectors.ChunkEmbedding
