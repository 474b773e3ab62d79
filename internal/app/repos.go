package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/docqa-backend/internal/data/repos"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type Repos struct {
	User     repos.UserRepo
	File     repos.FileRepo
	QueryLog repos.QueryLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     repos.NewUserRepo(db, log),
		File:     repos.NewFileRepo(db, log),
		QueryLog: repos.NewQueryLogRepo(db, log),
	}
}
