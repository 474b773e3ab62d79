package files

import (
	"gorm.io/gorm"

	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/dbctx"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type FileRepo interface {
	Create(dbc dbctx.Context, files []*types.File) ([]*types.File, error)
	GetByIDs(dbc dbctx.Context, fileIDs []uint) ([]*types.File, error)
	GetByUserID(dbc dbctx.Context, userID uint, offset, limit int) ([]*types.File, error)
	CountByPath(dbc dbctx.Context, filePath string) (int64, error)
	FullDeleteByIDs(dbc dbctx.Context, fileIDs []uint) error
}

type fileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFileRepo(db *gorm.DB, baseLog *logger.Logger) FileRepo {
	repoLog := baseLog.With("repo", "FileRepo")
	return &fileRepo{db: db, log: repoLog}
}

func (r *fileRepo) Create(dbc dbctx.Context, files []*types.File) ([]*types.File, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(files) == 0 {
		return []*types.File{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepo) GetByIDs(dbc dbctx.Context, fileIDs []uint) ([]*types.File, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.File
	if len(fileIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", fileIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fileRepo) GetByUserID(dbc dbctx.Context, userID uint, offset, limit int) ([]*types.File, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.File
	q := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at ASC, id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fileRepo) CountByPath(dbc dbctx.Context, filePath string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.File{}).
		Where("file_path = ?", filePath).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *fileRepo) FullDeleteByIDs(dbc dbctx.Context, fileIDs []uint) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fileIDs) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Where("id IN ?", fileIDs).
		Delete(&types.File{}).Error
}
