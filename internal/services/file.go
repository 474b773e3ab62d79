package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yungbote/docqa-backend/internal/data/repos"
	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/apierr"
	"github.com/yungbote/docqa-backend/internal/platform/ctxutil"
	"github.com/yungbote/docqa-backend/internal/platform/dbctx"
	"github.com/yungbote/docqa-backend/internal/platform/folderstore"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type UploadResult struct {
	Message string      `json:"message"`
	File    *types.File `json:"file"`
}

type FileService interface {
	Upload(ctx context.Context, userID uint, in UploadInput) (*UploadResult, error)
	List(ctx context.Context, userID uint, skip, limit int) ([]*types.File, error)
	Delete(ctx context.Context, userID, fileID uint) error
}

type fileService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	fileRepo repos.FileRepo
	folders  folderstore.Store
	indexer  IndexerService
	accounts *accounts
}

func NewFileService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	fileRepo repos.FileRepo,
	folders folderstore.Store,
	indexer IndexerService,
) FileService {
	serviceLog := log.With("service", "FileService")
	return &fileService{
		log:      serviceLog,
		userRepo: userRepo,
		fileRepo: fileRepo,
		folders:  folders,
		indexer:  indexer,
		accounts: newAccounts(serviceLog, userRepo, folders, nil),
	}
}

func (fs *fileService) owner(ctx context.Context, userID uint, action string) (*types.User, error) {
	if ctxutil.UserID(ctx) != userID {
		return nil, apierr.Newf(http.StatusForbidden, "forbidden", "You do not have permission to %s files for this user.", action)
	}
	u, err := fs.accounts.byID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Upload stores the file in the owner's folder, records it, and rebuilds the owner's index.
// The index covers every document in the folder, not just this one.
func (fs *fileService) Upload(ctx context.Context, userID uint, in UploadInput) (*UploadResult, error) {
	u, err := fs.owner(ctx, userID, "upload")
	if err != nil {
		return nil, err
	}
	name := folderstore.CleanFilename(in.Filename)
	if name == "" {
		return nil, apierr.BadRequest("invalid_filename", "A file with a valid name is required")
	}
	if in.Body == nil {
		return nil, apierr.BadRequest("missing_file", "File is required")
	}

	path, size, err := fs.folders.SaveFile(ctx, u.FolderName, name, in.Body)
	if err != nil {
		fs.log.Error("save upload", "user_id", u.ID, "filename", name, "error", err)
		return nil, apierr.InternalMsg("file_save_failed", "Failed to save file", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	row := &types.File{
		UserID:     u.ID,
		Filename:   name,
		FileType:   folderstore.ContentType(name, in.ContentType),
		FilePath:   path,
		SizeBytes:  size,
		UploadedAt: time.Now().UTC(),
	}
	if _, err := fs.fileRepo.Create(dbc, []*types.File{row}); err != nil {
		fs.removeIfUnreferenced(ctx, path)
		return nil, apierr.Internal("file_record_failed", err)
	}

	stats, err := fs.indexer.Rebuild(ctx, u)
	if err != nil {
		fs.log.Error("rebuild index after upload", "user_id", u.ID, "file_id", row.ID, "error", err)
		return nil, apierr.InternalMsg("index_rebuild_failed", "File saved but indexing failed", err)
	}
	fs.log.Info("file uploaded",
		"user_id", u.ID,
		"file_id", row.ID,
		"size_bytes", size,
		"chunks", stats.Chunks,
	)
	return &UploadResult{
		Message: fmt.Sprintf("File '%s' uploaded successfully to user %d.", name, u.ID),
		File:    row,
	}, nil
}

func (fs *fileService) List(ctx context.Context, userID uint, skip, limit int) ([]*types.File, error) {
	u, err := fs.owner(ctx, userID, "view")
	if err != nil {
		return nil, err
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultUserListLimit
	}
	if limit > maxUserListLimit {
		limit = maxUserListLimit
	}
	rows, err := fs.fileRepo.GetByUserID(dbctx.Context{Ctx: ctx}, u.ID, skip, limit)
	if err != nil {
		return nil, apierr.Internal("file_list_failed", err)
	}
	return rows, nil
}

func (fs *fileService) Delete(ctx context.Context, userID, fileID uint) error {
	u, err := fs.owner(ctx, userID, "delete")
	if err != nil {
		return err
	}
	dbc := dbctx.Context{Ctx: ctx}
	found, err := fs.fileRepo.GetByIDs(dbc, []uint{fileID})
	if err != nil {
		return apierr.Internal("file_lookup_failed", err)
	}
	if len(found) == 0 || found[0].UserID != u.ID {
		return apierr.NotFound("file_not_found", "File not found")
	}
	f := found[0]
	if err := fs.fileRepo.FullDeleteByIDs(dbc, []uint{f.ID}); err != nil {
		return apierr.Internal("file_delete_failed", err)
	}
	fs.removeIfUnreferenced(ctx, f.FilePath)

	if _, err := fs.indexer.Rebuild(ctx, u); err != nil {
		fs.log.Error("rebuild index after delete", "user_id", u.ID, "file_id", f.ID, "error", err)
		return apierr.Internal("index_rebuild_failed", err)
	}
	fs.log.Info("file deleted", "user_id", u.ID, "file_id", f.ID)
	return nil
}

// removeIfUnreferenced deletes the file on disk once no row points at it.
func (fs *fileService) removeIfUnreferenced(ctx context.Context, path string) {
	n, err := fs.fileRepo.CountByPath(dbctx.Context{Ctx: ctx}, path)
	if err != nil {
		fs.log.Warn("count file references", "path", path, "error", err)
		return
	}
	if n > 0 {
		return
	}
	if err := fs.folders.DeleteFile(ctx, path); err != nil {
		fs.log.Warn("remove file", "path", path, "error", err)
	}
}
