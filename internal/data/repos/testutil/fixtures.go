package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/docqa-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		Username:       email,
		Email:          email,
		HashedPassword: "pw",
		FolderName:     uuid.NewString(),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedFile(tb testing.TB, ctx context.Context, tx *gorm.DB, owner *types.User, filename string) *types.File {
	tb.Helper()
	f := &types.File{
		UserID:     owner.ID,
		Filename:   filename,
		FileType:   "application/pdf",
		FilePath:   filepath.Join("/data", owner.FolderName, filename),
		UploadedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed file: %v", err)
	}
	return f
}
