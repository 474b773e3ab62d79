package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/docqa-backend/internal/data/db"
	"github.com/yungbote/docqa-backend/internal/data/repos"
	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/apierr"
	"github.com/yungbote/docqa-backend/internal/platform/dbctx"
	"github.com/yungbote/docqa-backend/internal/platform/folderstore"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

var (
	errEmailTaken    = apierr.BadRequest("email_taken", "Email already registered")
	errUsernameTaken = apierr.BadRequest("username_taken", "Username already registered")
	errUserNotFound  = apierr.NotFound("user_not_found", "User not found")
)

// accounts creates users together with their on-disk folder. Signup and POST /users share it.
type accounts struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	folders  folderstore.Store
	hasher   PasswordHasher
}

func newAccounts(log *logger.Logger, userRepo repos.UserRepo, folders folderstore.Store, hasher PasswordHasher) *accounts {
	return &accounts{log: log, userRepo: userRepo, folders: folders, hasher: hasher}
}

func (a *accounts) create(ctx context.Context, email, password string) (*types.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apierr.BadRequest("invalid_email", "Email is required")
	}
	if password == "" {
		return nil, apierr.BadRequest("invalid_password", "Password is required")
	}

	dbc := dbctx.Context{Ctx: ctx}
	exists, err := a.userRepo.EmailExists(dbc, email)
	if err != nil {
		return nil, apierr.Internal("user_lookup_failed", err)
	}
	if exists {
		return nil, errEmailTaken
	}
	exists, err = a.userRepo.UsernameExists(dbc, email)
	if err != nil {
		return nil, apierr.Internal("user_lookup_failed", err)
	}
	if exists {
		return nil, errUsernameTaken
	}

	hash, err := a.hasher.HashPassword(password)
	if err != nil {
		return nil, apierr.Internal("password_hash_failed", err)
	}

	folder := uuid.NewString()
	if err := a.folders.CreateFolder(ctx, folder); err != nil {
		return nil, apierr.Internal("folder_create_failed", err)
	}

	u := &types.User{
		Username:       email,
		Email:          email,
		HashedPassword: hash,
		FolderName:     folder,
	}
	if _, err := a.userRepo.Create(dbc, []*types.User{u}); err != nil {
		if rmErr := a.folders.RemoveFolder(ctx, folder); rmErr != nil {
			a.log.Warn("remove folder after failed insert", "folder", folder, "error", rmErr)
		}
		if db.IsUniqueViolation(err) {
			return nil, errEmailTaken
		}
		return nil, apierr.Internal("user_create_failed", err)
	}
	a.log.Info("user created", "user_id", u.ID, "folder", folder)
	return u, nil
}

func (a *accounts) byID(ctx context.Context, id uint) (*types.User, error) {
	found, err := a.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, []uint{id})
	if err != nil {
		return nil, apierr.Internal("user_lookup_failed", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, errUserNotFound
	}
	return found[0], nil
}

func (a *accounts) byEmail(ctx context.Context, email string) (*types.User, error) {
	found, err := a.userRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{normalizeEmail(email)})
	if err != nil {
		return nil, apierr.Internal("user_lookup_failed", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, errUserNotFound
	}
	return found[0], nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
