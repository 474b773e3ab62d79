package services

import (
	"context"
	"errors"

	"github.com/yungbote/docqa-backend/internal/data/db"
	"github.com/yungbote/docqa-backend/internal/data/repos"
	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/apierr"
	"github.com/yungbote/docqa-backend/internal/platform/ctxutil"
	"github.com/yungbote/docqa-backend/internal/platform/dbctx"
	"github.com/yungbote/docqa-backend/internal/platform/folderstore"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

const (
	defaultUserListLimit = 100
	maxUserListLimit     = 1000
)

type UpdateUserInput struct {
	Email    string
	Username string
}

type ChangePasswordInput struct {
	Email       string
	OldPassword string
	NewPassword string
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	Create(ctx context.Context, email, password string) (*types.User, error)
	Get(ctx context.Context, id uint) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	List(ctx context.Context, skip, limit int) ([]*types.User, error)
	Update(ctx context.Context, id uint, in UpdateUserInput) (*types.User, error)
	Delete(ctx context.Context, id uint) error
	ChangePassword(ctx context.Context, in ChangePasswordInput) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	hasher   PasswordHasher
	accounts *accounts
}

func NewUserService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	folders folderstore.Store,
	hasher PasswordHasher,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		log:      serviceLog,
		userRepo: userRepo,
		hasher:   hasher,
		accounts: newAccounts(serviceLog, userRepo, folders, hasher),
	}
}

func (us *userService) caller(ctx context.Context) (*types.User, error) {
	id := ctxutil.UserID(ctx)
	if id == 0 {
		return nil, errUnauthorized
	}
	u, err := us.accounts.byID(ctx, id)
	if errors.Is(err, errUserNotFound) {
		return nil, errUnauthorized
	}
	return u, err
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	return us.caller(ctx)
}

func (us *userService) Create(ctx context.Context, email, password string) (*types.User, error) {
	return us.accounts.create(ctx, email, password)
}

func (us *userService) Get(ctx context.Context, id uint) (*types.User, error) {
	return us.accounts.byID(ctx, id)
}

func (us *userService) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	return us.accounts.byEmail(ctx, email)
}

func (us *userService) List(ctx context.Context, skip, limit int) ([]*types.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultUserListLimit
	}
	if limit > maxUserListLimit {
		limit = maxUserListLimit
	}
	users, err := us.userRepo.List(dbctx.Context{Ctx: ctx}, skip, limit)
	if err != nil {
		return nil, apierr.Internal("user_list_failed", err)
	}
	return users, nil
}

// Update changes the caller's email and username. Username defaults to the new email.
func (us *userService) Update(ctx context.Context, id uint, in UpdateUserInput) (*types.User, error) {
	target, err := us.accounts.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ctxutil.UserID(ctx) != target.ID {
		return nil, apierr.Forbidden("forbidden", "You do not have permission to update this user.")
	}

	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apierr.BadRequest("invalid_email", "Email is required")
	}
	username := normalizeEmail(in.Username)
	if username == "" {
		username = email
	}

	dbc := dbctx.Context{Ctx: ctx}
	if email != target.Email {
		taken, err := us.userRepo.EmailExists(dbc, email)
		if err != nil {
			return nil, apierr.Internal("user_lookup_failed", err)
		}
		if taken {
			return nil, errEmailTaken
		}
	}
	if username != target.Username {
		taken, err := us.userRepo.UsernameExists(dbc, username)
		if err != nil {
			return nil, apierr.Internal("user_lookup_failed", err)
		}
		if taken {
			return nil, errUsernameTaken
		}
	}
	if err := us.userRepo.UpdateIdentity(dbc, target.ID, username, email); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apierr.BadRequest("identity_taken", "Email or username already registered")
		}
		return nil, apierr.Internal("user_update_failed", err)
	}
	return us.accounts.byID(ctx, target.ID)
}

// Delete removes the row only. The user's folder and index stay on disk.
func (us *userService) Delete(ctx context.Context, id uint) error {
	target, err := us.accounts.byID(ctx, id)
	if err != nil {
		return err
	}
	if ctxutil.UserID(ctx) != target.ID {
		return apierr.Forbidden("forbidden", "You do not have permission to delete this user.")
	}
	n, err := us.userRepo.FullDeleteByIDs(dbctx.Context{Ctx: ctx}, []uint{target.ID})
	if err != nil {
		return apierr.Internal("user_delete_failed", err)
	}
	if n == 0 {
		return errUserNotFound
	}
	us.log.Info("user deleted", "user_id", target.ID)
	return nil
}

func (us *userService) ChangePassword(ctx context.Context, in ChangePasswordInput) (*types.User, error) {
	u, err := us.caller(ctx)
	if err != nil {
		return nil, err
	}
	if email := normalizeEmail(in.Email); email != "" && email != u.Email {
		return nil, apierr.BadRequest("email_mismatch", "Email does not match the authenticated user")
	}
	if !us.hasher.VerifyPassword(in.OldPassword, u.HashedPassword) {
		return nil, apierr.BadRequest("incorrect_password", "Old password is incorrect")
	}
	if in.NewPassword == "" {
		return nil, apierr.BadRequest("invalid_password", "Password is required")
	}
	hash, err := us.hasher.HashPassword(in.NewPassword)
	if err != nil {
		return nil, apierr.Internal("password_hash_failed", err)
	}
	if err := us.userRepo.UpdatePassword(dbctx.Context{Ctx: ctx}, u.ID, hash); err != nil {
		return nil, apierr.Internal("password_update_failed", err)
	}
	u.HashedPassword = hash
	us.log.Info("password changed", "user_id", u.ID)
	return u, nil
}
