package services

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/docqa-backend/internal/data/repos"
	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/apierr"
	"github.com/yungbote/docqa-backend/internal/platform/dbctx"
	"github.com/yungbote/docqa-backend/internal/platform/folderstore"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

const CredentialsErrorMessage = "Could not validate credentials"

var (
	errIncorrectLogin = apierr.BadRequest("incorrect_credentials", "Incorrect email or password")
	errInvalidReset   = apierr.BadRequest("invalid_token", "Invalid token")
	errUnauthorized   = apierr.Unauthorized("not_authenticated", CredentialsErrorMessage)
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, email, password string) (*types.User, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	Authenticate(ctx context.Context, accessToken string) (*types.User, error)
	AccessTTL() time.Duration
}

type authService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	tokens   TokenService
	hasher   PasswordHasher
	accounts *accounts
}

func NewAuthService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	folders folderstore.Store,
	tokens TokenService,
	hasher PasswordHasher,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:      serviceLog,
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		accounts: newAccounts(serviceLog, userRepo, folders, hasher),
	}
}

func (as *authService) AccessTTL() time.Duration { return as.tokens.AccessTTL() }

func (as *authService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := as.accounts.byEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			return "", errIncorrectLogin
		}
		return "", err
	}
	if !as.hasher.VerifyPassword(password, u.HashedPassword) {
		return "", errIncorrectLogin
	}
	token, err := as.tokens.IssueAccessToken(u.ID)
	if err != nil {
		return "", apierr.Internal("token_issue_failed", err)
	}
	as.log.Debug("login", "user_id", u.ID)
	return token, nil
}

func (as *authService) Signup(ctx context.Context, email, password string) (*types.User, error) {
	return as.accounts.create(ctx, email, password)
}

func (as *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := as.accounts.byEmail(ctx, email)
	if err != nil {
		return "", err
	}
	token, err := as.tokens.IssueResetToken(u.Email, u.HashedPassword)
	if err != nil {
		return "", apierr.Internal("token_issue_failed", err)
	}
	as.log.Info("password reset requested", "user_id", u.ID)
	return token, nil
}

// ResetPassword rejects tokens issued before the latest password change.
func (as *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	email, fingerprint, err := as.tokens.ParseResetToken(resetToken)
	if err != nil {
		return errInvalidReset
	}
	if newPassword == "" {
		return apierr.BadRequest("invalid_password", "Password is required")
	}
	u, err := as.accounts.byEmail(ctx, email)
	if err != nil {
		return err
	}
	if fingerprint != as.tokens.PasswordFingerprint(u.HashedPassword) {
		return errInvalidReset
	}
	hash, err := as.hasher.HashPassword(newPassword)
	if err != nil {
		return apierr.Internal("password_hash_failed", err)
	}
	if err := as.userRepo.UpdatePassword(dbctx.Context{Ctx: ctx}, u.ID, hash); err != nil {
		return apierr.Internal("password_update_failed", err)
	}
	as.log.Info("password reset", "user_id", u.ID)
	return nil
}

func (as *authService) Authenticate(ctx context.Context, accessToken string) (*types.User, error) {
	id, err := as.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return nil, errUnauthorized
	}
	u, err := as.accounts.byID(ctx, id)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			return nil, errUnauthorized
		}
		return nil, err
	}
	return u, nil
}
