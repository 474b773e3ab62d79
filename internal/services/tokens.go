package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

const (
	tokenTypeAccess = "access"
	tokenTypeReset  = "reset"
)

// ErrInvalidToken covers every token failure: bad signature, expiry, wrong type, malformed claims.
var ErrInvalidToken = errors.New("invalid token")

type TokenConfig struct {
	Secret    string
	Algorithm string
	AccessTTL time.Duration
	ResetTTL  time.Duration
}

type TokenService interface {
	IssueAccessToken(userID uint) (string, error)
	ParseAccessToken(token string) (uint, error)
	IssueResetToken(email, passwordHash string) (string, error)
	ParseResetToken(token string) (email, fingerprint string, err error)
	PasswordFingerprint(passwordHash string) string
	AccessTTL() time.Duration
}

type tokenService struct {
	log    *logger.Logger
	secret []byte
	method jwt.SigningMethod
	access time.Duration
	reset  time.Duration
	now    func() time.Time
}

type accessClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

type resetClaims struct {
	Email       string `json:"email"`
	Type        string `json:"typ"`
	Fingerprint string `json:"pwh"`
	jwt.RegisteredClaims
}

func NewTokenService(log *logger.Logger, cfg TokenConfig) (TokenService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	alg := strings.ToUpper(strings.TrimSpace(cfg.Algorithm))
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.Algorithm)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 30 * time.Minute
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = 15 * time.Minute
	}
	return &tokenService{
		log:    log.With("service", "TokenService"),
		secret: []byte(cfg.Secret),
		method: method,
		access: cfg.AccessTTL,
		reset:  cfg.ResetTTL,
		now:    time.Now,
	}, nil
}

func (ts *tokenService) AccessTTL() time.Duration { return ts.access }

func (ts *tokenService) IssueAccessToken(userID uint) (string, error) {
	now := ts.now().UTC()
	claims := accessClaims{
		Type: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.access)),
		},
	}
	signed, err := jwt.NewWithClaims(ts.method, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (ts *tokenService) ParseAccessToken(token string) (uint, error) {
	var claims accessClaims
	if err := ts.parse(token, &claims); err != nil {
		return 0, err
	}
	if claims.Type != tokenTypeAccess {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// IssueResetToken binds the token to the current password hash so it stops working once the password changes.
func (ts *tokenService) IssueResetToken(email, passwordHash string) (string, error) {
	now := ts.now().UTC()
	claims := resetClaims{
		Email:       email,
		Type:        tokenTypeReset,
		Fingerprint: ts.PasswordFingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.reset)),
		},
	}
	signed, err := jwt.NewWithClaims(ts.method, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

func (ts *tokenService) ParseResetToken(token string) (string, string, error) {
	var claims resetClaims
	if err := ts.parse(token, &claims); err != nil {
		return "", "", err
	}
	if claims.Type != tokenTypeReset || strings.TrimSpace(claims.Email) == "" || claims.Fingerprint == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Email, claims.Fingerprint, nil
}

func (ts *tokenService) PasswordFingerprint(passwordHash string) string {
	mac := hmac.New(sha256.New, ts.secret)
	mac.Write([]byte(passwordHash))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16])
}

func (ts *tokenService) parse(token string, claims jwt.Claims) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return ts.secret, nil },
		jwt.WithValidMethods([]string{ts.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		ts.log.Debug("token rejected", "error", err)
		return ErrInvalidToken
	}
	return nil
}
