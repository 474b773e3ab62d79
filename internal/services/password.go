package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2SHA256Prefix = "$pbkdf2-sha256$"
	bcryptMaxInput     = 72
)

type PasswordHasher interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
}

type passwordHasher struct {
	cost int
}

// NewPasswordHasher hashes with bcrypt. A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &passwordHasher{cost: cost}
}

func (h *passwordHasher) HashPassword(plain string) (string, error) {
	raw, err := bcrypt.GenerateFromPassword(bcryptInput(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(raw), nil
}

// VerifyPassword accepts bcrypt hashes and passlib pbkdf2_sha256 hashes.
func (h *passwordHasher) VerifyPassword(plain, hash string) bool {
	if strings.HasPrefix(hash, pbkdf2SHA256Prefix) {
		return verifyPBKDF2SHA256(plain, hash)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(plain)) == nil
}

// bcryptInput passes short passwords through and folds longer ones to a SHA-256 digest,
// so every byte of a long password counts and bcrypt's 72 byte limit is never hit.
func bcryptInput(plain string) []byte {
	if len(plain) <= bcryptMaxInput {
		return []byte(plain)
	}
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// verifyPBKDF2SHA256 checks "$pbkdf2-sha256$<rounds>$<salt>$<checksum>" where salt and checksum
// use passlib's base64 variant ('.' instead of '+', no padding).
func verifyPBKDF2SHA256(plain, hash string) bool {
	parts := strings.Split(strings.TrimPrefix(hash, pbkdf2SHA256Prefix), "$")
	if len(parts) != 3 {
		return false
	}
	rounds, err := strconv.Atoi(parts[0])
	if err != nil || rounds <= 0 {
		return false
	}
	salt, err := decodeAB64(parts[1])
	if err != nil {
		return false
	}
	want, err := decodeAB64(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(plain), salt, rounds, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func decodeAB64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}
