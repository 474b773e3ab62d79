package services

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	hash, err := h.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash equals plaintext")
	}
	if !h.VerifyPassword("s3cret", hash) {
		t.Fatalf("VerifyPassword: expected match")
	}
	if h.VerifyPassword("wrong", hash) {
		t.Fatalf("VerifyPassword: expected mismatch")
	}
}

func TestBcryptAcceptsLongPasswords(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	long := strings.Repeat("p", 80)
	hash, err := h.HashPassword(long)
	if err != nil {
		t.Fatalf("HashPassword(80 bytes): %v", err)
	}
	if !h.VerifyPassword(long, hash) {
		t.Fatalf("VerifyPassword: expected match")
	}
	if h.VerifyPassword(strings.Repeat("p", 79)+"q", hash) {
		t.Fatalf("VerifyPassword: bytes past 72 must count")
	}

	exact := strings.Repeat("x", 72)
	hash, err = h.HashPassword(exact)
	if err != nil {
		t.Fatalf("HashPassword(72 bytes): %v", err)
	}
	if !h.VerifyPassword(exact, hash) {
		t.Fatalf("VerifyPassword(72 bytes): expected match")
	}
}

func TestVerifyPasslibPBKDF2(t *testing.T) {
	// passlib.hash.pbkdf2_sha256.using(rounds=1000, salt=b"saltsaltsalt1234").hash("hunter2")
	const legacy = "$pbkdf2-sha256$1000$c2FsdHNhbHRzYWx0MTIzNA$fIKZdZ7B5XJPx7My3DohkKloWvdeNcMNXs3u1sIBy.Q"
	h := NewPasswordHasher(bcrypt.MinCost)
	if !h.VerifyPassword("hunter2", legacy) {
		t.Fatalf("legacy hash should verify")
	}
	if h.VerifyPassword("hunter3", legacy) {
		t.Fatalf("legacy hash accepted wrong password")
	}
	for _, bad := range []string{
		"$pbkdf2-sha256$x$c2FsdA$AAAA",
		"$pbkdf2-sha256$1000$c2FsdA",
		"$pbkdf2-sha256$1000$!!$AAAA",
	} {
		if h.VerifyPassword("hunter2", bad) {
			t.Fatalf("malformed hash %q accepted", bad)
		}
	}
}
