package logger

import (
	"strings"
	"testing"
)

func TestRedactorMasksSensitiveKeys(t *testing.T) {
	r := &redactor{enabled: true, salt: "pepper"}

	out := r.kvs([]interface{}{
		"password", "hunter2",
		"access_token", "abc",
		"email", "a@b.c",
		"user_id", 42,
		"path", "/query",
	})

	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" || out[5] != "[REDACTED]" {
		t.Fatalf("sensitive values leaked: %v", out)
	}
	hashed, ok := out[7].(string)
	if !ok || !strings.HasPrefix(hashed, "hash:") || len(hashed) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %v", out[7])
	}
	if out[9] != "/query" {
		t.Fatalf("plain value changed: %v", out[9])
	}
}

func TestRedactorDetectsBareJWT(t *testing.T) {
	r := &redactor{enabled: true}
	jwtLike := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIiwiZXhwIjoxfQ.sig"

	out := r.kvs([]interface{}{"detail", jwtLike})
	if out[1] != "[REDACTED]" {
		t.Fatalf("jwt-like value not redacted: %v", out[1])
	}
}

func TestRedactorDisabledPassesThrough(t *testing.T) {
	r := &redactor{enabled: false}
	in := []interface{}{"password", "plain"}
	out := r.kvs(in)
	if out[1] != "plain" {
		t.Fatalf("expected passthrough, got %v", out[1])
	}
}

func TestRedactorOddKeyValues(t *testing.T) {
	r := &redactor{enabled: true}
	out := r.kvs([]interface{}{"status", 200, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestNewNopDoesNotPanic(t *testing.T) {
	log := NewNop()
	log.With("service", "Test").Info("hello", "token", "x")
	log.Sync()
}
