package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

func TestTokens_RoundTrip(t *testing.T) {
	tok, err := NewTokens("s3cret", time.Hour, "vidshare")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	raw, err := tok.Issue("u1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	p, err := tok.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.UserID != "u1" || !p.IsAdmin() {
		t.Errorf("principal = %+v", p)
	}
}

func TestTokens_Expired(t *testing.T) {
	tok, _ := NewTokens("s3cret", time.Minute, "vidshare")
	raw, _ := tok.Issue("u1", domain.RoleUser)

	tok.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := tok.Verify(raw); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokens_WrongSecret(t *testing.T) {
	a, _ := NewTokens("one", time.Hour, "vidshare")
	b, _ := NewTokens("two", time.Hour, "vidshare")
	raw, _ := a.Issue("u1", domain.RoleUser)

	if _, err := b.Verify(raw); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokens_RejectsNoneAlgorithm(t *testing.T) {
	tok, _ := NewTokens("s3cret", time.Hour, "vidshare")
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Issuer: "vidshare"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tok.Verify(raw); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokens_UnknownRoleDowngraded(t *testing.T) {
	tok, _ := NewTokens("s3cret", time.Hour, "vidshare")
	raw, _ := tok.Issue("u1", domain.Role("root"))

	p, err := tok.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.Role != domain.RoleUser {
		t.Errorf("role = %q", p.Role)
	}
}

func TestNewTokens_Validation(t *testing.T) {
	if _, err := NewTokens("", time.Hour, ""); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewTokens("x", 0, ""); err == nil {
		t.Error("expected error for zero ttl")
	}
}

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("123456")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "123456" {
		t.Fatal("hash equals plain text")
	}

	ok, err := h.Compare(hash, "123456")
	if err != nil || !ok {
		t.Errorf("match: ok=%v err=%v", ok, err)
	}
	ok, err = h.Compare(hash, "654321")
	if err != nil || ok {
		t.Errorf("mismatch: ok=%v err=%v", ok, err)
	}
	if _, err := h.Compare("not-a-hash", "x"); err == nil {
		t.Error("expected error for malformed hash")
	}
}
