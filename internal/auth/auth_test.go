package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lalith-99/pocketchat/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("u1", "alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.ParseToken(token, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != auth.Issuer {
		t.Errorf("expected issuer %q, got %q", auth.Issuer, claims.Issuer)
	}
}

func TestParseTokenRejects(t *testing.T) {
	valid, _ := auth.GenerateToken("u1", "alice", secret, time.Hour)
	expired, _ := auth.GenerateToken("u1", "alice", secret, -time.Minute)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    auth.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	otherIssuer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other-secret"},
		{"expired", expired, secret},
		{"alg none", noneToken, secret},
		{"other issuer", otherIssuer, secret},
		{"garbage", "not.a.token", secret},
		{"empty", "", secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.ParseToken(tt.token, tt.secret); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPasswordHasher(t *testing.T) {
	h := auth.NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	if err := h.Compare(hash, "s3cret"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, auth.ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := h.Compare("", "s3cret"); !errors.Is(err, auth.ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch for empty hash, got %v", err)
	}

	other, _ := h.Hash("s3cret")
	if other == hash {
		t.Error("expected distinct salts for the same password")
	}
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	h := auth.NewPasswordHasher(100)
	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("expected default cost, got %d", cost)
	}
}
