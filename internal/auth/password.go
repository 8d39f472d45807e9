package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by Compare when the password does not
// match the hash.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher hashes and checks passwords with bcrypt.
//
// bcrypt salts every hash, so two users with the same password still get
// different hashes, and CompareHashAndPassword runs in constant time.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost. Values outside bcrypt's
// range fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{cost: cost}
}

// DefaultHasher uses bcrypt.DefaultCost.
func DefaultHasher() PasswordHasher {
	return NewPasswordHasher(bcrypt.DefaultCost)
}

func (h PasswordHasher) Hash(password string) (string, error) {
	cost := h.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Compare returns nil if password matches hash and ErrPasswordMismatch if
// it does not. An empty or malformed hash also yields ErrPasswordMismatch.
func (h PasswordHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) ||
		errors.Is(err, bcrypt.ErrHashTooShort) {
		return ErrPasswordMismatch
	}
	return fmt.Errorf("compare password: %w", err)
}
