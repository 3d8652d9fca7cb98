package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bounds for the configurable bcrypt work factor.
const (
	MinCost     = bcrypt.MinCost
	MaxCost     = bcrypt.MaxCost
	DefaultCost = 12
)

// ErrPasswordMismatch is returned when a password does not match its hash.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword generates a salted bcrypt hash of the password using the
// default work factor.
func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, DefaultCost)
}

// HashPasswordCost generates a salted bcrypt hash with an explicit work
// factor. Out-of-range costs fall back to DefaultCost.
func HashPasswordCost(password string, cost int) (string, error) {
	if password == "" {
		return "", errors.New("cryptox: password must not be empty")
	}
	if cost < MinCost || cost > MaxCost {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
// Timing characteristics are delegated to bcrypt itself, which is
// equal-cost for matching and non-matching inputs.
func VerifyPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("cryptox: failed to compare password: %w", err)
	}
	return nil
}
