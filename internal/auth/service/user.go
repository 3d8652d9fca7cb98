package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/cobaltlabs/passport/internal/auth/domain"
	"github.com/cobaltlabs/passport/internal/auth/store"
	"github.com/cobaltlabs/passport/pkg/cryptox"
	"github.com/cobaltlabs/passport/pkg/idx"
)

var (
	ErrEmailTaken      = errors.New("email_taken")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrWeakPassword    = errors.New("weak_password")
	ErrAlreadyVerified = errors.New("already_verified")
)

// MinPasswordLength is enforced at registration only; login accepts
// whatever was valid when the account was created.
const MinPasswordLength = 8

// UserService owns the directory's write path: account creation. The token
// service never mutates users.
type UserService struct {
	Store      store.Store
	BcryptCost int
}

// Register hashes the password and creates a new directory entry. New
// accounts start active and unverified.
func (s *UserService) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPasswordCost(password, s.BcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	return user, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// Verify marks the account's email as verified. The check and the flag flip
// run in one transaction so two concurrent calls cannot both succeed.
func (s *UserService) Verify(ctx context.Context, userID string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.Verified {
			return ErrAlreadyVerified
		}
		return tx.Users().SetUserVerified(ctx, userID)
	})
}
