package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cobaltlabs/passport/internal/auth/domain"
	"github.com/cobaltlabs/passport/internal/auth/store"
	"github.com/cobaltlabs/passport/pkg/cryptox"
	"github.com/cobaltlabs/passport/pkg/jwtx"
	"github.com/cobaltlabs/passport/pkg/slogx"
)

var (
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountInactive    = errors.New("account_inactive")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// TokenService authenticates users by password and manages the token
// lifecycle. Every request is a stateless operation: nothing about issued
// tokens is kept server-side, so there is no revocation store and no
// per-user mutual exclusion.
type TokenService struct {
	Codec      *jwtx.Codec
	Store      store.Store
	AccessTTL  time.Duration
	RefreshTTL time.Duration // 0 means refresh tokens never expire
}

// PasswordLogin authenticates a (email, password) credential and issues a
// fresh token pair.
//
// The checks run in order: directory lookup, credential verification,
// account eligibility. Each failure maps to a distinct error kind; the HTTP
// layer is responsible for collapsing user-not-found and bad-password into
// one client-facing message so usernames cannot be enumerated. Directory
// transport failures propagate untranslated and must never be rendered as
// an authentication failure.
func (s *TokenService) PasswordLogin(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	// Same normalization as registration, so the credential that created
	// the account always logs in regardless of casing.
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("password verification failed", slog.String("user_id", user.ID))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Deactivated accounts cannot log in. Unverified accounts are allowed
	// through; verification gates features elsewhere, not authentication.
	if !user.Active {
		l.Info("login rejected for inactive account", slog.String("user_id", user.ID))
		return nil, ErrAccountInactive
	}

	return s.issuePair(user.ID, "")
}

// Refresh validates a refresh token and issues a new access token for the
// same subject. The original refresh token is echoed back unchanged: refresh
// tokens are long-lived and reusable until they naturally expire, there is
// no rotation.
//
// The account's active flag is deliberately not re-checked here; a
// deactivated account keeps its refresh capability until the refresh token
// expires. Deactivation plus immediate lock-out needs a revocation layer
// this design intentionally omits.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.Verify(refreshToken, jwtx.UseRefresh)
	if err != nil {
		l.Info("refresh token verification failed", slog.Any("err", err))
		return nil, ErrInvalidRefresh
	}

	subject := claims.Subject
	if subject == "" {
		return nil, ErrInvalidRefresh
	}

	// A token whose subject no longer resolves fails the same way as a bad
	// token; whether the id ever existed is not leaked.
	if _, err := s.Store.Users().GetUserByID(ctx, subject); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	return s.issuePair(subject, refreshToken)
}

// issuePair signs a new access token and, when reuseRefresh is empty, a new
// refresh token. A refresh token is only ever minted from a verified
// password login, never derived from another token's claims.
func (s *TokenService) issuePair(subject, reuseRefresh string) (*domain.TokenPair, error) {
	access, err := s.Codec.SignAccess(subject, s.AccessTTL)
	if err != nil {
		return nil, err
	}

	refresh := reuseRefresh
	if refresh == "" {
		refresh, err = s.Codec.SignRefresh(subject, s.RefreshTTL)
		if err != nil {
			return nil, err
		}
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}
