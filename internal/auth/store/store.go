package store

import (
	"context"
	"errors"

	"github.com/cobaltlabs/passport/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. The token services consume only the narrow
// Users sub-repository; "not found" is reported distinctly from transport
// failures so callers can tell an unknown user apart from a broken
// directory.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// WithTx executes a function within a transaction. If fn returns an
	// error, the transaction is rolled back; otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store scope.
type Tx interface {
	Users() Users
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID resolves the subject of a refresh token.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during password login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// SetUserActive flips the active flag and bumps updated_at.
	SetUserActive(ctx context.Context, userID string, active bool) error

	// SetUserVerified marks the account's email as verified.
	SetUserVerified(ctx context.Context, userID string) error

	// CountUsers returns the total number of directory entries.
	CountUsers(ctx context.Context) (int64, error)
}
