package domain

import "time"

// User is the directory record the core authenticates against. The core
// only ever reads it; account lifecycle is owned by the directory side.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // bcrypt encoded
	Active       bool   // disabled accounts cannot log in
	Verified     bool   // unverified accounts are still allowed to log in
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
