package domain

import "time"

// TokenPair is what the token endpoint returns: the short-lived access token
// and the long-lived refresh token, both signed JWTs. ExpiresIn refers to
// the access token only; the HTTP layer renders it in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // typically "Bearer"
	ExpiresIn    time.Duration
}
