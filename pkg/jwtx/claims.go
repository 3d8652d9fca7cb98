package jwtx

import (
	"time"

	"github.com/cobaltlabs/passport/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. These provide sensible security defaults but
// can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// TokenUse classifies what a signed token may be exchanged for. Access and
// refresh tokens share one signing mechanism and differ only in lifetime
// policy, so the class is carried as a claim and enforced at verify time.
type TokenUse string

const (
	UseAccess  TokenUse = "access"
	UseRefresh TokenUse = "refresh"
)

// Claims is the payload embedded in every issued token. The subject is the
// user id; everything else is timing metadata plus the token class.
type Claims struct {
	jwt.RegisteredClaims

	// TokenUse marks the token class ("access" or "refresh") so one kind
	// can never be silently presented as the other.
	TokenUse TokenUse `json:"token_use,omitempty"`
}

// newClaims builds minimally-correct claims for the given use. A zero or
// negative ttl with bounded=false omits the exp claim entirely (unbounded
// lifetime policy); with bounded=true the exp is still set, producing a
// token that is already expired.
func newClaims(subject string, use TokenUse, issuer string, ttl time.Duration, bounded bool, now time.Time) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        idx.New().String(),
		},
		TokenUse: use,
	}

	if bounded || ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return c
}
