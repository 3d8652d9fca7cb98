package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed     = errors.New("jwtx: malformed token")
	ErrAlgMismatch   = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig    = errors.New("jwtx: invalid signature")
	ErrExpired       = errors.New("jwtx: token expired")
	ErrNotYetValid   = errors.New("jwtx: token not yet valid")
	ErrWrongTokenUse = errors.New("jwtx: wrong token use")
	ErrInvalidClaims = errors.New("jwtx: invalid claims")
)

// Config carries everything the codec needs. It is passed explicitly at
// construction time so tests can run isolated codecs with distinct secrets
// rather than sharing process-wide signing state.
type Config struct {
	// Secret is the HMAC signing key shared by sign and verify.
	Secret []byte

	// Algorithm selects the HMAC variant: HS256 (default), HS384 or HS512.
	Algorithm string

	// Issuer is stamped into the iss claim and enforced on verify when set.
	Issuer string

	// Leeway allows small clock skew when validating exp/nbf/iat.
	Leeway time.Duration
}

// Codec signs and verifies the service's tokens. Both token classes use the
// same mechanism; SignRefresh differs from SignAccess only in lifetime
// policy and the token_use claim.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	issuer string

	accessParser  *jwt.Parser
	refreshParser *jwt.Parser
}

// NewCodec validates the config and builds a ready-to-use codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwtx: signing secret must not be empty")
	}

	alg := cfg.Algorithm
	if alg == "" {
		alg = "HS256"
	}

	var method jwt.SigningMethod
	switch alg {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("jwtx: unsupported signing algorithm %q", alg)
	}

	common := []jwt.ParserOption{
		jwt.WithValidMethods([]string{alg}),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		common = append(common, jwt.WithIssuer(cfg.Issuer))
	}

	// Access tokens must always expire. Refresh tokens may legitimately
	// carry no exp claim when the configured policy is unbounded.
	accessOpts := append([]jwt.ParserOption{jwt.WithExpirationRequired()}, common...)

	return &Codec{
		secret:        cfg.Secret,
		method:        method,
		issuer:        cfg.Issuer,
		accessParser:  jwt.NewParser(accessOpts...),
		refreshParser: jwt.NewParser(common...),
	}, nil
}

// SignAccess issues a short-lived access token. The exp claim is always
// present: a zero or negative ttl produces a token that fails verification
// immediately.
func (c *Codec) SignAccess(subject string, ttl time.Duration) (string, error) {
	return c.sign(newClaims(subject, UseAccess, c.issuer, ttl, true, time.Now().UTC()))
}

// SignRefresh issues a long-lived refresh token. A ttl of zero (or less)
// means the configured policy is "no fixed expiry" and the exp claim is
// omitted.
func (c *Codec) SignRefresh(subject string, ttl time.Duration) (string, error) {
	return c.sign(newClaims(subject, UseRefresh, c.issuer, ttl, false, time.Now().UTC()))
}

func (c *Codec) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(c.method, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature integrity, expiry and token class, returning the
// embedded claims on success. Claims are never trusted before this passes.
func (c *Codec) Verify(tokenString string, use TokenUse) (Claims, error) {
	var claims Claims

	parser := c.accessParser
	if use == UseRefresh {
		parser = c.refreshParser
	}

	keyFunc := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return c.secret, nil
	}

	token, err := parser.ParseWithClaims(tokenString, &claims, keyFunc)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidClaims
	}

	if claims.TokenUse != use {
		return Claims{}, ErrWrongTokenUse
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	default:
		return ErrInvalidClaims
	}
}
