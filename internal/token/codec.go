// Package token issues and validates the three kinds of signed credentials
// used by the API: short-lived access tokens, long-lived refresh tokens and
// email-action tokens for verification and password reset. Each purpose signs
// with its own secret, so a token minted for one purpose never validates
// under another.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose selects which secret and lifetime a token is bound to.
type Purpose string

const (
	PurposeAccess      Purpose = "access"
	PurposeRefresh     Purpose = "refresh"
	PurposeEmailAction Purpose = "email-action"
)

// ErrInvalid is returned for every parse failure: bad signature, malformed
// structure or expiry in the past. Callers must not be able to tell which.
var ErrInvalid = errors.New("invalid token")

// Config carries the per-purpose secrets and lifetimes.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	EmailSecret   []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	EmailTTL   time.Duration
}

// Codec signs and parses tokens. It is stateless; validity derives purely
// from secret, signature and expiry.
type Codec struct {
	secrets map[Purpose][]byte
	ttls    map[Purpose]time.Duration
	now     func() time.Time
}

// NewCodec constructs a Codec from per-purpose configuration.
func NewCodec(cfg Config) *Codec {
	return &Codec{
		secrets: map[Purpose][]byte{
			PurposeAccess:      cfg.AccessSecret,
			PurposeRefresh:     cfg.RefreshSecret,
			PurposeEmailAction: cfg.EmailSecret,
		},
		ttls: map[Purpose]time.Duration{
			PurposeAccess:      cfg.AccessTTL,
			PurposeRefresh:     cfg.RefreshTTL,
			PurposeEmailAction: cfg.EmailTTL,
		},
		now: time.Now,
	}
}

// TTL reports the configured lifetime for a purpose.
func (c *Codec) TTL(purpose Purpose) time.Duration {
	return c.ttls[purpose]
}

// Issue produces a signed token embedding the subject and an expiry of
// now plus the purpose's TTL.
func (c *Codec) Issue(subject string, purpose Purpose) (string, error) {
	secret, ok := c.secrets[purpose]
	if !ok || len(secret) == 0 {
		return "", errors.New("token: no secret configured for purpose " + string(purpose))
	}

	issuedAt := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttls[purpose])),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse verifies signature and expiry against the purpose's secret and
// returns the embedded subject. All failures surface as ErrInvalid.
func (c *Codec) Parse(tokenString string, purpose Purpose) (string, error) {
	secret, ok := c.secrets[purpose]
	if !ok || len(secret) == 0 {
		return "", ErrInvalid
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalid
	}
	return claims.Subject, nil
}
