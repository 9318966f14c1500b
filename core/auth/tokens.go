package auth

import (
	"errors"
	"time"

	"docudesk/config"
	"docudesk/core/access"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every way a presented token can be bad: missing,
// malformed, expired, or carrying a wrong signature. Callers get no partial
// trust and no detail beyond "treat as unauthenticated".
var ErrTokenInvalid = errors.New("auth: invalid session token")

// TokenCodec signs and verifies the stateless session token.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(cfg *config.AppConfig) *TokenCodec {
	return &TokenCodec{
		secret: []byte(cfg.SessionSecret),
		ttl:    cfg.EffectiveSessionTTL(),
	}
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue stamps the claims with subject, validity window and a fresh JTI, then
// signs them with HS256.
func (c *TokenCodec) Issue(userID string, claims *SessionClaims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.Must(uuid.NewV4()).String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify parses and validates a presented token. Any failure collapses into
// ErrTokenInvalid.
func (c *TokenCodec) Verify(raw string) (*SessionClaims, error) {
	if raw == "" {
		return nil, ErrTokenInvalid
	}
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	if _, ok := access.ParseAccessType(string(claims.AccessType)); !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
