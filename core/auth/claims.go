package auth

import (
	"strings"

	"docudesk/core/access"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the snapshot of derived authorization facts written into
// the session token at issuance or refresh. The route gate trusts these as-is;
// identity-store changes during the token's lifetime are not reflected until
// the next refresh.
type SessionClaims struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Picture     string            `json:"picture,omitempty"`
	IsOauth     bool              `json:"isOauth"`
	AccessType  access.AccessType `json:"accessType"`
	IsApprover  bool              `json:"isApprover"`
	IsFileOwner bool              `json:"isFileOwner"`
	jwt.RegisteredClaims
}

// UserID is the token subject.
func (c *SessionClaims) UserID() string {
	return c.Subject
}

// DisplayName renders "first last" with the first letters upper-cased.
func DisplayName(firstName, lastName string) string {
	return strings.TrimSpace(capitalize(firstName) + " " + capitalize(lastName))
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
