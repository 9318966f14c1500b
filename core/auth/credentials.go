package auth

import (
	"context"
	"errors"
	"strings"

	"docudesk/core/access"
	"docudesk/core/store"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("auth: invalid credentials")

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CredentialVerifier is the opaque "verify credentials, return user id or
// reject" collaborator in front of the enricher.
type CredentialVerifier struct {
	ids access.IdentityReader
}

func NewCredentialVerifier(ids access.IdentityReader) *CredentialVerifier {
	return &CredentialVerifier{ids: ids}
}

// Verify checks the password against the stored bcrypt hash and returns the
// user id. Missing users and wrong passwords are indistinguishable to callers.
func (v *CredentialVerifier) Verify(ctx context.Context, cred Credentials) (string, error) {
	email := strings.ToLower(strings.TrimSpace(cred.Email))
	if email == "" || cred.Password == "" {
		return "", ErrBadCredentials
	}
	user, err := v.ids.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if user.PasswordHash == "" {
		return "", ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cred.Password)) != nil {
		return "", ErrBadCredentials
	}
	return user.ID, nil
}

// HashPassword is used by provisioning and tests.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
