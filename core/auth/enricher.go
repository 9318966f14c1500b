package auth

import (
	"context"
	"errors"

	"docudesk/core/access"
	"docudesk/core/store"

	"github.com/sirupsen/logrus"
)

// ErrUserMissing aborts the enrichment cycle: a verified credential for a user
// that no longer exists rejects the whole login.
var ErrUserMissing = errors.New("auth: user not found")

// Enricher turns a verified user id into the claim snapshot carried by the
// session token. It runs at login and at token refresh only; per-request
// authorization trusts the token instead.
type Enricher struct {
	ids      access.IdentityReader
	resolver *access.Resolver
	logger   *logrus.Logger
}

func NewEnricher(ids access.IdentityReader, resolver *access.Resolver, logger *logrus.Logger) *Enricher {
	return &Enricher{ids: ids, resolver: resolver, logger: logger}
}

// Resolve builds the claims for a verified user. A missing user rejects the
// cycle; any resolver-level failure degrades that one field to its safe
// default so a flaky store cannot block authentication outright.
func (e *Enricher) Resolve(ctx context.Context, userID string) (*SessionClaims, error) {
	user, err := e.ids.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && e.logger != nil {
			e.logger.Errorf("ENRICH fail user=%s: %v", userID, err)
		}
		return nil, ErrUserMissing
	}
	return &SessionClaims{
		Name:        DisplayName(user.FirstName, user.LastName),
		Email:       user.Email,
		Picture:     user.Image,
		IsOauth:     e.resolver.HasLinkedAccount(ctx, userID),
		AccessType:  e.resolver.AccessTypeOf(ctx, userID),
		IsApprover:  e.resolver.IsApprover(ctx, userID),
		IsFileOwner: e.resolver.IsFileOwner(ctx, userID),
	}, nil
}
