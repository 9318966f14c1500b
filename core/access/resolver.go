package access

import (
	"context"
	"errors"

	"docudesk/core/store"

	"github.com/sirupsen/logrus"
)

// IdentityReader is the read-only identity contract the resolver depends on.
// *store.IdentityStore satisfies it; tests substitute an in-memory fake.
type IdentityReader interface {
	FindUserByEmail(ctx context.Context, email string) (*store.User, error)
	FindUserByID(ctx context.Context, id string) (*store.User, error)
	FindRoleName(ctx context.Context, roleID string) (string, error)
	ListTeamMemberships(ctx context.Context, userID string) ([]store.TeamMembership, error)
	CountOwnedFiles(ctx context.Context, userID string) (int, error)
	FindFileOwner(ctx context.Context, fileID string) (string, error)
	HasLinkedAccount(ctx context.Context, userID string) (bool, error)
}

// Resolver computes derived authorization facts about a user. Every function
// fails closed: a missing row or a store error resolves to the
// least-privileged answer, never to an error the caller must handle.
type Resolver struct {
	ids    IdentityReader
	logger *logrus.Logger
}

func NewResolver(ids IdentityReader, logger *logrus.Logger) *Resolver {
	return &Resolver{ids: ids, logger: logger}
}

// RoleOf resolves the user's role kind; absent user, absent role reference or
// an unknown role name all resolve to RoleNone.
func (r *Resolver) RoleOf(ctx context.Context, userID string) RoleKind {
	user, err := r.ids.FindUserByID(ctx, userID)
	if err != nil {
		r.warn(err, "resolve role: user lookup failed", userID)
		return RoleNone
	}
	if user.RoleID == nil {
		return RoleNone
	}
	name, err := r.ids.FindRoleName(ctx, *user.RoleID)
	if err != nil {
		r.warn(err, "resolve role: role lookup failed", userID)
		return RoleNone
	}
	return roleKindFromName(name)
}

// RoleNameOf is the display variant of RoleOf; users without a role read as
// plain "User".
func (r *Resolver) RoleNameOf(ctx context.Context, userID string) string {
	kind := r.RoleOf(ctx, userID)
	if kind == RoleNone {
		return "User"
	}
	return kind.String()
}

func (r *Resolver) IsAnyTeamAdmin(ctx context.Context, userID string) bool {
	memberships, err := r.ids.ListTeamMemberships(ctx, userID)
	if err != nil {
		r.warn(err, "resolve team admin: membership lookup failed", userID)
		return false
	}
	for _, m := range memberships {
		if m.IsAdmin {
			return true
		}
	}
	return false
}

func (r *Resolver) IsApprover(ctx context.Context, userID string) bool {
	user, err := r.ids.FindUserByID(ctx, userID)
	if err != nil {
		r.warn(err, "resolve approver: user lookup failed", userID)
		return false
	}
	return user.IsApprover
}

// IsFileOwner reports whether the user owns at least one file.
func (r *Resolver) IsFileOwner(ctx context.Context, userID string) bool {
	n, err := r.ids.CountOwnedFiles(ctx, userID)
	if err != nil {
		r.warn(err, "resolve file owner: count failed", userID)
		return false
	}
	return n > 0
}

// IsOwnerOfFile reports whether the user owns the one given file. A global
// file owner still gets false for a file somebody else owns.
func (r *Resolver) IsOwnerOfFile(ctx context.Context, userID, fileID string) bool {
	owner, err := r.ids.FindFileOwner(ctx, fileID)
	if err != nil {
		r.warn(err, "resolve file owner: owner lookup failed", userID)
		return false
	}
	return owner == userID
}

// AccessTypeOf derives the coarse routing category with fixed precedence:
// a Moderator role wins outright, any team-admin membership ranks next, then
// the plain User and Auditor roles, and everything else falls back to "user".
// A role literally named "Admin" does not take part in the chain; the admin
// access type is earned only through team-admin membership.
func (r *Resolver) AccessTypeOf(ctx context.Context, userID string) AccessType {
	role := r.RoleOf(ctx, userID)
	switch {
	case role == RoleModerator:
		return AccessModerator
	case r.IsAnyTeamAdmin(ctx, userID):
		return AccessAdmin
	case role == RoleUser:
		return AccessUser
	case role == RoleAuditor:
		return AccessAuditor
	default:
		return AccessUser
	}
}

// One-off role checks used outside the access-type chain.

func (r *Resolver) IsUser(ctx context.Context, userID string) bool {
	return r.RoleOf(ctx, userID) == RoleUser
}

func (r *Resolver) IsAuditor(ctx context.Context, userID string) bool {
	return r.RoleOf(ctx, userID) == RoleAuditor
}

func (r *Resolver) IsModerator(ctx context.Context, userID string) bool {
	return r.RoleOf(ctx, userID) == RoleModerator
}

func (r *Resolver) IsAdmin(ctx context.Context, userID string) bool {
	return r.RoleOf(ctx, userID) == RoleAdmin
}

func (r *Resolver) IsDistributor(ctx context.Context, userID string) bool {
	return r.RoleOf(ctx, userID) == RoleDistributor
}

// HasLinkedAccount reports whether an external identity-provider account is
// tied to the user.
func (r *Resolver) HasLinkedAccount(ctx context.Context, userID string) bool {
	ok, err := r.ids.HasLinkedAccount(ctx, userID)
	if err != nil {
		r.warn(err, "resolve linked account: lookup failed", userID)
		return false
	}
	return ok
}

// warn logs real store failures; plain absence is a valid outcome and stays
// quiet.
func (r *Resolver) warn(err error, msg, userID string) {
	if r.logger == nil || errors.Is(err, store.ErrNotFound) {
		return
	}
	r.logger.Errorf("%s (user=%s): %v", msg, userID, err)
}
