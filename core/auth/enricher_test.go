package auth

import (
	"context"
	"errors"
	"testing"

	"docudesk/core/access"
	"docudesk/core/store"
)

// enricherFake implements access.IdentityReader with switchable failures per
// concern so degraded enrichment can be exercised.
type enricherFake struct {
	user            *store.User
	roleName        string
	memberships     []store.TeamMembership
	ownedCount      int
	linked          bool
	failMemberships bool
	failFiles       bool
	failLinked      bool
}

var errDown = errors.New("identity store down")

func (f *enricherFake) FindUserByEmail(_ context.Context, email string) (*store.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, store.ErrNotFound
}

func (f *enricherFake) FindUserByID(_ context.Context, id string) (*store.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, store.ErrNotFound
}

func (f *enricherFake) FindRoleName(_ context.Context, _ string) (string, error) {
	if f.roleName == "" {
		return "", store.ErrNotFound
	}
	return f.roleName, nil
}

func (f *enricherFake) ListTeamMemberships(_ context.Context, _ string) ([]store.TeamMembership, error) {
	if f.failMemberships {
		return nil, errDown
	}
	return f.memberships, nil
}

func (f *enricherFake) CountOwnedFiles(_ context.Context, _ string) (int, error) {
	if f.failFiles {
		return 0, errDown
	}
	return f.ownedCount, nil
}

func (f *enricherFake) FindFileOwner(_ context.Context, _ string) (string, error) {
	return "", store.ErrNotFound
}

func (f *enricherFake) HasLinkedAccount(_ context.Context, _ string) (bool, error) {
	if f.failLinked {
		return false, errDown
	}
	return f.linked, nil
}

func newEnricher(f *enricherFake) *Enricher {
	resolver := access.NewResolver(f, nil)
	return NewEnricher(f, resolver, nil)
}

func TestEnricherResolvesFullSnapshot(t *testing.T) {
	roleID := "r-1"
	f := &enricherFake{
		user:       &store.User{ID: "u-1", Email: "ada@example.com", FirstName: "ada", LastName: "lovelace", RoleID: &roleID, IsApprover: true},
		roleName:   "Moderator",
		ownedCount: 3,
		linked:     true,
	}
	claims, err := newEnricher(f).Resolve(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if claims.Name != "Ada Lovelace" {
		t.Fatalf("expected capitalized display name, got %q", claims.Name)
	}
	if claims.Email != "ada@example.com" {
		t.Fatalf("email mismatch: %q", claims.Email)
	}
	if claims.AccessType != access.AccessModerator {
		t.Fatalf("expected moderator access type, got %s", claims.AccessType)
	}
	if !claims.IsApprover || !claims.IsFileOwner || !claims.IsOauth {
		t.Fatalf("expected approver/fileOwner/oauth all true: %+v", claims)
	}
}

func TestEnricherRejectsMissingUser(t *testing.T) {
	if _, err := newEnricher(&enricherFake{}).Resolve(context.Background(), "ghost"); !errors.Is(err, ErrUserMissing) {
		t.Fatalf("expected ErrUserMissing, got %v", err)
	}
}

func TestEnricherDegradesFailedFieldsToSafeDefaults(t *testing.T) {
	f := &enricherFake{
		user:            &store.User{ID: "u-1", Email: "bob@example.com", FirstName: "bob", LastName: "gray", IsApprover: true},
		failMemberships: true,
		failFiles:       true,
		failLinked:      true,
	}
	claims, err := newEnricher(f).Resolve(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("degraded enrichment must not fail the login: %v", err)
	}
	if claims.AccessType != access.AccessUser {
		t.Fatalf("expected safe default access type, got %s", claims.AccessType)
	}
	if claims.IsFileOwner || claims.IsOauth {
		t.Fatalf("expected failed fields to default to false: %+v", claims)
	}
	// The approver flag reads straight off the user row, which was reachable.
	if !claims.IsApprover {
		t.Fatalf("reachable fields keep their real value")
	}
}
