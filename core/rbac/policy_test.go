package rbac

import (
	"testing"

	"docudesk/core/access"
)

func TestDefaultGrants(t *testing.T) {
	p := MustDefaultPolicy()
	cases := []struct {
		accessType access.AccessType
		perm       Permission
		want       bool
	}{
		{access.AccessUser, PermAppView, true},
		{access.AccessUser, PermAccountsView, false},
		{access.AccessUser, PermAuditView, false},
		{access.AccessAuditor, PermAuditView, true},
		{access.AccessAuditor, PermAccountsEdit, false},
		{access.AccessAdmin, PermAccountsEdit, true},
		{access.AccessAdmin, PermClaimsRevoke, true},
		{access.AccessModerator, PermAccountsEdit, true},
		{access.AccessModerator, PermAuditView, true},
	}
	for _, c := range cases {
		if got := p.Allowed(c.accessType, c.perm); got != c.want {
			t.Fatalf("Allowed(%s, %s) = %v, want %v", c.accessType, c.perm, got, c.want)
		}
	}
}

func TestUnknownSubjectDenied(t *testing.T) {
	p := MustDefaultPolicy()
	if p.Allowed(access.AccessType("superuser"), PermAppView) {
		t.Fatalf("unknown access type must be denied")
	}
}

func TestNilPolicyFailsClosed(t *testing.T) {
	var p *Policy
	if p.Allowed(access.AccessAdmin, PermAppView) {
		t.Fatalf("nil policy must deny")
	}
}
