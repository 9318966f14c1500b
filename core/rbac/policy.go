package rbac

import (
	"fmt"

	"docudesk/core/access"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Permission string

const (
	PermAppView      Permission = "app.view"
	PermAccountsView Permission = "accounts.view"
	PermAccountsEdit Permission = "accounts.manage"
	PermAuditView    Permission = "audit.view"
	PermClaimsRevoke Permission = "claims.revoke"
)

const modelText = `
[request_definition]
r = sub, perm

[policy_definition]
p = sub, perm

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.perm == p.perm
`

// Grant maps one access type to one permission.
type Grant struct {
	AccessType access.AccessType
	Permission Permission
}

// DefaultGrants mirrors the admin-area split of the route table: admins and
// moderators manage accounts, auditors additionally read the audit trail.
func DefaultGrants() []Grant {
	grants := []Grant{
		{access.AccessAuditor, PermAuditView},
	}
	for _, t := range []access.AccessType{access.AccessAdmin, access.AccessModerator} {
		grants = append(grants,
			Grant{t, PermAccountsView},
			Grant{t, PermAccountsEdit},
			Grant{t, PermAuditView},
			Grant{t, PermClaimsRevoke},
		)
	}
	for _, t := range []access.AccessType{access.AccessUser, access.AccessAuditor, access.AccessAdmin, access.AccessModerator} {
		grants = append(grants, Grant{t, PermAppView})
	}
	return grants
}

// Policy answers permission checks for the JSON API. Dashboard page routing is
// the gate's ordered table; this covers only the API surface behind it.
type Policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy(grants []Grant) (*Policy, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}
	for _, g := range grants {
		if _, err := e.AddPolicy(string(g.AccessType), string(g.Permission)); err != nil {
			return nil, fmt.Errorf("rbac policy %s/%s: %w", g.AccessType, g.Permission, err)
		}
	}
	return &Policy{enforcer: e}, nil
}

func MustDefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultGrants())
	if err != nil {
		panic(err)
	}
	return p
}

// Allowed fails closed on enforcer errors.
func (p *Policy) Allowed(t access.AccessType, perm Permission) bool {
	if p == nil || p.enforcer == nil {
		return false
	}
	ok, err := p.enforcer.Enforce(string(t), string(perm))
	if err != nil {
		return false
	}
	return ok
}
