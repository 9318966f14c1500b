package api

import (
	"fmt"
	"os"
	"strings"

	"docudesk/core/access"

	"gopkg.in/yaml.v3"
)

const (
	dashboardRoot   = "/dashboard"
	approvePrefix   = "/dashboard/approve"
	documentsPrefix = "/dashboard/documents"
	errorPrefix     = "/dashboard/error"
)

// RouteRule maps one path prefix to the access types allowed under it. The
// gate walks rules in order and the first matching prefix wins; the approval
// queue and the owner-only documents area are capability-gated separately and
// never appear here.
type RouteRule struct {
	Prefix      string   `yaml:"prefix"`
	AccessTypes []string `yaml:"access_types"`
}

func (r RouteRule) allows(t access.AccessType) bool {
	for _, a := range r.AccessTypes {
		if a == string(t) {
			return true
		}
	}
	return false
}

// DefaultRouteTable matches the application's page layout: file explorer open
// to everyone, audit trail for auditors upward, admin console for admins and
// moderators, settings moderator-only.
func DefaultRouteTable() []RouteRule {
	everyone := []string{"user", "auditor", "admin", "moderator"}
	adminOnly := []string{"admin", "moderator"}
	return []RouteRule{
		{Prefix: "/dashboard/files", AccessTypes: everyone},
		{Prefix: "/dashboard/audit", AccessTypes: []string{"auditor", "admin", "moderator"}},
		{Prefix: "/dashboard/reports", AccessTypes: adminOnly},
		{Prefix: "/dashboard/admin", AccessTypes: adminOnly},
		{Prefix: "/dashboard/categories", AccessTypes: adminOnly},
		{Prefix: "/dashboard/users", AccessTypes: adminOnly},
		{Prefix: "/dashboard/compliance", AccessTypes: adminOnly},
		{Prefix: "/dashboard/settings", AccessTypes: []string{"moderator"}},
	}
}

// LoadRouteTable reads an ordered rule list from a YAML file, falling back to
// the built-in table when path is empty.
func LoadRouteTable(path string) ([]RouteRule, error) {
	if path == "" {
		return DefaultRouteTable(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read route table %s: %w", path, err)
	}
	var rules []RouteRule
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parse route table %s: %w", path, err)
	}
	if err := validateRouteTable(rules); err != nil {
		return nil, fmt.Errorf("route table %s: %w", path, err)
	}
	return rules, nil
}

func validateRouteTable(rules []RouteRule) error {
	for i, r := range rules {
		if !strings.HasPrefix(r.Prefix, "/") {
			return fmt.Errorf("rule %d: prefix %q must start with /", i, r.Prefix)
		}
		if r.Prefix == dashboardRoot {
			return fmt.Errorf("rule %d: the dashboard root is always allowed and must not be listed", i)
		}
		if len(r.AccessTypes) == 0 {
			return fmt.Errorf("rule %d (%s): empty access type list", i, r.Prefix)
		}
		for _, a := range r.AccessTypes {
			if _, ok := access.ParseAccessType(a); !ok {
				return fmt.Errorf("rule %d (%s): unknown access type %q", i, r.Prefix, a)
			}
		}
	}
	return nil
}
