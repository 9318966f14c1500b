package api

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRouteTableFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	content := `
- prefix: /dashboard/files
  access_types: [user, auditor, admin, moderator]
- prefix: /dashboard/settings
  access_types: [moderator]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	rules, err := LoadRouteTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].Prefix != "/dashboard/files" || rules[1].Prefix != "/dashboard/settings" {
		t.Fatalf("rule order must be preserved: %+v", rules)
	}
}

func TestLoadRouteTableEmptyPathUsesDefaults(t *testing.T) {
	rules, err := LoadRouteTable("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if len(rules) == 0 {
		t.Fatalf("default table must not be empty")
	}
	if err := validateRouteTable(rules); err != nil {
		t.Fatalf("default table must validate: %v", err)
	}
}

func TestLoadRouteTableRejectsUnknownAccessType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	content := `
- prefix: /dashboard/files
  access_types: [superuser]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadRouteTable(path); err == nil {
		t.Fatalf("expected validation error for unknown access type")
	}
}

func TestLoadRouteTableRejectsDashboardRootEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	content := `
- prefix: /dashboard
  access_types: [user]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadRouteTable(path); err == nil {
		t.Fatalf("expected validation error for dashboard root entry")
	}
}
