package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docudesk/config"
	"docudesk/core/access"
	"docudesk/core/auth"
	"docudesk/core/rbac"

	"github.com/sirupsen/logrus"
)

func claimsWith(t access.AccessType, approver, fileOwner bool) *auth.SessionClaims {
	return &auth.SessionClaims{
		Email:       "someone@example.com",
		AccessType:  t,
		IsApprover:  approver,
		IsFileOwner: fileOwner,
	}
}

func TestEvaluateRouteDecisions(t *testing.T) {
	table := DefaultRouteTable()
	cases := []struct {
		name    string
		claims  *auth.SessionClaims
		path    string
		devMode bool
		want    gateDecision
	}{
		{"no session", nil, "/dashboard", false, gateLogin},
		{"dashboard root always allowed", claimsWith(access.AccessUser, false, false), "/dashboard", false, gateAllow},
		{"approve needs approver", claimsWith(access.AccessUser, false, false), "/dashboard/approve", false, gateForbidden},
		{"approve with approver", claimsWith(access.AccessUser, true, false), "/dashboard/approve/queue", false, gateAllow},
		{"approver flag ignores access type", claimsWith(access.AccessModerator, false, false), "/dashboard/approve", false, gateForbidden},
		{"documents needs file owner", claimsWith(access.AccessAdmin, false, false), "/dashboard/documents", false, gateForbidden},
		{"documents with file owner", claimsWith(access.AccessUser, false, true), "/dashboard/documents/doc-1", false, gateAllow},
		{"files open to all access types", claimsWith(access.AccessUser, false, false), "/dashboard/files/root", false, gateAllow},
		{"audit denied to plain user", claimsWith(access.AccessUser, false, false), "/dashboard/audit", false, gateForbidden},
		{"audit allowed for auditor", claimsWith(access.AccessAuditor, false, false), "/dashboard/audit", false, gateAllow},
		{"settings moderator only", claimsWith(access.AccessAdmin, false, false), "/dashboard/settings", false, gateForbidden},
		{"settings for moderator", claimsWith(access.AccessModerator, false, false), "/dashboard/settings", false, gateAllow},
		{"error view always allowed", claimsWith(access.AccessUser, false, false), "/dashboard/error", false, gateAllow},
		{"unmapped path in production", claimsWith(access.AccessModerator, false, false), "/dashboard/beta", false, gateUnknown},
		{"unmapped path in dev mode", claimsWith(access.AccessUser, false, false), "/dashboard/beta", true, gateAllow},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := evaluateRoute(c.claims, c.path, table, c.devMode); got != c.want {
				t.Fatalf("evaluateRoute(%s) = %d, want %d", c.path, got, c.want)
			}
		})
	}
}

// The gate holds no state: the same token and table must produce the same
// decision however many times it runs.
func TestEvaluateRouteIsIdempotent(t *testing.T) {
	table := DefaultRouteTable()
	claims := claimsWith(access.AccessAdmin, false, false)
	first := evaluateRoute(claims, "/dashboard/settings", table, false)
	for i := 0; i < 50; i++ {
		if got := evaluateRoute(claims, "/dashboard/settings", table, false); got != first {
			t.Fatalf("decision drifted on iteration %d: %d != %d", i, got, first)
		}
	}
}

func newGateTestServer(t *testing.T, appEnv string) (*Server, *auth.TokenCodec) {
	t.Helper()
	cfg := &config.AppConfig{
		AppEnv:        appEnv,
		SessionSecret: "0123456789abcdef0123456789abcdef",
		SessionTTL:    time.Hour,
	}
	tokens := auth.NewTokenCodec(cfg)
	logger := logrus.New()
	s := NewServer(cfg, ServerDeps{
		Tokens:      tokens,
		Revocations: auth.NewRevocations(cfg.EffectiveSessionTTL()),
		Policy:      rbac.MustDefaultPolicy(),
	}, logger)
	return s, tokens
}

func gateRequest(t *testing.T, s *Server, tokens *auth.TokenCodec, claims *auth.SessionClaims, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if claims != nil {
		raw, err := tokens.Issue("u-1", claims)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: raw})
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	s, tokens := newGateTestServer(t, "production")
	rr := gateRequest(t, s, tokens, nil, "/dashboard/files")
	if rr.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected /login redirect, got %s", loc)
	}
}

func TestGateRedirectsDeniedToErrorView(t *testing.T) {
	s, tokens := newGateTestServer(t, "production")
	rr := gateRequest(t, s, tokens, claimsWith(access.AccessUser, false, false), "/dashboard/approve")
	if rr.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/dashboard/error?id=403" {
		t.Fatalf("expected 403 error redirect, got %s", loc)
	}
}

func TestGateAllowsApprover(t *testing.T) {
	s, tokens := newGateTestServer(t, "production")
	rr := gateRequest(t, s, tokens, claimsWith(access.AccessUser, true, false), "/dashboard/approve")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for approver, got %d", rr.Code)
	}
}

func TestGateRedirectsAdminDeniedByTable(t *testing.T) {
	s, tokens := newGateTestServer(t, "production")
	rr := gateRequest(t, s, tokens, claimsWith(access.AccessAdmin, false, false), "/dashboard/settings")
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/dashboard/error?id=403" {
		t.Fatalf("expected 403 error redirect, got %d %s", rr.Code, rr.Header().Get("Location"))
	}
}

func TestGateRedirectsUnmappedTo405(t *testing.T) {
	s, tokens := newGateTestServer(t, "production")
	rr := gateRequest(t, s, tokens, claimsWith(access.AccessUser, false, false), "/dashboard/beta")
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/dashboard/error?id=405" {
		t.Fatalf("expected 405 error redirect, got %d %s", rr.Code, rr.Header().Get("Location"))
	}
}

func TestGateAllowsUnmappedInDevMode(t *testing.T) {
	s, tokens := newGateTestServer(t, "dev")
	rr := gateRequest(t, s, tokens, claimsWith(access.AccessUser, false, false), "/dashboard/beta")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 in dev mode, got %d", rr.Code)
	}
}

func TestGateTreatsRevokedClaimsAsUnauthenticated(t *testing.T) {
	s, tokens := newGateTestServer(t, "production")
	raw, err := tokens.Issue("u-1", claimsWith(access.AccessModerator, false, false))
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // jwt iat has second precision
	s.revocations.Revoke("u-1")

	req := httptest.NewRequest(http.MethodGet, "/dashboard/files", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: raw})
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login" {
		t.Fatalf("expected login redirect for revoked claims, got %d %s", rr.Code, rr.Header().Get("Location"))
	}
}

// A capability pulled in the identity store stays effective for the token's
// remaining lifetime. That staleness is the accepted cost of gating from the
// token alone.
func TestGateHonorsStaleClaimsUntilRefresh(t *testing.T) {
	s, tokens := newGateTestServer(t, "production")
	// The store no longer considers u-1 an approver, but the token still does.
	rr := gateRequest(t, s, tokens, claimsWith(access.AccessUser, true, false), "/dashboard/approve")
	if rr.Code != http.StatusOK {
		t.Fatalf("stale approver claim should still pass the gate, got %d", rr.Code)
	}
}
