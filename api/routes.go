package api

import (
	"net/http"

	"docudesk/api/handlers"
	"docudesk/core/rbac"

	"github.com/go-chi/chi/v5"
)

func (s *Server) registerRoutes() {
	authHandler := handlers.NewAuthHandler(s.cfg, s.verifier, s.enricher, s.tokens, s.audits, s.logger)
	accounts := handlers.NewAccountsHandler(s.admin, s.revocations, s.audits, s.logger)
	audit := handlers.NewAuditHandler(s.audits)
	pages := handlers.NewPageHandler()

	s.router.Use(s.recoverMiddleware, s.securityHeadersMiddleware, s.loggingMiddleware)

	// Allowlisted surface: no session required.
	s.router.Get("/login", pages.Login)
	s.router.Get("/favicon.ico", pages.NotFound)
	s.router.Get("/static/*", pages.Static)
	s.router.Post("/api/auth/login", s.rateLimitMiddleware(authHandler.Login))
	s.router.Post("/api/auth/logout", authHandler.Logout)

	// JSON API: token required, casbin policy per route.
	s.router.Post("/api/auth/refresh", s.withSession(authHandler.Refresh))
	s.router.Get("/api/auth/me", s.withSession(authHandler.Me))
	s.router.Get("/api/users", s.withSession(s.requirePermission(rbac.PermAccountsView)(accounts.List)))
	s.router.Put("/api/users/{id}/role", s.withSession(s.requirePermission(rbac.PermAccountsEdit)(accounts.SetRole)))
	s.router.Put("/api/users/{id}/approver", s.withSession(s.requirePermission(rbac.PermAccountsEdit)(accounts.SetApprover)))
	s.router.Post("/api/users/{id}/claims/refresh", s.withSession(s.requirePermission(rbac.PermClaimsRevoke)(accounts.RevokeClaims)))
	s.router.Get("/api/audit", s.withSession(s.requirePermission(rbac.PermAuditView)(audit.Recent)))

	// Dashboard pages sit behind the route gate; the pages themselves are
	// rendered elsewhere, the gate only decides access.
	s.router.Group(func(r chi.Router) {
		r.Use(s.routeGate)
		r.Get("/dashboard", pages.Dashboard)
		r.Get("/dashboard/*", pages.Dashboard)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
}
