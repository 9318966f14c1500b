package api

import (
	"net/http"
	"time"

	"docudesk/config"
	"docudesk/core/access"
	"docudesk/core/auth"
	"docudesk/core/rbac"
	"docudesk/core/store"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type ServerDeps struct {
	Identity    *store.IdentityStore
	Admin       *store.AdminStore
	Audits      *store.AuditStore
	Resolver    *access.Resolver
	Enricher    *auth.Enricher
	Verifier    *auth.CredentialVerifier
	Tokens      *auth.TokenCodec
	Revocations *auth.Revocations
	Policy      *rbac.Policy
	RouteTable  []RouteRule
}

type Server struct {
	cfg          *config.AppConfig
	logger       *logrus.Logger
	router       chi.Router
	identity     *store.IdentityStore
	admin        *store.AdminStore
	audits       *store.AuditStore
	resolver     *access.Resolver
	enricher     *auth.Enricher
	verifier     *auth.CredentialVerifier
	tokens       *auth.TokenCodec
	revocations  *auth.Revocations
	policy       *rbac.Policy
	routeTable   []RouteRule
	loginLimiter *requestLimiter
}

func NewServer(cfg *config.AppConfig, deps ServerDeps, logger *logrus.Logger) *Server {
	table := deps.RouteTable
	if table == nil {
		table = DefaultRouteTable()
	}
	s := &Server{
		cfg:          cfg,
		logger:       logger,
		identity:     deps.Identity,
		admin:        deps.Admin,
		audits:       deps.Audits,
		resolver:     deps.Resolver,
		enricher:     deps.Enricher,
		verifier:     deps.Verifier,
		tokens:       deps.Tokens,
		revocations:  deps.Revocations,
		policy:       deps.Policy,
		routeTable:   table,
		loginLimiter: newLimiter(cfg.Security.LoginRateBurst, time.Minute),
	}
	s.router = chi.NewRouter()
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
