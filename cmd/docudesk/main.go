package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docudesk/api"
	"docudesk/config"
	"docudesk/core/access"
	"docudesk/core/auth"
	"docudesk/core/rbac"
	"docudesk/core/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(os.Getenv("DOCUDESK_CONFIG"))
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	db, err := store.NewDB(cfg)
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := store.ApplyMigrations(cfg, db); err != nil {
		logger.Fatalf("migrations: %v", err)
	}

	identity := store.NewIdentityStore(db)
	admin := store.NewAdminStore(db)
	audits := store.NewAuditStore(db)
	resolver := access.NewResolver(identity, logger)
	enricher := auth.NewEnricher(identity, resolver, logger)
	verifier := auth.NewCredentialVerifier(identity)
	tokens := auth.NewTokenCodec(cfg)
	revocations := auth.NewRevocations(cfg.EffectiveSessionTTL())
	revocations.StartPruning()
	defer revocations.StopPruning()

	routeTable, err := api.LoadRouteTable(cfg.RouteTablePath)
	if err != nil {
		logger.Fatalf("route table: %v", err)
	}

	server := api.NewServer(cfg, api.ServerDeps{
		Identity:    identity,
		Admin:       admin,
		Audits:      audits,
		Resolver:    resolver,
		Enricher:    enricher,
		Verifier:    verifier,
		Tokens:      tokens,
		Revocations: revocations,
		Policy:      rbac.MustDefaultPolicy(),
		RouteTable:  routeTable,
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Printf("listening on %s (env=%s)", cfg.ListenAddr, cfg.AppEnv)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
