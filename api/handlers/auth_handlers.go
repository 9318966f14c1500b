package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"docudesk/config"
	"docudesk/core/auth"
	"docudesk/core/store"

	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	cfg      *config.AppConfig
	verifier *auth.CredentialVerifier
	enricher *auth.Enricher
	tokens   *auth.TokenCodec
	audits   *store.AuditStore
	logger   *logrus.Logger
}

func NewAuthHandler(cfg *config.AppConfig, verifier *auth.CredentialVerifier, enricher *auth.Enricher, tokens *auth.TokenCodec, audits *store.AuditStore, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, verifier: verifier, enricher: enricher, tokens: tokens, audits: audits, logger: logger}
}

// Login verifies credentials, runs the claim enricher and issues the session
// token cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cred auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	userID, err := h.verifier.Verify(r.Context(), cred)
	if err != nil {
		if !errors.Is(err, auth.ErrBadCredentials) && h.logger != nil {
			h.logger.Errorf("AUTH verify failed for %s: %v", cred.Email, err)
		}
		h.audit(r, cred.Email, "auth.login_failed", "")
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	claims, err := h.enricher.Resolve(r.Context(), userID)
	if err != nil {
		h.audit(r, cred.Email, "auth.login_rejected", "user missing at enrichment")
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	token, err := h.tokens.Issue(userID, claims)
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("AUTH token issue failed for %s: %v", claims.Email, err)
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.setSessionCookie(w, token, h.tokens.TTL())
	h.audit(r, claims.Email, "auth.login", "")
	writeJSON(w, http.StatusOK, sessionResponse(claims))
}

// Refresh re-runs the enricher for the current user and rotates the token.
// This is the only way identity-store changes reach an existing session
// before its natural expiry.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	current := auth.ClaimsFromContext(r.Context())
	if current == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	claims, err := h.enricher.Resolve(r.Context(), current.UserID())
	if err != nil {
		// The user vanished since issuance; drop the session.
		h.clearSessionCookie(w)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	token, err := h.tokens.Issue(current.UserID(), claims)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.setSessionCookie(w, token, h.tokens.TTL())
	writeJSON(w, http.StatusOK, sessionResponse(claims))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me echoes the claims snapshot the token carries, without touching the
// identity store.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(claims))
}

func sessionResponse(claims *auth.SessionClaims) map[string]any {
	return map[string]any{
		"id":          claims.UserID(),
		"name":        claims.Name,
		"email":       claims.Email,
		"picture":     claims.Picture,
		"isOauth":     claims.IsOauth,
		"accessType":  claims.AccessType,
		"isApprover":  claims.IsApprover,
		"isFileOwner": claims.IsFileOwner,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) audit(r *http.Request, actor, action, details string) {
	if h.audits == nil {
		return
	}
	if err := h.audits.Record(r.Context(), actor, action, details); err != nil && h.logger != nil {
		h.logger.Errorf("audit %s: %v", action, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
