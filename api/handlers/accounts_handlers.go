package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"docudesk/core/auth"
	"docudesk/core/store"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type AccountsHandler struct {
	admin       *store.AdminStore
	revocations *auth.Revocations
	audits      *store.AuditStore
	logger      *logrus.Logger
}

func NewAccountsHandler(admin *store.AdminStore, revocations *auth.Revocations, audits *store.AuditStore, logger *logrus.Logger) *AccountsHandler {
	return &AccountsHandler{admin: admin, revocations: revocations, audits: audits, logger: logger}
}

func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("accounts list: %v", err)
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// SetRole assigns a role by name. The new role takes effect for routing only
// after the user's claims are refreshed or revoked.
func (h *AccountsHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.admin.SetUserRole(r.Context(), userID, body.Role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.recordAdminAction(r, "accounts.role_changed", userID+" -> "+body.Role)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountsHandler) SetApprover(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var body struct {
		IsApprover bool `json:"isApprover"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := h.admin.SetApprover(r.Context(), userID, body.IsApprover); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	h.recordAdminAction(r, "accounts.approver_changed", userID)
	w.WriteHeader(http.StatusNoContent)
}

// RevokeClaims force-invalidates the user's outstanding tokens so their next
// request re-resolves claims instead of waiting out the token TTL.
func (h *AccountsHandler) RevokeClaims(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if h.revocations != nil {
		h.revocations.Revoke(userID)
	}
	h.recordAdminAction(r, "accounts.claims_revoked", userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountsHandler) recordAdminAction(r *http.Request, action, details string) {
	actor := ""
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		actor = claims.Email
	}
	if h.audits == nil {
		return
	}
	if err := h.audits.Record(r.Context(), actor, action, details); err != nil && h.logger != nil {
		h.logger.Errorf("audit %s: %v", action, err)
	}
}

type AuditHandler struct {
	audits *store.AuditStore
}

func NewAuditHandler(audits *store.AuditStore) *AuditHandler {
	return &AuditHandler{audits: audits}
}

func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.audits.Recent(r.Context(), 100)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
