package handlers

import "net/http"

// PageHandler stands in for the dashboard frontend. Rendering is out of this
// service's hands; these endpoints exist so the route gate has real targets.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>docudesk</title>"))
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>docudesk login</title>"))
}

func (h *PageHandler) Static(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}
