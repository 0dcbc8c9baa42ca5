package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Telegram webhook
	mux.Handle("POST /webhook", chain(http.HandlerFunc(h.Webhook)))

	// Digests
	mux.Handle("GET /api/v1/digests", chain(http.HandlerFunc(h.ListDigests)))
	mux.Handle("GET /api/v1/digests/{id}", chain(http.HandlerFunc(h.GetDigest)))

	// Sessions
	mux.Handle("GET /api/v1/sessions", chain(http.HandlerFunc(h.ListSessions)))
	mux.Handle("GET /api/v1/sessions/{user_id}", chain(http.HandlerFunc(h.GetSession)))
}
