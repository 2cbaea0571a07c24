package admin

import "github.com/go-chi/chi/v5"

// Routes registers admin auth endpoints
func Routes(r chi.Router, h *Handler) {
	r.Post("/login", h.Login)
}
