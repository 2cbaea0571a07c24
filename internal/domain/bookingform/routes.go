package bookingform

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the public booking form routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/session", h.OpenSession)
	r.Get("/", h.State)
	r.Put("/service", h.SetService)
	r.Put("/provider", h.SetEmployee)
	r.Put("/date", h.SetDate)
	r.Put("/slot", h.SetSlot)
	r.Put("/contact", h.SetContact)
	r.Post("/submit", h.Submit)

	return r
}
