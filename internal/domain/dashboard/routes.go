package dashboard

import "github.com/go-chi/chi/v5"

// Routes registers admin dashboard endpoints
func Routes(r chi.Router, h *Handler) {
	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.ListBookings)
		r.Put("/filter", h.SetFilter)
		r.Delete("/filter", h.ClearFilter)
		r.Put("/page", h.SetPage)
		r.Get("/calendar", h.FilterCalendar)
		r.Post("/{id}/accept", h.AcceptBooking)
		r.Post("/{id}/reject", h.RejectBooking)
		r.Delete("/{id}", h.DeleteBooking)
	})

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.ListEmployees)
		r.Post("/", h.CreateEmployee)
		r.Put("/{id}", h.UpdateEmployee)
		r.Delete("/{id}", h.DeleteEmployee)
	})

	r.Delete("/toasts/{id}", h.DismissToast)
}
