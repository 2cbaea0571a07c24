package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studiobook/studiobook-api/internal/pkg/backend"
	"github.com/studiobook/studiobook-api/internal/pkg/response"
	"github.com/studiobook/studiobook-api/internal/pkg/validator"
)

// Handler handles admin dashboard HTTP requests
type Handler struct {
	store *Store
}

// NewHandler creates the dashboard handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ListBookings handles GET /admin/bookings
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") != "false" {
		h.store.Refresh(r.Context())
	}
	response.OK(w, h.store.BookingsView())
}

// SetFilter handles PUT /admin/bookings/filter
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	var err error
	if req.Bound == "end" {
		err = h.store.SetFilterEnd(r.Context(), req.Date)
	} else {
		err = h.store.SetFilterStart(r.Context(), req.Date)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, h.store.BookingsView())
}

// ClearFilter handles DELETE /admin/bookings/filter
func (h *Handler) ClearFilter(w http.ResponseWriter, r *http.Request) {
	h.store.ClearFilter(r.Context())
	response.OK(w, h.store.BookingsView())
}

// SetPage handles PUT /admin/bookings/page
func (h *Handler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	h.store.SetPage(r.Context(), req.Page)
	response.OK(w, h.store.BookingsView())
}

// FilterCalendar handles GET /admin/bookings/calendar
func (h *Handler) FilterCalendar(w http.ResponseWriter, r *http.Request) {
	bound := r.URL.Query().Get("bound")
	if bound != "start" && bound != "end" {
		response.BadRequest(w, "bound must be start or end")
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month()) - 1
	if y := r.URL.Query().Get("year"); y != "" {
		if v, err := strconv.Atoi(y); err == nil && v >= 1970 && v <= 9999 {
			year = v
		}
	}
	if m := r.URL.Query().Get("month"); m != "" {
		if v, err := strconv.Atoi(m); err == nil && v >= 0 && v <= 11 {
			month = v
		}
	}

	response.OK(w, map[string]interface{}{
		"bound":    bound,
		"year":     year,
		"month":    month,
		"calendar": h.store.FilterCalendar(bound, year, month),
	})
}

// AcceptBooking handles POST /admin/bookings/{id}/accept
func (h *Handler) AcceptBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Accept(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, h.store.BookingsView())
}

// RejectBooking handles POST /admin/bookings/{id}/reject
func (h *Handler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Reject(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, h.store.BookingsView())
}

// DeleteBooking handles DELETE /admin/bookings/{id}
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, h.store.BookingsView())
}

// DismissToast handles DELETE /admin/toasts/{id}
func (h *Handler) DismissToast(w http.ResponseWriter, r *http.Request) {
	if !h.store.DismissToast(chi.URLParam(r, "id")) {
		response.NotFound(w, "Toast not found")
		return
	}
	response.NoContent(w)
}

// ListEmployees handles GET /admin/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	h.store.LoadEmployees(r.Context(), r.URL.Query().Get("search"))
	response.OK(w, map[string]interface{}{"items": h.store.EmployeesView()})
}

// CreateEmployee handles POST /admin/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	employee := h.store.CreateEmployee(r.Context(), backend.EmployeePayload{
		Name:  req.Name,
		Role:  req.Role,
		Email: req.Email,
		Phone: req.Phone,
	})
	response.Created(w, employee)
}

// UpdateEmployee handles PUT /admin/employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	employee, err := h.store.UpdateEmployee(r.Context(), chi.URLParam(r, "id"), backend.EmployeePayload{
		Name:  req.Name,
		Role:  req.Role,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, employee)
}

// DeleteEmployee handles DELETE /admin/employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOperationInFlight):
		response.Conflict(w, "Another operation is in flight for this entity")
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, "Status transition not allowed")
	case errors.Is(err, ErrInvalidDateKey):
		response.BadRequest(w, "Malformed date, expected YYYY-MM-DD")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrEmployeeNotFound):
		response.NotFound(w, "Employee not found")
	default:
		response.InternalError(w)
	}
}
