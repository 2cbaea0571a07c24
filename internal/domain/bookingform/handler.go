package bookingform

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studiobook/studiobook-api/internal/domain/availability"
	"github.com/studiobook/studiobook-api/internal/pkg/response"
	"github.com/studiobook/studiobook-api/internal/pkg/validator"
)

const sessionHeader = "X-Session-ID"

// Handler handles booking form HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates the form handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// OpenSession handles POST /form/session
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	response.Created(w, &SessionResponse{SessionID: h.svc.OpenSession()})
}

// State handles GET /form
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
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

	state, err := h.svc.State(h.sessionID(r), year, month)
	if err != nil {
		response.NotFound(w, "Session not found")
		return
	}
	response.OK(w, state)
}

// SetService handles PUT /form/service
func (h *Handler) SetService(w http.ResponseWriter, r *http.Request) {
	var req SetServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.SetService(h.sessionID(r), req.Service); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// SetEmployee handles PUT /form/provider
func (h *Handler) SetEmployee(w http.ResponseWriter, r *http.Request) {
	var req SetEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.SetEmployee(h.sessionID(r), req.EmployeeID); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// SetDate handles PUT /form/date
func (h *Handler) SetDate(w http.ResponseWriter, r *http.Request) {
	var req SetDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.SelectDate(h.sessionID(r), req.Date); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// SetSlot handles PUT /form/slot
func (h *Handler) SetSlot(w http.ResponseWriter, r *http.Request) {
	var req SetSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.SelectSlot(h.sessionID(r), availability.Slot(req.Slot)); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// SetContact handles PUT /form/contact
func (h *Handler) SetContact(w http.ResponseWriter, r *http.Request) {
	var req SetContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.SetContact(h.sessionID(r), req.CustomerName, req.CustomerPhone, req.CustomerEmail); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// Submit handles POST /form/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	result, fieldErrs, err := h.svc.Submit(h.sessionID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if fieldErrs != nil {
		response.ValidationError(w, fieldErrs)
		return
	}

	response.Created(w, &SubmitResponse{Booking: result.Booking, Fallback: result.Fallback})
}

// Providers handles GET /providers
func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.Providers(r.Context())
	if err != nil {
		response.Error(w, http.StatusBadGateway, "BACKEND_UNAVAILABLE", "Provider list is unavailable")
		return
	}

	items := make([]*ProviderResponse, len(employees))
	for i, e := range employees {
		items[i] = &ProviderResponse{ID: e.ID, Name: e.Name, Role: e.Role}
	}
	response.OK(w, map[string]interface{}{"items": items})
}

// ProviderAvailability handles GET /providers/{id}/availability
func (h *Handler) ProviderAvailability(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ProviderAvailability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadGateway, "BACKEND_UNAVAILABLE", "Availability is unavailable")
		return
	}
	response.OK(w, view)
}

func (h *Handler) sessionID(r *http.Request) string {
	return r.Header.Get(sessionHeader)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.NotFound(w, "Session not found")
	case errors.Is(err, ErrAvailabilityLoading):
		response.Conflict(w, "Availability is still loading")
	case errors.Is(err, ErrDateUnavailable):
		response.Conflict(w, "Date is not available")
	case errors.Is(err, ErrSlotUnavailable):
		response.Conflict(w, "Slot is not offered on this date")
	case errors.Is(err, ErrInvalidService):
		response.BadRequest(w, "Unknown service category")
	default:
		response.InternalError(w)
	}
}
