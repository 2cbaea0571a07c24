package bookingform

import (
	"github.com/studiobook/studiobook-api/internal/domain/availability"
	"github.com/studiobook/studiobook-api/internal/domain/calendar"
	"github.com/studiobook/studiobook-api/internal/pkg/toast"
)

// FormState is the full render model for one session.
type FormState struct {
	Stage         string                    `json:"stage"`
	Service       string                    `json:"service,omitempty"`
	EmployeeID    string                    `json:"employee_id,omitempty"`
	Date          string                    `json:"date,omitempty"`
	Slot          string                    `json:"slot,omitempty"`
	CustomerName  string                    `json:"customer_name,omitempty"`
	CustomerPhone string                    `json:"customer_phone,omitempty"`
	CustomerEmail string                    `json:"customer_email,omitempty"`
	Loading       bool                      `json:"loading"`
	Availability  availability.View         `json:"availability"`
	Errors        map[string]string         `json:"errors,omitempty"`
	Year          int                       `json:"year"`
	Month         int                       `json:"month"` // zero-based
	Calendar      [][]calendar.RenderedCell `json:"calendar"`
	Toasts        []toast.Toast             `json:"toasts,omitempty"`
}

// SessionResponse carries a freshly opened session id.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// SetServiceRequest picks the service category.
type SetServiceRequest struct {
	Service string `json:"service" validate:"required,service_category"`
}

// SetEmployeeRequest picks the provider.
type SetEmployeeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

// SetDateRequest picks the booking date.
type SetDateRequest struct {
	Date string `json:"date" validate:"required,date_key"`
}

// SetSlotRequest picks the time slot.
type SetSlotRequest struct {
	Slot string `json:"slot" validate:"required,time_slot"`
}

// SetContactRequest fills the contact fields. Validation gating for
// submission happens in the form itself; here only lengths are kept
// sane.
type SetContactRequest struct {
	CustomerName  string `json:"customer_name" validate:"max=255"`
	CustomerPhone string `json:"customer_phone" validate:"max=32"`
	CustomerEmail string `json:"customer_email" validate:"max=255"`
}

// ProviderResponse is one bookable employee for the picker.
type ProviderResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// SubmitResponse reports the outcome of a submission.
type SubmitResponse struct {
	Booking  interface{} `json:"booking"`
	Fallback bool        `json:"fallback"`
}
