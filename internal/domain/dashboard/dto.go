package dashboard

import (
	"github.com/studiobook/studiobook-api/internal/domain/calendar"
	"github.com/studiobook/studiobook-api/internal/pkg/backend"
	"github.com/studiobook/studiobook-api/internal/pkg/toast"
)

// BookingListView is the render model for the admin booking list.
type BookingListView struct {
	Items    []backend.Booking    `json:"items"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Pages    int                  `json:"pages"`
	Filter   calendar.RangePicker `json:"filter"`
	InFlight map[string]bool      `json:"in_flight,omitempty"`
	Toasts   []toast.Toast        `json:"toasts,omitempty"`
}

// FilterRequest edits one bound of the date-range filter.
type FilterRequest struct {
	Bound string `json:"bound" validate:"required,oneof=start end"`
	Date  string `json:"date" validate:"required,date_key"`
}

// PageRequest moves the booking list to another page.
type PageRequest struct {
	Page int `json:"page" validate:"required,min=1"`
}

// EmployeeRequest is the body for employee create/update.
type EmployeeRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=255"`
	Role  string `json:"role" validate:"required,service_category"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=4,max=32"`
}
