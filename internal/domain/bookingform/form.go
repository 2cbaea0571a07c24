package bookingform

import (
	"regexp"

	"github.com/google/uuid"

	"github.com/studiobook/studiobook-api/internal/domain/availability"
	"github.com/studiobook/studiobook-api/internal/domain/calendar"
	"github.com/studiobook/studiobook-api/internal/pkg/backend"
)

// Stage names the step of the booking flow the form has reached. The
// stage is derived, not enforced: every field stays editable at any
// time, and the machine's real job is gating submission.
type Stage string

const (
	StageChoosingService  Stage = "choosing_service"
	StageChoosingProvider Stage = "choosing_provider"
	StageChoosingDate     Stage = "choosing_date"
	StageChoosingSlot     Stage = "choosing_slot"
	StageEnteringContact  Stage = "entering_contact"
	StageReady            Stage = "ready"
)

// emailPattern is deliberately loose: something, an @, something, a
// dot, something.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Form is the customer booking form state for one session.
type Form struct {
	Service       string
	EmployeeID    string
	Picker        calendar.DatePicker
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	// Loading is set while the availability fetch for the chosen
	// employee is in flight; date and slot stay inert until it lands.
	Loading bool
}

// SetService picks the service category.
func (f *Form) SetService(service string) bool {
	if service != "photographer" && service != "videographer" {
		return false
	}
	f.Service = service
	return true
}

// SetEmployee picks an employee. Any chosen date and slot are
// invalidated; the caller is expected to start an availability fetch
// and install the result with InstallAvailability.
func (f *Form) SetEmployee(id string) {
	f.EmployeeID = id
	f.Picker.Reset(availability.View{})
	f.Loading = true
}

// InstallAvailability lands a fetched availability view.
func (f *Form) InstallAvailability(view availability.View) {
	f.Picker.Reset(view)
	f.Loading = false
}

// SelectDate picks the booking date. Rejected while the availability
// fetch is in flight or when the view rules the date out.
func (f *Form) SelectDate(key string) error {
	if f.Loading {
		return ErrAvailabilityLoading
	}
	if !calendar.ValidKey(key) || !f.Picker.Select(key) {
		return ErrDateUnavailable
	}
	return nil
}

// SelectSlot picks a slot explicitly.
func (f *Form) SelectSlot(slot availability.Slot) error {
	if f.Loading {
		return ErrAvailabilityLoading
	}
	if !f.Picker.SelectSlot(slot) {
		return ErrSlotUnavailable
	}
	return nil
}

// SetContact fills the contact fields.
func (f *Form) SetContact(name, phone, email string) {
	f.CustomerName = name
	f.CustomerPhone = phone
	f.CustomerEmail = email
}

// Validate returns per-field errors; nil means the form may be
// submitted. Nothing here ever reaches the network.
func (f *Form) Validate() map[string]string {
	errs := make(map[string]string)
	if f.Service == "" {
		errs["service"] = "Choose a service"
	}
	if f.EmployeeID == "" {
		errs["employee_id"] = "Choose a provider"
	}
	if f.Picker.Date == "" {
		errs["date"] = "Choose a date"
	}
	if f.Picker.Slot == "" {
		errs["slot"] = "Choose a time slot"
	}
	if f.CustomerName == "" {
		errs["customer_name"] = "This field is required"
	}
	if f.CustomerPhone == "" {
		errs["customer_phone"] = "This field is required"
	}
	if f.CustomerEmail == "" {
		errs["customer_email"] = "This field is required"
	} else if !emailPattern.MatchString(f.CustomerEmail) {
		errs["customer_email"] = "Invalid email format"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Stage derives the flow step from what is filled in.
func (f *Form) Stage() Stage {
	switch {
	case f.Service == "":
		return StageChoosingService
	case f.EmployeeID == "":
		return StageChoosingProvider
	case f.Picker.Date == "":
		return StageChoosingDate
	case f.Picker.Slot == "":
		return StageChoosingSlot
	case f.Validate() != nil:
		return StageEnteringContact
	default:
		return StageReady
	}
}

// Payload builds the create call body with a client-chosen id, so the
// attempt stays identifiable even when the remote create fails.
func (f *Form) Payload() backend.BookingPayload {
	return backend.BookingPayload{
		ID:            uuid.New().String(),
		Service:       f.Service,
		EmployeeID:    f.EmployeeID,
		Date:          f.Picker.Date,
		Slot:          string(f.Picker.Slot),
		CustomerName:  f.CustomerName,
		CustomerPhone: f.CustomerPhone,
		CustomerEmail: f.CustomerEmail,
	}
}

// Reset returns the form to its initial state.
func (f *Form) Reset() {
	*f = Form{}
}
