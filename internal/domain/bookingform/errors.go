package bookingform

import "errors"

var (
	ErrSessionNotFound     = errors.New("form session not found")
	ErrInvalidService      = errors.New("unknown service category")
	ErrAvailabilityLoading = errors.New("availability fetch in flight")
	ErrDateUnavailable     = errors.New("date not available for this employee")
	ErrSlotUnavailable     = errors.New("slot not offered on this date")
	ErrNotSubmittable      = errors.New("form is not complete")
)
