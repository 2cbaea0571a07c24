package dashboard

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrOperationInFlight = errors.New("operation already in flight for this entity")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrInvalidDateKey    = errors.New("malformed date key")
)
