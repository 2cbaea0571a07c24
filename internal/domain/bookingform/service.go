package bookingform

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/studiobook/studiobook-api/internal/domain/availability"
	"github.com/studiobook/studiobook-api/internal/domain/calendar"
	"github.com/studiobook/studiobook-api/internal/pkg/backend"
	"github.com/studiobook/studiobook-api/internal/pkg/dispatch"
	"github.com/studiobook/studiobook-api/internal/pkg/toast"
)

// Backend is the slice of the remote client the booking form needs.
// An interface so tests can stand in a fake.
type Backend interface {
	ListEmployees(ctx context.Context, page, size int, search string) (*backend.EmployeePage, error)
	GetAvailability(ctx context.Context, employeeID string) (json.RawMessage, error)
	CreateBooking(ctx context.Context, p backend.BookingPayload) (*backend.Booking, error)
}

// Recorder receives every booking the form produces, including the
// optimistic local copy when the remote create fails. The admin
// dashboard store implements it by prepending to its booking list.
type Recorder interface {
	RecordBooking(b backend.Booking)
}

type session struct {
	form     Form
	toasts   *toast.Queue
	lastSeen time.Time
}

// Service hosts the booking form sessions. All session state lives
// behind the dispatch loop; the only work done off the loop is the
// network calls themselves.
type Service struct {
	loop     *dispatch.Loop
	client   Backend
	recorder Recorder
	ttl      time.Duration

	sessions  map[string]*session
	employees []backend.Employee // last successfully fetched roster
}

// NewService creates the form service.
func NewService(loop *dispatch.Loop, client Backend, recorder Recorder, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	return &Service{
		loop:     loop,
		client:   client,
		recorder: recorder,
		ttl:      sessionTTL,
		sessions: make(map[string]*session),
	}
}

// OpenSession starts a fresh form session and returns its id.
func (s *Service) OpenSession() string {
	id := uuid.New().String()
	s.loop.Call(func() {
		s.sessions[id] = &session{
			toasts:   toast.NewQueue(5, nil),
			lastSeen: time.Now(),
		}
	})
	return id
}

// Sweep expires sessions idle longer than the TTL. Called from a
// janitor tick.
func (s *Service) Sweep() {
	s.loop.Dispatch(func() {
		cutoff := time.Now().Add(-s.ttl)
		for id, sess := range s.sessions {
			if sess.lastSeen.Before(cutoff) {
				delete(s.sessions, id)
			}
		}
	})
}

func (s *Service) withSession(id string, fn func(sess *session)) error {
	err := ErrSessionNotFound
	s.loop.Call(func() {
		sess, ok := s.sessions[id]
		if !ok {
			return
		}
		sess.lastSeen = time.Now()
		err = nil
		fn(sess)
	})
	return err
}

// SetService picks the service category for a session.
func (s *Service) SetService(id, service string) error {
	var invalid bool
	if err := s.withSession(id, func(sess *session) {
		invalid = !sess.form.SetService(service)
	}); err != nil {
		return err
	}
	if invalid {
		return ErrInvalidService
	}
	return nil
}

// SetEmployee picks the provider for a session and fetches that
// provider's availability. The form's date and slot are invalidated
// immediately; date/slot edits stay inert until the fetch lands.
func (s *Service) SetEmployee(id, employeeID string) error {
	if err := s.withSession(id, func(sess *session) {
		sess.form.SetEmployee(employeeID)
	}); err != nil {
		return err
	}

	// The fetch deliberately ignores the caller's context: once
	// started it is not cancelable, a visitor navigating away just
	// stops caring about the result.
	raw, fetchErr := s.client.GetAvailability(context.Background(), employeeID)

	return s.withSession(id, func(sess *session) {
		if sess.form.EmployeeID != employeeID {
			// The visitor changed provider again while we were out.
			return
		}
		if fetchErr != nil {
			log.Warn().Err(fetchErr).Str("employee_id", employeeID).Msg("availability fetch failed")
			sess.toasts.Error("Could not load availability, all dates shown as open")
			sess.form.InstallAvailability(availability.View{})
			return
		}
		sess.form.InstallAvailability(availability.Normalize(raw))
	})
}

// SelectDate picks the booking date.
func (s *Service) SelectDate(id, key string) error {
	var opErr error
	if err := s.withSession(id, func(sess *session) {
		opErr = sess.form.SelectDate(key)
	}); err != nil {
		return err
	}
	return opErr
}

// SelectSlot picks the time slot.
func (s *Service) SelectSlot(id string, slot availability.Slot) error {
	var opErr error
	if err := s.withSession(id, func(sess *session) {
		opErr = sess.form.SelectSlot(slot)
	}); err != nil {
		return err
	}
	return opErr
}

// SetContact fills in the contact fields.
func (s *Service) SetContact(id, name, phone, email string) error {
	return s.withSession(id, func(sess *session) {
		sess.form.SetContact(name, phone, email)
	})
}

// SubmitResult reports how a submission ended. Fallback is true when
// the remote create failed and the booking was kept locally instead.
type SubmitResult struct {
	Booking  backend.Booking
	Fallback bool
}

// Submit validates the form and attempts the remote create. On
// success the form resets. On remote failure the attempted booking is
// still recorded locally under its client-chosen id, so the UI never
// blocks on a backend outage; the failure surfaces as a toast only.
func (s *Service) Submit(id string) (*SubmitResult, map[string]string, error) {
	var (
		payload   backend.BookingPayload
		fieldErrs map[string]string
	)
	if err := s.withSession(id, func(sess *session) {
		fieldErrs = sess.form.Validate()
		if fieldErrs == nil {
			payload = sess.form.Payload()
		}
	}); err != nil {
		return nil, nil, err
	}
	if fieldErrs != nil {
		return nil, fieldErrs, nil
	}

	created, createErr := s.client.CreateBooking(context.Background(), payload)

	result := &SubmitResult{}
	if err := s.withSession(id, func(sess *session) {
		if createErr != nil {
			log.Warn().Err(createErr).Str("booking_id", payload.ID).Msg("remote booking create failed, keeping local copy")
			result.Booking = localBooking(payload)
			result.Fallback = true
			s.recorder.RecordBooking(result.Booking)
			sess.toasts.Error("Booking could not be saved remotely, kept locally")
			sess.form.Reset()
			return
		}
		result.Booking = *created
		s.recorder.RecordBooking(result.Booking)
		sess.toasts.Success("Booking request sent")
		sess.form.Reset()
	}); err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

// localBooking materializes the optimistic copy of a failed create.
func localBooking(p backend.BookingPayload) backend.Booking {
	return backend.Booking{
		ID:            p.ID,
		Service:       p.Service,
		EmployeeID:    p.EmployeeID,
		Date:          p.Date,
		Slot:          p.Slot,
		CustomerName:  p.CustomerName,
		CustomerPhone: p.CustomerPhone,
		CustomerEmail: p.CustomerEmail,
		Status:        "pending",
		CreatedAt:     time.Now().Unix(),
	}
}

// Providers returns the bookable roster. A fetch failure falls back
// to the last known list; only an empty cache makes it an error.
func (s *Service) Providers(ctx context.Context) ([]backend.Employee, error) {
	page, err := s.client.ListEmployees(ctx, 1, 100, "")

	var out []backend.Employee
	s.loop.Call(func() {
		if err == nil {
			s.employees = page.Items
		}
		out = make([]backend.Employee, len(s.employees))
		copy(out, s.employees)
	})

	if err != nil {
		log.Warn().Err(err).Msg("employee roster fetch failed, serving cached list")
		if len(out) == 0 {
			return nil, err
		}
	}
	return out, nil
}

// ProviderAvailability fetches and normalizes one provider's
// calendar independent of any session.
func (s *Service) ProviderAvailability(ctx context.Context, employeeID string) (availability.View, error) {
	raw, err := s.client.GetAvailability(ctx, employeeID)
	if err != nil {
		return availability.View{}, err
	}
	return availability.Normalize(raw), nil
}

// State snapshots a session for rendering, including the month grid
// with availability-driven disabled flags.
func (s *Service) State(id string, year, month int) (*FormState, error) {
	var state *FormState
	if err := s.withSession(id, func(sess *session) {
		grid := calendar.BuildGrid(year, month)
		state = &FormState{
			Stage:         string(sess.form.Stage()),
			Service:       sess.form.Service,
			EmployeeID:    sess.form.EmployeeID,
			Date:          sess.form.Picker.Date,
			Slot:          string(sess.form.Picker.Slot),
			CustomerName:  sess.form.CustomerName,
			CustomerPhone: sess.form.CustomerPhone,
			CustomerEmail: sess.form.CustomerEmail,
			Loading:       sess.form.Loading,
			Availability:  sess.form.Picker.View,
			Errors:        sess.form.Validate(),
			Year:          year,
			Month:         month,
			Calendar:      grid.Render(sess.form.Picker.CellDisabled),
			Toasts:        sess.toasts.List(),
		}
	}); err != nil {
		return nil, err
	}
	return state, nil
}
