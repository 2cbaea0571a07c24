package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/studiobook/studiobook-api/internal/domain/calendar"
	"github.com/studiobook/studiobook-api/internal/pkg/backend"
	"github.com/studiobook/studiobook-api/internal/pkg/dispatch"
	"github.com/studiobook/studiobook-api/internal/pkg/toast"
)

// Backend is the slice of the remote client the dashboard needs.
type Backend interface {
	ListBookings(ctx context.Context, page, size int, dateStart, dateEnd int64) (*backend.BookingPage, error)
	AcceptBooking(ctx context.Context, id string) (*backend.Booking, error)
	RejectBooking(ctx context.Context, id string) error
	DeleteBooking(ctx context.Context, id string) error
	ListEmployees(ctx context.Context, page, size int, search string) (*backend.EmployeePage, error)
	CreateEmployee(ctx context.Context, p backend.EmployeePayload) (*backend.Employee, error)
	UpdateEmployee(ctx context.Context, id string, p backend.EmployeePayload) (*backend.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// Store owns the admin dashboard state: the booking list view with
// its date-range filter and pagination, the employee roster, the
// per-entity in-flight flags and the toast queue. Everything is
// mutated on the dispatch loop only; handlers get copies.
type Store struct {
	loop   *dispatch.Loop
	client Backend
	toasts *toast.Queue

	filter   calendar.RangePicker
	page     int
	pageSize int

	bookings []backend.Booking // current page view, newest first
	total    int

	employees []backend.Employee

	inflight map[string]bool

	notifier toast.Notifier
}

// NewStore creates the dashboard store.
func NewStore(loop *dispatch.Loop, client Backend, notifier toast.Notifier, pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = 5
	}
	if notifier == nil {
		notifier = toast.NopNotifier{}
	}
	return &Store{
		loop:     loop,
		client:   client,
		toasts:   toast.NewQueue(10, notifier),
		page:     1,
		pageSize: pageSize,
		inflight: make(map[string]bool),
		notifier: notifier,
	}
}

// ---------- booking list ----------

// Refresh fetches the current page under the current filter. A fetch
// failure keeps whatever is shown and surfaces a toast: the local
// view is the fallback.
func (s *Store) Refresh(ctx context.Context) {
	var (
		page  int
		start int64
		end   int64
	)
	s.loop.Call(func() {
		page = s.page
		start, end = s.filter.Bounds()
	})

	result, err := s.client.ListBookings(ctx, page, s.pageSize, start, end)

	s.loop.Call(func() {
		if err != nil {
			log.Warn().Err(err).Msg("booking list fetch failed, keeping local view")
			s.toasts.Error("Could not refresh bookings")
			return
		}
		if page != s.page {
			// The admin moved on while the fetch was out.
			return
		}
		s.bookings = result.Items
		s.total = result.Total
	})
}

// SetFilterStart selects a day in the start calendar. Any filter edit
// resets pagination to page 1.
func (s *Store) SetFilterStart(ctx context.Context, key string) error {
	if !calendar.ValidKey(key) {
		return ErrInvalidDateKey
	}
	s.loop.Call(func() {
		s.filter.SelectStart(key)
		s.page = 1
	})
	s.Refresh(ctx)
	return nil
}

// SetFilterEnd selects a day in the end calendar.
func (s *Store) SetFilterEnd(ctx context.Context, key string) error {
	if !calendar.ValidKey(key) {
		return ErrInvalidDateKey
	}
	s.loop.Call(func() {
		s.filter.SelectEnd(key)
		s.page = 1
	})
	s.Refresh(ctx)
	return nil
}

// ClearFilter drops both bounds and resets to page 1.
func (s *Store) ClearFilter(ctx context.Context) {
	s.loop.Call(func() {
		s.filter.Clear()
		s.page = 1
	})
	s.Refresh(ctx)
}

// SetPage moves the list to another page.
func (s *Store) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	s.loop.Call(func() {
		s.page = page
	})
	s.Refresh(ctx)
}

// RecordBooking prepends a booking to the list view. It implements
// the booking form's Recorder: both confirmed remote creates and
// optimistic local copies land here.
func (s *Store) RecordBooking(b backend.Booking) {
	s.loop.Dispatch(func() {
		s.bookings = append([]backend.Booking{b}, s.bookings...)
		s.total++
		s.notifier.Publish(map[string]interface{}{
			"type": "booking:new",
			"data": b,
		})
	})
}

// Accept confirms a pending booking. Remote failure still marks it
// confirmed locally; the failure surfaces as a toast only.
func (s *Store) Accept(ctx context.Context, id string) error {
	if err := s.begin(id, backend.StatusPending); err != nil {
		return err
	}

	updated, err := s.client.AcceptBooking(ctx, id)

	s.loop.Call(func() {
		defer delete(s.inflight, id)
		if err != nil {
			log.Warn().Err(err).Str("booking_id", id).Msg("remote accept failed, applying locally")
			s.toasts.Error("Accept failed remotely, marked confirmed locally")
			s.setStatus(id, backend.StatusConfirmed)
			return
		}
		s.replaceBooking(*updated)
		s.toasts.Success("Booking confirmed")
		s.publishStatus(id, updated.Status)
	})
	return nil
}

// Reject cancels a pending booking. The remote call returns no body;
// locally the booking becomes cancelled either way.
func (s *Store) Reject(ctx context.Context, id string) error {
	if err := s.begin(id, backend.StatusPending); err != nil {
		return err
	}

	err := s.client.RejectBooking(ctx, id)

	s.loop.Call(func() {
		defer delete(s.inflight, id)
		if err != nil {
			log.Warn().Err(err).Str("booking_id", id).Msg("remote reject failed, applying locally")
			s.toasts.Error("Reject failed remotely, marked cancelled locally")
		} else {
			s.toasts.Success("Booking cancelled")
		}
		s.setStatus(id, backend.StatusCancelled)
	})
	return nil
}

// Delete removes a booking. Deletion has no optimistic fallback: on
// remote failure the row stays.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.begin(id, ""); err != nil {
		return err
	}

	err := s.client.DeleteBooking(ctx, id)

	s.loop.Call(func() {
		defer delete(s.inflight, id)
		if err != nil {
			log.Warn().Err(err).Str("booking_id", id).Msg("remote delete failed")
			s.toasts.Error("Delete failed")
			return
		}
		for i, b := range s.bookings {
			if b.ID == id {
				s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
				s.total--
				break
			}
		}
		s.toasts.Success("Booking deleted")
	})
	return nil
}

// begin sets the in-flight flag for one entity, optionally requiring
// its current local status. Only that entity's controls lock.
func (s *Store) begin(id, requireStatus string) error {
	var err error
	s.loop.Call(func() {
		if s.inflight[id] {
			err = ErrOperationInFlight
			return
		}
		// A booking missing from the local view is trusted to the
		// backend's own transition checks.
		if requireStatus != "" {
			for _, b := range s.bookings {
				if b.ID == id {
					if b.Status != requireStatus {
						err = ErrInvalidTransition
					}
					break
				}
			}
		}
		if err == nil {
			s.inflight[id] = true
		}
	})
	return err
}

func (s *Store) setStatus(id, status string) {
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = status
			break
		}
	}
	s.publishStatus(id, status)
}

func (s *Store) replaceBooking(b backend.Booking) {
	for i := range s.bookings {
		if s.bookings[i].ID == b.ID {
			s.bookings[i] = b
			return
		}
	}
}

func (s *Store) publishStatus(id, status string) {
	s.notifier.Publish(map[string]interface{}{
		"type": "booking:status",
		"data": map[string]string{"id": id, "status": status},
	})
}

// ---------- employee roster ----------

// LoadEmployees fetches the roster. Failure keeps the local roster.
func (s *Store) LoadEmployees(ctx context.Context, search string) {
	result, err := s.client.ListEmployees(ctx, 1, 100, search)

	s.loop.Call(func() {
		if err != nil {
			log.Warn().Err(err).Msg("employee list fetch failed, keeping local roster")
			s.toasts.Error("Could not refresh employees")
			return
		}
		s.employees = result.Items
	})
}

// CreateEmployee creates an employee. Remote failure keeps an
// optimistic local record under a client-generated id.
func (s *Store) CreateEmployee(ctx context.Context, p backend.EmployeePayload) backend.Employee {
	created, err := s.client.CreateEmployee(ctx, p)

	var out backend.Employee
	s.loop.Call(func() {
		if err != nil {
			log.Warn().Err(err).Msg("remote employee create failed, keeping local copy")
			s.toasts.Error("Employee could not be saved remotely, kept locally")
			out = backend.Employee{
				ID:    uuid.New().String(),
				Name:  p.Name,
				Role:  p.Role,
				Email: p.Email,
				Phone: p.Phone,
			}
		} else {
			out = *created
			s.toasts.Success("Employee created")
		}
		s.employees = append([]backend.Employee{out}, s.employees...)
	})
	return out
}

// UpdateEmployee edits an employee. Remote failure applies the edit
// locally anyway.
func (s *Store) UpdateEmployee(ctx context.Context, id string, p backend.EmployeePayload) (backend.Employee, error) {
	if err := s.beginEmployee(id); err != nil {
		return backend.Employee{}, err
	}

	updated, err := s.client.UpdateEmployee(ctx, id, p)

	var out backend.Employee
	var opErr error
	s.loop.Call(func() {
		defer delete(s.inflight, id)
		idx := -1
		for i := range s.employees {
			if s.employees[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			opErr = ErrEmployeeNotFound
			return
		}
		if err != nil {
			log.Warn().Err(err).Str("employee_id", id).Msg("remote employee update failed, applying locally")
			s.toasts.Error("Employee update failed remotely, applied locally")
			s.employees[idx].Name = p.Name
			s.employees[idx].Role = p.Role
			s.employees[idx].Email = p.Email
			s.employees[idx].Phone = p.Phone
		} else {
			s.employees[idx] = *updated
			s.toasts.Success("Employee updated")
		}
		out = s.employees[idx]
	})
	return out, opErr
}

// DeleteEmployee removes an employee. No optimistic fallback.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.beginEmployee(id); err != nil {
		return err
	}

	err := s.client.DeleteEmployee(ctx, id)

	var opErr error
	s.loop.Call(func() {
		defer delete(s.inflight, id)
		if err != nil {
			log.Warn().Err(err).Str("employee_id", id).Msg("remote employee delete failed")
			s.toasts.Error("Employee delete failed")
			opErr = err
			return
		}
		for i, e := range s.employees {
			if e.ID == id {
				s.employees = append(s.employees[:i], s.employees[i+1:]...)
				break
			}
		}
		s.toasts.Success("Employee deleted")
	})
	return opErr
}

func (s *Store) beginEmployee(id string) error {
	var err error
	s.loop.Call(func() {
		if s.inflight[id] {
			err = ErrOperationInFlight
			return
		}
		s.inflight[id] = true
	})
	return err
}

// ---------- snapshots ----------

// BookingsView snapshots the booking list state for rendering.
func (s *Store) BookingsView() *BookingListView {
	var view *BookingListView
	s.loop.Call(func() {
		items := make([]backend.Booking, len(s.bookings))
		copy(items, s.bookings)

		inflight := make(map[string]bool, len(s.inflight))
		for id := range s.inflight {
			inflight[id] = true
		}

		pages := (s.total + s.pageSize - 1) / s.pageSize
		view = &BookingListView{
			Items:    items,
			Total:    s.total,
			Page:     s.page,
			PageSize: s.pageSize,
			Pages:    pages,
			Filter:   s.filter,
			InFlight: inflight,
			Toasts:   s.toasts.List(),
		}
	})
	return view
}

// EmployeesView snapshots the roster.
func (s *Store) EmployeesView() []backend.Employee {
	var out []backend.Employee
	s.loop.Call(func() {
		out = make([]backend.Employee, len(s.employees))
		copy(out, s.employees)
	})
	return out
}

// FilterCalendar renders the month grid for one filter bound, cells
// violating start <= end disabled relative to the other bound.
func (s *Store) FilterCalendar(bound string, year, month int) [][]calendar.RenderedCell {
	var filter calendar.RangePicker
	s.loop.Call(func() {
		filter = s.filter
	})

	grid := calendar.BuildGrid(year, month)
	if bound == "end" {
		return grid.Render(filter.EndCellDisabled)
	}
	return grid.Render(filter.StartCellDisabled)
}

// DismissToast drops one toast by id.
func (s *Store) DismissToast(id string) bool {
	var ok bool
	s.loop.Call(func() {
		ok = s.toasts.Dismiss(id)
	})
	return ok
}
