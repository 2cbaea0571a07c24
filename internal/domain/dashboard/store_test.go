package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/studiobook/studiobook-api/internal/pkg/backend"
	"github.com/studiobook/studiobook-api/internal/pkg/dispatch"
	"github.com/studiobook/studiobook-api/internal/pkg/toast"
)

type fakeBackend struct {
	mu        sync.Mutex
	bookings  []backend.Booking
	employees []backend.Employee

	listErr      error
	acceptErr    error
	rejectErr    error
	deleteErr    error
	createEmpErr error
	updateEmpErr error
	deleteEmpErr error

	acceptGate  chan struct{} // when set, Accept blocks here
	acceptEnter chan struct{}

	lastStart int64
	lastEnd   int64
}

func (f *fakeBackend) ListBookings(ctx context.Context, page, size int, dateStart, dateEnd int64) (*backend.BookingPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.lastStart, f.lastEnd = dateStart, dateEnd

	total := len(f.bookings)
	from := (page - 1) * size
	if from > total {
		from = total
	}
	to := from + size
	if to > total {
		to = total
	}
	items := make([]backend.Booking, to-from)
	copy(items, f.bookings[from:to])
	return &backend.BookingPage{Items: items, Total: total}, nil
}

func (f *fakeBackend) AcceptBooking(ctx context.Context, id string) (*backend.Booking, error) {
	if f.acceptEnter != nil {
		f.acceptEnter <- struct{}{}
	}
	if f.acceptGate != nil {
		<-f.acceptGate
	}
	if f.acceptErr != nil {
		return nil, f.acceptErr
	}
	return &backend.Booking{ID: id, Status: backend.StatusConfirmed}, nil
}

func (f *fakeBackend) RejectBooking(ctx context.Context, id string) error {
	return f.rejectErr
}

func (f *fakeBackend) DeleteBooking(ctx context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeBackend) ListEmployees(ctx context.Context, page, size int, search string) (*backend.EmployeePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]backend.Employee, len(f.employees))
	copy(items, f.employees)
	return &backend.EmployeePage{Items: items, Total: len(items)}, nil
}

func (f *fakeBackend) CreateEmployee(ctx context.Context, p backend.EmployeePayload) (*backend.Employee, error) {
	if f.createEmpErr != nil {
		return nil, f.createEmpErr
	}
	return &backend.Employee{ID: "srv-1", Name: p.Name, Role: p.Role, Email: p.Email, Phone: p.Phone}, nil
}

func (f *fakeBackend) UpdateEmployee(ctx context.Context, id string, p backend.EmployeePayload) (*backend.Employee, error) {
	if f.updateEmpErr != nil {
		return nil, f.updateEmpErr
	}
	return &backend.Employee{ID: id, Name: p.Name, Role: p.Role, Email: p.Email, Phone: p.Phone}, nil
}

func (f *fakeBackend) DeleteEmployee(ctx context.Context, id string) error {
	return f.deleteEmpErr
}

func seedBookings(n int) []backend.Booking {
	out := make([]backend.Booking, n)
	for i := range out {
		out[i] = backend.Booking{
			ID:     fmt.Sprintf("b%02d", i+1),
			Status: backend.StatusPending,
			Date:   "2024-06-10",
		}
	}
	return out
}

func newTestStore(t *testing.T, client *fakeBackend) *Store {
	t.Helper()
	loop := dispatch.NewLoop(32)
	go loop.Run()
	t.Cleanup(loop.Stop)
	return NewStore(loop, client, toast.NopNotifier{}, 5)
}

func lastToast(view *BookingListView) toast.Toast {
	if len(view.Toasts) == 0 {
		return toast.Toast{}
	}
	return view.Toasts[len(view.Toasts)-1]
}

func TestPaginationPages(t *testing.T) {
	client := &fakeBackend{bookings: seedBookings(12)}
	store := newTestStore(t, client)
	ctx := context.Background()

	store.Refresh(ctx)
	view := store.BookingsView()
	if view.Total != 12 || view.Pages != 3 {
		t.Fatalf("expected 12 total over 3 pages, got %d/%d", view.Total, view.Pages)
	}
	if len(view.Items) != 5 || view.Items[0].ID != "b01" || view.Items[4].ID != "b05" {
		t.Fatalf("unexpected page 1: %+v", view.Items)
	}

	store.SetPage(ctx, 3)
	view = store.BookingsView()
	if view.Page != 3 || len(view.Items) != 2 {
		t.Fatalf("expected 2 items on page 3, got %d on page %d", len(view.Items), view.Page)
	}
	if view.Items[0].ID != "b11" || view.Items[1].ID != "b12" {
		t.Fatalf("unexpected page 3: %+v", view.Items)
	}
}

func TestFilterEditResetsPage(t *testing.T) {
	client := &fakeBackend{bookings: seedBookings(12)}
	store := newTestStore(t, client)
	ctx := context.Background()

	store.SetPage(ctx, 3)
	if err := store.SetFilterStart(ctx, "2024-06-01"); err != nil {
		t.Fatal(err)
	}
	view := store.BookingsView()
	if view.Page != 1 {
		t.Fatalf("filter edit must reset to page 1, got %d", view.Page)
	}
	if view.Filter.Start != "2024-06-01" {
		t.Fatalf("expected start bound kept, got %q", view.Filter.Start)
	}
	if client.lastStart == 0 {
		t.Fatal("expected start epoch passed to the backend")
	}

	if err := store.SetFilterStart(ctx, "06/01/2024"); !errors.Is(err, ErrInvalidDateKey) {
		t.Fatalf("expected ErrInvalidDateKey, got %v", err)
	}
}

func TestRefreshFailureKeepsViewAndToasts(t *testing.T) {
	client := &fakeBackend{bookings: seedBookings(3)}
	store := newTestStore(t, client)
	ctx := context.Background()

	store.Refresh(ctx)
	client.listErr = errors.New("backend down")
	store.Refresh(ctx)

	view := store.BookingsView()
	if len(view.Items) != 3 {
		t.Fatalf("expected stale view kept, got %d items", len(view.Items))
	}
	if lastToast(view).Level != toast.LevelError {
		t.Fatal("expected an error toast")
	}
}

func TestAcceptSuccess(t *testing.T) {
	client := &fakeBackend{bookings: seedBookings(2)}
	store := newTestStore(t, client)
	ctx := context.Background()
	store.Refresh(ctx)

	if err := store.Accept(ctx, "b01"); err != nil {
		t.Fatal(err)
	}
	view := store.BookingsView()
	if view.Items[0].Status != backend.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", view.Items[0].Status)
	}
	if view.InFlight["b01"] {
		t.Fatal("in-flight flag must clear after the operation")
	}
}

func TestAcceptRemoteFailureAppliesLocally(t *testing.T) {
	client := &fakeBackend{bookings: seedBookings(2), acceptErr: errors.New("backend down")}
	store := newTestStore(t, client)
	ctx := context.Background()
	store.Refresh(ctx)

	if err := store.Accept(ctx, "b01"); err != nil {
		t.Fatal(err)
	}
	view := store.BookingsView()
	if view.Items[0].Status != backend.StatusConfirmed {
		t.Fatalf("expected optimistic confirmed, got %s", view.Items[0].Status)
	}
	if lastToast(view).Level != toast.LevelError {
		t.Fatal("expected an error toast alongside the optimistic status")
	}
}

func TestAcceptOnlyFromPending(t *testing.T) {
	client := &fakeBackend{bookings: seedBookings(1)}
	client.bookings[0].Status = backend.StatusCancelled
	store := newTestStore(t, client)
	ctx := context.Background()
	store.Refresh(ctx)

	if err := store.Accept(ctx, "b01"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := store.Reject(ctx, "b01"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestInFlightLocksSingleEntity(t *testing.T) {
	client := &fakeBackend{
		bookings:    seedBookings(2),
		acceptGate:  make(chan struct{}),
		acceptEnter: make(chan struct{}, 1),
	}
	store := newTestStore(t, client)
	ctx := context.Background()
	store.Refresh(ctx)

	done := make(chan error, 1)
	go func() { done <- store.Accept(ctx, "b01") }()
	<-client.acceptEnter

	if err := store.Accept(ctx, "b01"); !errors.Is(err, ErrOperationInFlight) {
		t.Fatalf("expected ErrOperationInFlight, got %v", err)
	}
	// The other booking stays operable.
	if err := store.Delete(ctx, "b02"); err != nil {
		t.Fatal(err)
	}

	close(client.acceptGate)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestRejectRemoteFailureCancelsLocally(t *testing.T) {
	client := &fakeBackend{bookings: seedBookings(1), rejectErr: errors.New("backend down")}
	store := newTestStore(t, client)
	ctx := context.Background()
	store.Refresh(ctx)

	if err := store.Reject(ctx, "b01"); err != nil {
		t.Fatal(err)
	}
	view := store.BookingsView()
	if view.Items[0].Status != backend.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", view.Items[0].Status)
	}
	if lastToast(view).Level != toast.LevelError {
		t.Fatal("expected an error toast")
	}
}

func TestDeleteHasNoFallback(t *testing.T) {
	client := &fakeBackend{bookings: seedBookings(2), deleteErr: errors.New("backend down")}
	store := newTestStore(t, client)
	ctx := context.Background()
	store.Refresh(ctx)

	if err := store.Delete(ctx, "b01"); err != nil {
		t.Fatal(err)
	}
	view := store.BookingsView()
	if len(view.Items) != 2 {
		t.Fatalf("failed delete must keep the row, got %d items", len(view.Items))
	}
	if lastToast(view).Level != toast.LevelError {
		t.Fatal("expected an error toast")
	}

	client.deleteErr = nil
	if err := store.Delete(ctx, "b01"); err != nil {
		t.Fatal(err)
	}
	view = store.BookingsView()
	if len(view.Items) != 1 || view.Items[0].ID != "b02" {
		t.Fatalf("expected b01 removed, got %+v", view.Items)
	}
}

func TestRecordBookingPrepends(t *testing.T) {
	client := &fakeBackend{bookings: seedBookings(2)}
	store := newTestStore(t, client)
	ctx := context.Background()
	store.Refresh(ctx)

	store.RecordBooking(backend.Booking{ID: "fresh", Status: backend.StatusPending})
	view := store.BookingsView()
	if view.Items[0].ID != "fresh" {
		t.Fatalf("expected new booking at head, got %s", view.Items[0].ID)
	}
	if view.Total != 3 {
		t.Fatalf("expected total bumped to 3, got %d", view.Total)
	}
}

func TestCreateEmployeeRemoteFailureKeepsLocalCopy(t *testing.T) {
	client := &fakeBackend{createEmpErr: errors.New("backend down")}
	store := newTestStore(t, client)
	ctx := context.Background()

	created := store.CreateEmployee(ctx, backend.EmployeePayload{Name: "Mia", Role: "photographer"})
	if created.ID == "" {
		t.Fatal("expected a client-generated id for the local copy")
	}
	roster := store.EmployeesView()
	if len(roster) != 1 || roster[0].Name != "Mia" {
		t.Fatalf("expected local employee kept, got %+v", roster)
	}
	if lastToast(store.BookingsView()).Level != toast.LevelError {
		t.Fatal("expected an error toast")
	}
}

func TestUpdateEmployeeRemoteFailureAppliesLocally(t *testing.T) {
	client := &fakeBackend{employees: []backend.Employee{{ID: "e1", Name: "Mia", Role: "photographer"}}}
	store := newTestStore(t, client)
	ctx := context.Background()
	store.LoadEmployees(ctx, "")

	client.updateEmpErr = errors.New("backend down")
	updated, err := store.UpdateEmployee(ctx, "e1", backend.EmployeePayload{Name: "Mia K", Role: "videographer"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Mia K" || updated.Role != "videographer" {
		t.Fatalf("expected edit applied locally, got %+v", updated)
	}

	if _, err := store.UpdateEmployee(ctx, "ghost", backend.EmployeePayload{}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestDeleteEmployeeHasNoFallback(t *testing.T) {
	client := &fakeBackend{employees: []backend.Employee{{ID: "e1", Name: "Mia"}}}
	store := newTestStore(t, client)
	ctx := context.Background()
	store.LoadEmployees(ctx, "")

	client.deleteEmpErr = errors.New("backend down")
	if err := store.DeleteEmployee(ctx, "e1"); err == nil {
		t.Fatal("expected the remote error back")
	}
	if len(store.EmployeesView()) != 1 {
		t.Fatal("failed delete must keep the employee")
	}

	client.deleteEmpErr = nil
	if err := store.DeleteEmployee(ctx, "e1"); err != nil {
		t.Fatal(err)
	}
	if len(store.EmployeesView()) != 0 {
		t.Fatal("expected employee removed")
	}
}

func TestFilterCalendarDisablesAgainstOtherBound(t *testing.T) {
	client := &fakeBackend{}
	store := newTestStore(t, client)
	ctx := context.Background()
	if err := store.SetFilterEnd(ctx, "2024-06-15"); err != nil {
		t.Fatal(err)
	}

	weeks := store.FilterCalendar("start", 2024, 5)
	var after, before bool
	for _, week := range weeks {
		for _, cell := range week {
			if cell.Key == "2024-06-20" {
				after = cell.Disabled
			}
			if cell.Key == "2024-06-10" {
				before = cell.Disabled
			}
		}
	}
	if !after {
		t.Fatal("start cells past the end bound must be disabled")
	}
	if before {
		t.Fatal("start cells before the end bound must stay selectable")
	}
}

func TestDismissToast(t *testing.T) {
	client := &fakeBackend{listErr: errors.New("backend down")}
	store := newTestStore(t, client)
	store.Refresh(context.Background())

	view := store.BookingsView()
	if len(view.Toasts) != 1 {
		t.Fatalf("expected one toast, got %d", len(view.Toasts))
	}
	if !store.DismissToast(view.Toasts[0].ID) {
		t.Fatal("expected dismiss to succeed")
	}
	if store.DismissToast("nope") {
		t.Fatal("expected dismiss of unknown id to fail")
	}
}
