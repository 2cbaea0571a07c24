package backend

// Booking lifecycle. Transitions are monotonic: pending moves to
// confirmed or cancelled, confirmed moves to completed, and nothing
// leaves cancelled or completed.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Employee represents an employee record as the booking backend stores it.
type Employee struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"` // photographer or videographer
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt int64  `json:"created_at,omitempty"` // unix seconds
}

// EmployeePayload is the body for employee create/update calls.
type EmployeePayload struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// EmployeePage is one page of the employee collection.
type EmployeePage struct {
	Items []Employee `json:"items"`
	Total int        `json:"total"`
}

// Booking represents a booking request record.
type Booking struct {
	ID            string `json:"id"`
	Service       string `json:"service"` // photographer or videographer
	EmployeeID    string `json:"employee_id"`
	Date          string `json:"date"` // "YYYY-MM-DD"
	Slot          string `json:"slot"` // morning, afternoon or fullday
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	Status        string `json:"status"`               // pending, confirmed, cancelled, completed
	CreatedAt     int64  `json:"created_at,omitempty"` // unix seconds
}

// BookingPayload is the body for booking create calls. The id is
// client-chosen so a failed create can still be tracked locally.
type BookingPayload struct {
	ID            string `json:"id"`
	Service       string `json:"service"`
	EmployeeID    string `json:"employee_id"`
	Date          string `json:"date"`
	Slot          string `json:"slot"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
}

// BookingPage is one page of the booking collection.
type BookingPage struct {
	Items []Booking `json:"items"`
	Total int       `json:"total"`
}
