package toast

import (
	"time"

	"github.com/google/uuid"
)

// Level classifies a toast.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Toast is one transient notification shown to the user.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier pushes events to whoever renders them. The delivery
// mechanism is external; stores only hold a handle.
type Notifier interface {
	Publish(event interface{})
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) Publish(interface{}) {}

// Queue is the explicit toast state: owned by a store, mutated only
// on the dispatch loop, handed out as read-only copies. Not a global.
type Queue struct {
	items    []Toast
	max      int
	notifier Notifier
}

// NewQueue creates a queue keeping at most max toasts.
func NewQueue(max int, notifier Notifier) *Queue {
	if max <= 0 {
		max = 10
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Queue{max: max, notifier: notifier}
}

// Push appends a toast, evicting the oldest beyond the cap, and
// publishes it.
func (q *Queue) Push(level Level, message string) Toast {
	t := Toast{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
	q.items = append(q.items, t)
	if len(q.items) > q.max {
		q.items = q.items[len(q.items)-q.max:]
	}

	q.notifier.Publish(map[string]interface{}{
		"type": "toast",
		"data": t,
	})
	return t
}

// Error is shorthand for an error-level toast.
func (q *Queue) Error(message string) Toast {
	return q.Push(LevelError, message)
}

// Success is shorthand for a success-level toast.
func (q *Queue) Success(message string) Toast {
	return q.Push(LevelSuccess, message)
}

// List returns a copy of the pending toasts, oldest first.
func (q *Queue) List() []Toast {
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

// Dismiss removes one toast by id.
func (q *Queue) Dismiss(id string) bool {
	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}
