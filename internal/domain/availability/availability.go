package availability

// Slot is one of the three bookable windows of a day.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotFullDay   Slot = "fullday"
)

// SlotPriority is the fixed order used when auto-selecting a slot for
// a freshly picked date.
var SlotPriority = []Slot{SlotMorning, SlotAfternoon, SlotFullDay}

// View is the canonical availability structure for one employee:
// which calendar days are open and which slots each day offers.
type View struct {
	Dates  []string          `json:"dates"` // sorted "YYYY-MM-DD" keys
	Slots  []Slot            `json:"slots"` // flat fallback slot set
	ByDate map[string][]Slot `json:"by_date,omitempty"`
}

// Empty reports whether the view carries no availability data at all.
func (v View) Empty() bool {
	return len(v.Dates) == 0 && len(v.Slots) == 0 && len(v.ByDate) == 0
}

// DateSelectable reports whether a date key may be picked. An empty
// dates set means the backend imposed no date restriction.
func (v View) DateSelectable(key string) bool {
	if len(v.Dates) == 0 {
		return true
	}
	for _, d := range v.Dates {
		if d == key {
			return true
		}
	}
	return false
}

// SlotsFor resolves the slots open on one date: the per-date mapping
// wins, the flat slot set is the fallback.
func (v View) SlotsFor(key string) []Slot {
	if v.ByDate != nil {
		if slots, ok := v.ByDate[key]; ok {
			return slots
		}
	}
	return v.Slots
}

// AutoSlot picks the first open slot for a date in priority order.
func (v View) AutoSlot(key string) (Slot, bool) {
	open := v.SlotsFor(key)
	for _, candidate := range SlotPriority {
		for _, s := range open {
			if s == candidate {
				return candidate, true
			}
		}
	}
	return "", false
}
