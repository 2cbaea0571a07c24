package calendar

import (
	"github.com/studiobook/studiobook-api/internal/domain/availability"
)

// DatePicker drives the customer's booking date against one
// employee's normalized availability.
type DatePicker struct {
	View availability.View `json:"view"`
	Date string            `json:"date,omitempty"`
	Slot availability.Slot `json:"slot,omitempty"`
}

// Select picks a date. It reports false and changes nothing when the
// availability view rules the date out. On success the slot for the
// day is auto-selected in priority order, or cleared when the day
// offers none.
func (p *DatePicker) Select(key string) bool {
	if !p.View.DateSelectable(key) {
		return false
	}
	p.Date = key
	if slot, ok := p.View.AutoSlot(key); ok {
		p.Slot = slot
	} else {
		p.Slot = ""
	}
	return true
}

// SelectSlot picks a slot explicitly; only slots the current date
// offers are accepted.
func (p *DatePicker) SelectSlot(slot availability.Slot) bool {
	if p.Date == "" {
		return false
	}
	// A backend that supplied no availability data imposes no slot
	// restriction either.
	if p.View.Empty() {
		p.Slot = slot
		return true
	}
	for _, open := range p.View.SlotsFor(p.Date) {
		if open == slot {
			p.Slot = slot
			return true
		}
	}
	return false
}

// Reset clears the selection and installs a new availability view,
// as happens when the chosen employee changes.
func (p *DatePicker) Reset(view availability.View) {
	p.View = view
	p.Date = ""
	p.Slot = ""
}

// CellDisabled reports whether a grid cell is non-selectable under
// the current availability view.
func (p *DatePicker) CellDisabled(key string) bool {
	return !p.View.DateSelectable(key)
}
