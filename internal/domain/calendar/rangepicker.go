package calendar

// RangePicker is the admin date-range filter: two bounds, each backed
// by its own month grid. Whenever both bounds are set, start <= end
// holds; a selection that would break the invariant pulls the other
// bound along instead of failing.
//
// Date keys compare lexicographically in calendar order, so plain
// string comparison is enough here.
type RangePicker struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// SelectStart sets the start bound. An end strictly before the new
// start is pulled forward to equal it.
func (p *RangePicker) SelectStart(key string) {
	p.Start = key
	if p.End != "" && p.End < key {
		p.End = key
	}
}

// SelectEnd sets the end bound. A start strictly after the new end is
// pulled down to equal it.
func (p *RangePicker) SelectEnd(key string) {
	p.End = key
	if p.Start != "" && p.Start > key {
		p.Start = key
	}
}

// Clear drops both bounds.
func (p *RangePicker) Clear() {
	p.Start = ""
	p.End = ""
}

// StartCellDisabled reports whether a cell in the start calendar is
// non-selectable relative to the current end bound.
func (p *RangePicker) StartCellDisabled(key string) bool {
	return p.End != "" && key > p.End
}

// EndCellDisabled reports whether a cell in the end calendar is
// non-selectable relative to the current start bound.
func (p *RangePicker) EndCellDisabled(key string) bool {
	return p.Start != "" && key < p.Start
}

// Contains reports whether a date key falls inside the current
// filter. An unset bound does not constrain.
func (p *RangePicker) Contains(key string) bool {
	if p.Start != "" && key < p.Start {
		return false
	}
	if p.End != "" && key > p.End {
		return false
	}
	return true
}

// Bounds converts the filter to inclusive unix-second bounds for the
// backend query, the end expanded to end of day. Zero means unbounded.
func (p *RangePicker) Bounds() (start, end int64) {
	return StartOfDayEpoch(p.Start), EndOfDayEpoch(p.End)
}
