package calendar

import (
	"fmt"
	"time"
)

// Cell is one day cell of a month grid. Leading and trailing
// placeholders around the month are blank: no day, no key.
type Cell struct {
	Day int    `json:"day,omitempty"`
	Key string `json:"key,omitempty"` // "YYYY-MM-DD"
}

// Blank reports whether the cell is a placeholder.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// Week is one Sunday-first row of the grid.
type Week [7]Cell

// Grid is the month matrix for one reference month. Month is
// zero-based to match the wire format of the pickers.
type Grid struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Weeks []Week `json:"weeks"`
}

// BuildGrid lays out the month (year, zero-based month) as rows of
// exactly 7 cells. It is a pure function: no I/O, no clock reads.
//
// Date keys come from plain calendar arithmetic on year/month/day.
// Nothing here round-trips through a timestamp, so a host timezone
// can never shift a cell onto a neighboring day.
func BuildGrid(year, month int) Grid {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.Local)
	leading := int(first.Weekday())

	// Day 0 of the next month is the last day of this one.
	daysInMonth := time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.Local).Day()

	rows := (leading + daysInMonth + 6) / 7
	weeks := make([]Week, rows)

	day := 1
	for row := 0; row < rows; row++ {
		for col := 0; col < 7; col++ {
			index := row*7 + col
			if index < leading || day > daysInMonth {
				continue
			}
			weeks[row][col] = Cell{
				Day: day,
				Key: fmt.Sprintf("%04d-%02d-%02d", first.Year(), int(first.Month()), day),
			}
			day++
		}
	}

	return Grid{Year: year, Month: month, Weeks: weeks}
}

// RenderedCell is a grid cell tagged with whether a picker allows
// selecting it.
type RenderedCell struct {
	Cell
	Disabled bool `json:"disabled,omitempty"`
}

// Render applies a picker's selectability rule to every non-blank
// cell. Blank cells are never selectable, so they stay untagged.
func (g Grid) Render(disabled func(key string) bool) [][]RenderedCell {
	out := make([][]RenderedCell, len(g.Weeks))
	for i, week := range g.Weeks {
		row := make([]RenderedCell, 7)
		for j, cell := range week {
			row[j] = RenderedCell{Cell: cell}
			if !cell.Blank() && disabled != nil {
				row[j].Disabled = disabled(cell.Key)
			}
		}
		out[i] = row
	}
	return out
}
