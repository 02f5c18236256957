package calendar

import (
	"fmt"
	"strings"
	"time"
)

// PeriodKind selects an aggregation window.
type PeriodKind string

const (
	Daily     PeriodKind = "daily"
	Weekly    PeriodKind = "weekly"
	Monthly   PeriodKind = "monthly"
	Quarterly PeriodKind = "quarterly"
	Yearly    PeriodKind = "yearly"
)

// AllPeriods lists every period kind from the shortest to the longest.
func AllPeriods() []PeriodKind {
	return []PeriodKind{Daily, Weekly, Monthly, Quarterly, Yearly}
}

// InvalidPeriodError reports an unrecognized period selector.
type InvalidPeriodError struct {
	Value string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period %q: must be one of daily, weekly, monthly, quarterly, yearly", e.Value)
}

// ParsePeriodKind validates a period selector. Matching is case-insensitive.
func ParsePeriodKind(s string) (PeriodKind, error) {
	k := PeriodKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", &InvalidPeriodError{Value: s}
	}
	return k, nil
}

// Valid reports whether k is a known period kind.
func (k PeriodKind) Valid() bool {
	switch k {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k PeriodKind) String() string { return string(k) }

// Window is a half-open date range [Start, End).
type Window struct {
	Kind  PeriodKind
	Start Date
	End   Date
}

// WindowOf returns the window of the given kind that contains d.
//
// daily is the single day, weekly is the Monday-aligned week, monthly the
// calendar month, quarterly the calendar quarter and yearly the calendar year.
func WindowOf(kind PeriodKind, d Date) (Window, error) {
	if !kind.Valid() {
		return Window{}, &InvalidPeriodError{Value: string(kind)}
	}
	return windowOf(kind, d), nil
}

func windowOf(kind PeriodKind, d Date) Window {
	var start, end Date
	switch kind {
	case Daily:
		start = d
		end = d.AddDays(1)
	case Weekly:
		start = d.AddDays(1 - d.ISOWeekday())
		end = start.AddDays(7)
	case Monthly:
		start = NewDate(d.Year(), d.Month(), 1)
		end = NewDate(d.Year(), d.Month()+1, 1)
	case Quarterly:
		qm := time.Month(((int(d.Month())-1)/3)*3 + 1)
		start = NewDate(d.Year(), qm, 1)
		end = NewDate(d.Year(), qm+3, 1)
	case Yearly:
		start = NewDate(d.Year(), time.January, 1)
		end = NewDate(d.Year()+1, time.January, 1)
	}
	return Window{Kind: kind, Start: start, End: end}
}

// Contains reports whether d falls inside [Start, End).
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Start) && d.Before(w.End)
}

// Days returns the number of days covered by the window.
func (w Window) Days() int {
	return w.Start.DaysUntil(w.End)
}

// Previous returns the immediately preceding window of the same kind. It is a
// whole calendar period, so a month is compared with the full previous month.
func (w Window) Previous() Window {
	return windowOf(w.Kind, w.Start.AddDays(-1))
}

// Next returns the window that starts where w ends.
func (w Window) Next() Window {
	return windowOf(w.Kind, w.End)
}

// String renders the window as "kind [start, end)".
func (w Window) String() string {
	return fmt.Sprintf("%s [%s, %s)", w.Kind, w.Start, w.End)
}
