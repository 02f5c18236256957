// Package schedule computes the next occurrence and lifecycle status of
// recurring planned items.
//
// This file implements one Cadence strategy per frequency. Weekly items are
// anchored to an ISO weekday, month-based items to a day of the month that is
// clamped to the length of the target month.
package schedule

import (
	"fmt"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
)

// Cadence is the strategy interface for walking the occurrences of a
// frequency.
type Cadence interface {
	// After returns the first occurrence in the cycle following the one that
	// contains last.
	After(anchor int, last calendar.Date) calendar.Date
	// OnOrAfter returns the first occurrence that falls on or after d.
	OnOrAfter(anchor int, d calendar.Date) calendar.Date
}

// WeeklyCadence anchors occurrences to an ISO weekday (Monday=1..Sunday=7).
type WeeklyCadence struct{}

// After returns the anchor weekday of the week after last's week.
func (WeeklyCadence) After(anchor int, last calendar.Date) calendar.Date {
	monday := last.AddDays(1 - last.ISOWeekday())
	return monday.AddDays(7 + anchor - 1)
}

func (WeeklyCadence) OnOrAfter(anchor int, d calendar.Date) calendar.Date {
	return d.AddDays((anchor - d.ISOWeekday() + 7) % 7)
}

// MonthCadence anchors occurrences to a day of the month and advances Step
// months per cycle.
type MonthCadence struct {
	Step int
}

// After returns the clamped anchor day Step months after last's month.
func (c MonthCadence) After(anchor int, last calendar.Date) calendar.Date {
	return calendar.AddMonthsClamped(last, c.Step, anchor)
}

// OnOrAfter returns the anchor day of d's month, or of the following month
// when that day has already passed. The first occurrence fixes the phase of
// quarterly and yearly items.
func (c MonthCadence) OnOrAfter(anchor int, d calendar.Date) calendar.Date {
	candidate := calendar.AddMonthsClamped(d, 0, anchor)
	if candidate.Before(d) {
		return calendar.AddMonthsClamped(d, 1, anchor)
	}
	return candidate
}

var cadences = map[core.Frequency]Cadence{
	core.Weekly:    WeeklyCadence{},
	core.Monthly:   MonthCadence{Step: 1},
	core.Quarterly: MonthCadence{Step: 3},
	core.Yearly:    MonthCadence{Step: 12},
}

// CadenceFor returns the strategy registered for frequency.
func CadenceFor(frequency core.Frequency) (Cadence, error) {
	c, ok := cadences[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return c, nil
}

// RegisterCadence replaces or adds the strategy for a frequency. It is not
// safe to call concurrently with Compute.
func RegisterCadence(frequency core.Frequency, c Cadence) {
	cadences[frequency] = c
}
