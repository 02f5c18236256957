package core

import (
	"fmt"

	"budgetflow/internal/calendar"
)

// InvalidScheduleError reports a malformed anchor/frequency combination or a
// lastCompletedOn date in the future.
type InvalidScheduleError struct {
	ItemID string
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule for planned item %q: %s", e.ItemID, e.Reason)
}

// AlreadyCompletedError is returned when a planned item is paid again inside
// the cycle it was already completed in.
type AlreadyCompletedError struct {
	ItemID         string
	CompletedOn    calendar.Date
	NextOccurrence calendar.Date
}

func (e *AlreadyCompletedError) Error() string {
	return fmt.Sprintf("planned item %q already completed on %s, next due %s", e.ItemID, e.CompletedOn, e.NextOccurrence)
}

// InvalidPeriodError reports an unrecognized period selector.
type InvalidPeriodError = calendar.InvalidPeriodError

// EmptyPeriodError is returned only when the caller asks for strict
// aggregation and the window holds no income or expense transactions.
type EmptyPeriodError struct {
	Window calendar.Window
}

func (e *EmptyPeriodError) Error() string {
	return fmt.Sprintf("no transactions in %s", e.Window)
}
