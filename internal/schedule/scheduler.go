package schedule

import (
	"fmt"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
)

// Compute derives the next occurrence and status of item as seen on today.
//
// Status precedence is completed, overdue, due today, upcoming. An item is
// completed while its last completion falls inside the current cycle window.
func Compute(item core.PlannedItem, today calendar.Date) (core.ScheduleResult, error) {
	if err := validateSchedule(item, today); err != nil {
		return core.ScheduleResult{}, err
	}
	cadence, err := CadenceFor(item.Frequency)
	if err != nil {
		return core.ScheduleResult{}, &core.InvalidScheduleError{ItemID: item.ID, Reason: err.Error()}
	}

	var next calendar.Date
	switch {
	case !item.LastCompletedOn.IsZero():
		next = cadence.After(item.Anchor, item.LastCompletedOn)
	case !item.StartsOn.IsZero():
		next = cadence.OnOrAfter(item.Anchor, item.StartsOn)
	default:
		next = cadence.OnOrAfter(item.Anchor, today)
	}

	res := core.ScheduleResult{NextOccurrence: next, DaysUntil: today.DaysUntil(next)}
	switch {
	case completedIn(item, today):
		res.Status = core.StatusCompleted
	case today.After(next):
		res.Status = core.StatusOverdue
	case today.Equal(next):
		res.Status = core.StatusDueToday
	default:
		res.Status = core.StatusUpcoming
	}
	return res, nil
}

// MarkPaid returns a copy of item completed on today. The caller persists it.
func MarkPaid(item core.PlannedItem, today calendar.Date) (core.PlannedItem, error) {
	if err := validateSchedule(item, today); err != nil {
		return core.PlannedItem{}, err
	}
	item.LastCompletedOn = today
	return item, nil
}

// ReminderDue reports whether a reminder should go out for item: reminders
// are enabled, the item is not completed, and it falls due within leadDays.
func ReminderDue(item core.PlannedItem, res core.ScheduleResult, leadDays int) bool {
	if !item.ReminderEnabled {
		return false
	}
	switch res.Status {
	case core.StatusOverdue, core.StatusDueToday:
		return true
	case core.StatusUpcoming:
		return res.DaysUntil <= leadDays
	default:
		return false
	}
}

func completedIn(item core.PlannedItem, today calendar.Date) bool {
	if item.LastCompletedOn.IsZero() {
		return false
	}
	w, err := calendar.WindowOf(item.Frequency.Period(), today)
	if err != nil {
		return false
	}
	return w.Contains(item.LastCompletedOn)
}

func validateSchedule(item core.PlannedItem, today calendar.Date) error {
	if !item.Frequency.Valid() {
		return &core.InvalidScheduleError{ItemID: item.ID, Reason: fmt.Sprintf("unknown frequency %q", item.Frequency)}
	}
	lo, hi := item.Frequency.AnchorRange()
	if item.Anchor < lo || item.Anchor > hi {
		return &core.InvalidScheduleError{
			ItemID: item.ID,
			Reason: fmt.Sprintf("anchor %d out of range %d-%d for %s frequency", item.Anchor, lo, hi, item.Frequency),
		}
	}
	if item.LastCompletedOn.After(today) {
		return &core.InvalidScheduleError{
			ItemID: item.ID,
			Reason: fmt.Sprintf("last completed on %s is after %s", item.LastCompletedOn, today),
		}
	}
	return nil
}
