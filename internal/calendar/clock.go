package calendar

import "time"

// Clock supplies the reference "now". Engine functions take now as an
// argument; services obtain it from a Clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock, optionally converted to Location so that
// "today" follows the user's timezone.
type SystemClock struct {
	Location *time.Location
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		return now.In(c.Location)
	}
	return now
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time { return c.T }

// Today returns the calendar date of c.Now().
func Today(c Clock) Date {
	return DateOf(c.Now())
}
