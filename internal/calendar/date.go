// Package calendar provides civil-date arithmetic, period windows and the
// clock abstraction used to inject "now" into the engine.
package calendar

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format for dates (ISO 8601 calendar date).
const Layout = "2006-01-02"

// Date is a calendar date without a time component. It is always stored as
// midnight UTC so that arithmetic never crosses a DST boundary.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month and day. Out-of-range values are
// normalized the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as observed in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(Layout)
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Time.After(o.Time) }

// Equal reports whether d and o are the same calendar date.
func (d Date) Equal(o Date) bool { return d.Time.Equal(o.Time) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.Time.Compare(o.Time) }

// AddDays moves the date by n days.
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// AddWeeks moves the date by n weeks.
func (d Date) AddWeeks(n int) Date { return d.AddDays(7 * n) }

// AddMonths moves the date by n months, clamping the day to the length of the
// target month (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date { return AddMonthsClamped(d, n, d.Day()) }

// AddQuarters moves the date by n quarters with the same clamping as AddMonths.
func (d Date) AddQuarters(n int) Date { return d.AddMonths(3 * n) }

// AddYears moves the date by n years (Feb 29 clamps to Feb 28).
func (d Date) AddYears(n int) Date { return d.AddMonths(12 * n) }

// DaysUntil returns the number of days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.Time.Sub(d.Time) / (24 * time.Hour))
}

// ISOWeekday returns the weekday numbered Monday=1 through Sunday=7.
func (d Date) ISOWeekday() int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate builds a date in the given year and month, moving day to the
// last day of the month when the month is shorter. Month overflow (13, -1)
// rolls into adjacent years first.
func ClampedDate(year int, month time.Month, day int) Date {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	y, m := first.Year(), first.Month()
	if last := DaysIn(y, m); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return NewDate(y, m, day)
}

// AddMonthsClamped returns the given day of the month n months after d's month.
func AddMonthsClamped(d Date, n int, day int) Date {
	return ClampedDate(d.Year(), d.Month()+time.Month(n), day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty value yields the
// zero date.
func (d *Date) UnmarshalText(b []byte) error {
	if len(strings.TrimSpace(string(b))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON encodes the date as "YYYY-MM-DD" (or null for the zero date),
// overriding the promoted time.Time encoding.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" or null.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}
