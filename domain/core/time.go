package core

import (
	"fmt"
	"time"
)

// JST is the fixed UTC+9 anchor for every day-boundary computation.
// It is a fixed offset, not a tz database location, so results never depend
// on the host's zoneinfo or local timezone.
var JST = time.FixedZone("JST", 9*60*60)

// DateLayout is the wire form of a calendar date.
const DateLayout = "2006-01-02"

// Clock supplies wall-clock time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock time.Time

// Now returns the fixed instant
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Date is a calendar day in JST with no time-of-day component.
// The zero Date is "unset".
type Date struct {
	t time.Time
}

// NewDate builds a Date from its calendar parts
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, JST)}
}

// DateOf truncates an instant to its JST calendar day
func DateOf(t time.Time) Date {
	return NewDate(t.In(JST).Date())
}

// Today returns the JST calendar day of the clock's current instant
func Today(c Clock) Date {
	return DateOf(c.Now())
}

// ParseDate parses a YYYY-MM-DD string as a JST calendar day
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, JST)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// AddDays shifts the date by n calendar days
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Start returns midnight JST at the beginning of the day
func (d Date) Start() time.Time { return d.t }

// End returns midnight JST at the beginning of the next day (exclusive bound)
func (d Date) End() time.Time { return d.t.AddDate(0, 0, 1) }

// IsZero reports whether the date is unset
func (d Date) IsZero() bool { return d.t.IsZero() }

// Compare returns -1, 0 or +1 as d is before, equal to or after o
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

// Before reports whether d is strictly before o
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is strictly after o
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same day
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText encodes the date as YYYY-MM-DD
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes YYYY-MM-DD; an empty value leaves the date unset
func (d *Date) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
