package daterange

import (
	"fmt"

	"unitestats/domain/core"
)

// IsValid reports whether r lies entirely inside window with start <= end.
// Pure; used to gate a query before it is issued.
func IsValid(r Range, window Range) bool {
	return !r.Start.Before(window.Start) &&
		!r.Start.After(window.End) &&
		!r.End.Before(window.Start) &&
		!r.End.After(window.End) &&
		!r.Start.After(r.End)
}

// RangeError names the bound a range violated
type RangeError struct {
	Field  string
	Reason string
	Range  Range
	Window Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %s (valid window %s)", e.Field, e.Reason, e.Window)
}

// Unwrap lets callers match core.ErrInvalidRange
func (e *RangeError) Unwrap() error {
	return core.ErrInvalidRange
}

// Validate checks r against the current window and reports the first
// violated bound. It accepts exactly the ranges IsValid accepts.
func (p *Policy) Validate(r Range) error {
	window := p.CurrentWindow()
	fail := func(field, reason string) error {
		return &RangeError{Field: field, Reason: reason, Range: r, Window: window}
	}

	switch {
	case r.Start.IsZero():
		return fail("start_date", "is required")
	case r.End.IsZero():
		return fail("end_date", "is required")
	case r.Start.Before(window.Start):
		return fail("start_date", "is more than 8 days ago")
	case r.Start.After(window.End):
		return fail("start_date", "must be yesterday or earlier")
	case r.End.Before(window.Start):
		return fail("end_date", "is more than 8 days ago")
	case r.End.After(window.End):
		return fail("end_date", "must be yesterday or earlier")
	case r.End.Before(r.Start):
		return fail("end_date", "must be on or after start_date")
	}
	return nil
}

// Resolve turns raw query parameters into a validated range. Missing values
// fall back to DefaultRange.
func (p *Policy) Resolve(start, end string) (Range, error) {
	var r Range

	if start != "" {
		d, err := core.ParseDate(start)
		if err != nil {
			return Range{}, fmt.Errorf("start_date: %w", err)
		}
		r.Start = d
	}
	if end != "" {
		d, err := core.ParseDate(end)
		if err != nil {
			return Range{}, fmt.Errorf("end_date: %w", err)
		}
		r.End = d
	}

	r = p.Fill(r)
	if err := p.Validate(r); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Fill takes each zero bound of r from DefaultRange
func (p *Policy) Fill(r Range) Range {
	def := p.DefaultRange()
	if r.Start.IsZero() {
		r.Start = def.Start
	}
	if r.End.IsZero() {
		r.End = def.End
	}
	return r
}
