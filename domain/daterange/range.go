package daterange

import (
	"unitestats/domain/core"
)

// Range is an inclusive span of JST calendar days
type Range struct {
	Start core.Date `json:"start_date"`
	End   core.Date `json:"end_date"`
}

// New builds a Range without validating it
func New(start, end core.Date) Range {
	return Range{Start: start, End: end}
}

// IsZero reports whether neither bound is set
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Days returns every day in the range, oldest first. An inverted range yields nil.
func (r Range) Days() []core.Date {
	if r.End.Before(r.Start) {
		return nil
	}
	var days []core.Date
	for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (r Range) String() string {
	return r.Start.String() + ".." + r.End.String()
}
