package daterange

import (
	"unitestats/domain/core"
)

// Window bounds, in days before today (JST)
const (
	windowOldestDaysAgo = 8
	windowNewestDaysAgo = 1
	defaultStartDaysAgo = 7
)

// Policy derives the rolling validity window and the default query range.
// Today is re-read from the clock on every call; the window advances daily.
type Policy struct {
	clock core.Clock
}

// NewPolicy creates a policy reading time from clock. A nil clock means the
// system wall clock.
func NewPolicy(clock core.Clock) *Policy {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Policy{clock: clock}
}

// Today returns the current JST calendar day
func (p *Policy) Today() core.Date {
	return core.Today(p.clock)
}

// CurrentWindow returns {today-8, today-1}
func (p *Policy) CurrentWindow() Range {
	today := p.Today()
	return Range{
		Start: today.AddDays(-windowOldestDaysAgo),
		End:   today.AddDays(-windowNewestDaysAgo),
	}
}

// DefaultRange returns {today-7, today-1}
func (p *Policy) DefaultRange() Range {
	today := p.Today()
	return Range{
		Start: today.AddDays(-defaultStartDaysAgo),
		End:   today.AddDays(-windowNewestDaysAgo),
	}
}

// Yesterday returns today-1, the newest day that can have complete data
func (p *Policy) Yesterday() core.Date {
	return p.Today().AddDays(-windowNewestDaysAgo)
}
