package date

import (
	"fmt"
	"time"
)

// Range represents a range of dates. A zero bound leaves that side open.
type Range struct{ From, To Date }

// NewRange returns the period that contains d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// IsZero reports whether the range is open on both sides.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Contains return true date is included in the range (boundaries included).
// The zero date is only contained in a fully open range.
func (r Range) Contains(date Date) bool {
	if r.IsZero() {
		return true
	}
	if date.IsZero() {
		return false
	}
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// Period returns the period of r when r spans exactly one calendar period.
func (r Range) Period() (p Period, ok bool) {
	switch {
	case r.From.IsZero() || r.To.IsZero():
		return Daily, false
	case r.From == r.To:
		return Daily, true
	case r.From.Weekday() == time.Monday && r.From.EndOf(Weekly) == r.To:
		return Weekly, true
	case r.From.Day() == 1 && r.From.EndOf(Monthly) == r.To:
		return Monthly, true
	case r.From.StartOf(Quarterly) == r.From && r.From.EndOf(Quarterly) == r.To:
		return Quarterly, true
	case r.From.StartOf(Yearly) == r.From && r.From.EndOf(Yearly) == r.To:
		return Yearly, true
	default:
		return Daily, false
	}
}

// Identifier is a short name for r fit for file names: "2025-Q3" for a
// quarter, "2025-09-02_2025-09-10" for other closed ranges.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}

	switch p {
	case Daily:
		return r.From.String()
	case Weekly:
		_, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", r.From.Year(), week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		panic("unknown period")
	}
}

// String returns a human readable form of the range.
func (r Range) String() string {
	switch {
	case r.IsZero():
		return "all dates"
	case r.From.IsZero():
		return "until " + r.To.String()
	case r.To.IsZero():
		return "since " + r.From.String()
	default:
		return r.From.String() + " to " + r.To.String()
	}
}
