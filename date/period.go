package date

import (
	"fmt"
	"strings"
)

// Period is a calendar period used to select ledger entries, like the
// current month or a given quarter.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// Periods lists the names accepted by ParsePeriod, shortest first.
var Periods = []string{"day", "week", "month", "quarter", "year"}

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return []string{"daily", "weekly", "monthly", "quarterly", "yearly"}[p]
}

// ParsePeriod reads a period from its name ("month") or adjective
// ("monthly"), ignoring case and surrounding blanks.
func ParsePeriod(s string) (Period, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, short := range Periods {
		p := Period(i)
		if name == short || name == p.String() {
			return p, nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q, want one of %s", s, strings.Join(Periods, ", "))
}
