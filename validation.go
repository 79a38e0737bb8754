package tradebook

import (
	"errors"
	"fmt"
)

// Collections of records.
const (
	LedgerCollection = "ledger"
	StockCollection  = "stock"
)

// Issue is a record the engine could only partially use.
type Issue struct {
	Collection string `json:"collection"`
	Index      int    `json:"index"` // position of the record in its collection
	ID         string `json:"id,omitempty"`
	Problem    string `json:"problem"`
}

func (i Issue) Error() string {
	id := i.ID
	if id == "" {
		id = fmt.Sprintf("#%d", i.Index+1)
	}
	return fmt.Sprintf("%s record %s: %s", i.Collection, id, i.Problem)
}

// Validate lists the issues of the records of s, ledger first, in record
// order. It returns nil when every record is fully usable.
func Validate(s *Snapshot) []Issue {
	var issues []Issue
	for i, e := range s.Entries() {
		add := func(format string, args ...any) {
			issues = append(issues, Issue{Collection: LedgerCollection, Index: i, ID: e.ID, Problem: fmt.Sprintf(format, args...)})
		}
		if e.When.IsZero() {
			add("no valid date, left out of balances")
		}
		if e.AccountKey == "" {
			add("no account")
		}
		if e.Category != CategorySale {
			continue
		}
		if !e.IsComposite() {
			if e.Product == "" {
				add("sale without product, not attributed")
			}
			continue
		}
		for j, item := range e.Items {
			if item.Product == "" {
				add("line item %d without product, not attributed", j+1)
			}
		}
	}
	for i, r := range s.StockReceipts() {
		add := func(format string, args ...any) {
			issues = append(issues, Issue{Collection: StockCollection, Index: i, ID: r.ID, Problem: fmt.Sprintf(format, args...)})
		}
		switch {
		case r.Product == "":
			add("no product, ignored")
		case r.Quantity.IsZero():
			add("zero quantity, ignored")
		case r.IsPurchase() && r.HasRemaining && !r.Remaining.Equal(r.ExplicitRemaining()):
			add("remaining %s out of [0, %s], clamped", r.Remaining, r.Quantity)
		}
	}
	return issues
}

// Errors joins issues into a single error, nil when there are none.
func Errors(issues []Issue) error {
	errs := make([]error, len(issues))
	for i, issue := range issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}
