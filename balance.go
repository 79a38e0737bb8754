package tradebook

import "sort"

// AccountBalanceRow is a ledger entry annotated with the account balance
// after it.
type AccountBalanceRow struct {
	LedgerEntry
	Balance Money
	// Opening is set on an opening-balance sentinel row, whose balance is
	// the absolute baseline credit − debit.
	Opening bool
}

// AccountSummary sums the rows of one account. Debit and Credit exclude the
// opening row so that Closing == Opening + Credit − Debit.
type AccountSummary struct {
	Account    string `json:"account"`
	AccountKey string `json:"key"`
	Opening    Money  `json:"opening"`
	Debit      Money  `json:"debit"`
	Credit     Money  `json:"credit"`
	Closing    Money  `json:"closing"`
	Rows       int    `json:"rows"`
	Unordered  int    `json:"unordered,omitempty"` // entries without a date, left out of the balance
}

// Balances is the result of a running balance computation.
type Balances struct {
	Rows      []AccountBalanceRow `json:"rows"`      // by account key, then date
	Unordered []LedgerEntry       `json:"unordered"` // entries without a date, in input order
	Accounts  []AccountSummary    `json:"accounts"`  // by account key
}

// RunningBalances computes the running balance of entries taken as a single
// account.
//
// Entries are sorted by date, ties keeping their input order. The balance
// starts at 0 and each row adds credit − debit. When the first row is an
// opening-balance sentinel its balance is set to credit − debit instead.
// Entries without a date cannot be ordered: they are returned in Unordered
// and do not contribute to the balance.
func RunningBalances(entries []LedgerEntry) Balances {
	var dated, undated []LedgerEntry
	for _, e := range entries {
		if e.When.IsZero() {
			undated = append(undated, e)
			continue
		}
		dated = append(dated, e)
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].When.Before(dated[j].When) })

	b := Balances{Unordered: undated, Rows: make([]AccountBalanceRow, 0, len(dated))}
	s := AccountSummary{Rows: len(dated), Unordered: len(undated)}
	var balance Money
	for i, e := range dated {
		row := AccountBalanceRow{LedgerEntry: e}
		if i == 0 && e.IsOpening() {
			balance = e.Credit.Sub(e.Debit)
			row.Opening = true
			s.Opening = balance
		} else {
			balance = balance.Add(e.Credit).Sub(e.Debit)
			s.Debit = s.Debit.Add(e.Debit)
			s.Credit = s.Credit.Add(e.Credit)
		}
		row.Balance = balance
		b.Rows = append(b.Rows, row)
	}
	s.Closing = balance
	for _, e := range entries {
		if e.Account != "" {
			s.Account, s.AccountKey = e.Account, e.AccountKey
			break
		}
	}
	b.Accounts = []AccountSummary{s}
	return b
}

// RunningBalancesByAccount partitions entries by account key and computes
// the running balances of each account independently.
func RunningBalancesByAccount(entries []LedgerEntry) Balances {
	accounts := make(map[string][]LedgerEntry)
	for _, e := range entries {
		accounts[e.AccountKey] = append(accounts[e.AccountKey], e)
	}
	var res Balances
	for _, key := range SortedKeys(accounts) {
		b := RunningBalances(accounts[key])
		res.Rows = append(res.Rows, b.Rows...)
		res.Unordered = append(res.Unordered, b.Unordered...)
		res.Accounts = append(res.Accounts, b.Accounts...)
	}
	return res
}

// Account returns the summary of the account, normalized, and whether it
// exists.
func (b Balances) Account(account string) (AccountSummary, bool) {
	key := NormalizeKey(account)
	for _, s := range b.Accounts {
		if s.AccountKey == key {
			return s, true
		}
	}
	return AccountSummary{}, false
}

// AccountRows returns the balance rows of one account, in date order.
func (b Balances) AccountRows(account string) []AccountBalanceRow {
	key := NormalizeKey(account)
	var rows []AccountBalanceRow
	for _, r := range b.Rows {
		if r.AccountKey == key {
			rows = append(rows, r)
		}
	}
	return rows
}
