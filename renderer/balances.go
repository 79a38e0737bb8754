package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tradebook"
)

// BalancesMarkdown renders the account summaries followed by the running
// balance of each account.
func BalancesMarkdown(b tradebook.Balances, currency string) string {
	var s strings.Builder
	renderBalances(&s, b, currency, 1)
	return s.String()
}

func renderBalances(s *strings.Builder, b tradebook.Balances, currency string, level int) {
	h := strings.Repeat("#", level)
	fmt.Fprintf(s, "%s Account Balances\n\n", h)
	if len(b.Accounts) == 0 {
		fmt.Fprint(s, "No ledger entries.\n\n")
		return
	}
	fmt.Fprintln(s, "| Account | Opening | Debit | Credit | Closing | Entries |")
	fmt.Fprintln(s, "|:---|---:|---:|---:|---:|---:|")
	for _, a := range b.Accounts {
		fmt.Fprintf(s, "| %s | %s | %s | %s | %s | %d |\n",
			cell(a.Account),
			money(a.Opening, currency),
			money(a.Debit, currency),
			money(a.Credit, currency),
			a.Closing.In(currency).SignedString(),
			a.Rows,
		)
	}
	fmt.Fprintln(s)

	for _, a := range b.Accounts {
		rows := b.AccountRows(a.AccountKey)
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(s, "%s# %s\n\n", h, cell(a.Account))
		fmt.Fprintln(s, "| Date | Description | Category | Debit | Credit | Balance |")
		fmt.Fprintln(s, "|:---|:---|:---|---:|---:|---:|")
		for _, r := range rows {
			desc := cell(r.Description)
			if r.Opening {
				desc = "*" + desc + "*"
			}
			fmt.Fprintf(s, "| %s | %s | %s | %s | %s | %s |\n",
				day(r.When),
				desc,
				r.Category,
				blank(r.Debit, currency),
				blank(r.Credit, currency),
				r.Balance.In(currency).SignedString(),
			)
		}
		fmt.Fprintln(s)
	}

	ConditionalBlock(s, func(w io.Writer) bool {
		fmt.Fprintf(w, "%s# Undated Entries\n\n", h)
		fmt.Fprintln(w, "These entries have no valid date and are left out of the balances.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Account | Description | Debit | Credit |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|")
		for _, e := range b.Unordered {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", cell(e.Account), cell(e.Description), blank(e.Debit, currency), blank(e.Credit, currency))
		}
		fmt.Fprintln(w)
		return len(b.Unordered) > 0
	})
}
