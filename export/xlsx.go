package export

import (
	"fmt"
	"io"
	"time"

	"github.com/etnz/tradebook"
	"github.com/xuri/excelize/v2"
)

// sheet is the content of one worksheet.
type sheet struct {
	name   string
	header []any
	rows   [][]any
}

// WriteXLSX writes report as a workbook with one sheet per table.
func WriteXLSX(w io.Writer, report *tradebook.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets(report) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeSheet(f, s); err != nil {
			return fmt.Errorf("writing sheet %q: %w", s.name, err)
		}
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, s sheet) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	// Header on top, always visible.
	return f.SetPanes(s.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func sheets(r *tradebook.Report) []sheet {
	positions := sheet{
		name:   "Positions",
		header: []any{"Product", "Purchased", "Sold", "Remaining", "Oversold", "Source", "Method", "Average Unit Cost", "Purchase Value", "Remaining Value", "Sold Value", "Cost of Sold", "Profit", "Margin"},
	}
	receipts := sheet{
		name:   "Receipts",
		header: []any{"Product", "Date", "Supplier", "Status", "Quantity", "Unit Cost", "Total Cost", "Sold", "Remaining", "Exact"},
	}
	for _, p := range r.Positions {
		positions.rows = append(positions.rows, []any{
			p.Product,
			p.Purchased.InexactFloat64(),
			p.Sold.InexactFloat64(),
			p.Remaining.InexactFloat64(),
			p.Oversold.InexactFloat64(),
			p.SoldSource.String(),
			p.Method.String(),
			p.AverageUnitCost.InexactFloat64(),
			p.PurchaseValue.InexactFloat64(),
			p.RemainingValue.InexactFloat64(),
			p.SoldValue.InexactFloat64(),
			p.CostOfSold.InexactFloat64(),
			p.Profit.InexactFloat64(),
			margin(p.Margin),
		})
		for _, row := range p.Rows {
			receipts.rows = append(receipts.rows, []any{
				p.Product,
				date(row.When),
				row.Supplier,
				row.Status,
				row.Quantity.InexactFloat64(),
				row.UnitCost().InexactFloat64(),
				row.TotalCost().InexactFloat64(),
				row.Sold.InexactFloat64(),
				row.Remaining.InexactFloat64(),
				row.Exact,
			})
		}
	}

	t := r.Totals
	positions.rows = append(positions.rows, []any{
		"Total",
		t.Purchased.InexactFloat64(),
		t.Sold.InexactFloat64(),
		t.Remaining.InexactFloat64(),
		t.Oversold.InexactFloat64(),
		"",
		"",
		"",
		t.PurchaseValue.InexactFloat64(),
		t.RemainingValue.InexactFloat64(),
		t.SoldValue.InexactFloat64(),
		t.CostOfSold.InexactFloat64(),
		t.Profit.InexactFloat64(),
		margin(t.Margin),
	})

	accounts := sheet{
		name:   "Accounts",
		header: []any{"Account", "Opening", "Debit", "Credit", "Closing", "Entries", "Undated"},
	}
	for _, a := range r.Balances.Accounts {
		accounts.rows = append(accounts.rows, []any{
			a.Account,
			a.Opening.InexactFloat64(),
			a.Debit.InexactFloat64(),
			a.Credit.InexactFloat64(),
			a.Closing.InexactFloat64(),
			a.Rows,
			a.Unordered,
		})
	}

	balances := sheet{
		name:   "Balances",
		header: []any{"Account", "Date", "Description", "Category", "Debit", "Credit", "Balance", "Opening"},
	}
	for _, row := range r.Balances.Rows {
		balances.rows = append(balances.rows, []any{
			row.Account,
			date(row.When),
			row.Description,
			row.Category.String(),
			row.Debit.InexactFloat64(),
			row.Credit.InexactFloat64(),
			row.Balance.InexactFloat64(),
			row.Opening,
		})
	}

	sales := sheet{
		name:   "Sales",
		header: []any{"Date", "Product", "Quantity", "Value", "Entry"},
	}
	for _, s := range r.Sales {
		sales.rows = append(sales.rows, []any{
			date(s.When),
			s.Product,
			s.Quantity.InexactFloat64(),
			s.Value.InexactFloat64(),
			s.EntryID,
		})
	}

	return []sheet{positions, receipts, accounts, balances, sales}
}

// margin is the margin as a ratio, or "N/A".
func margin(m tradebook.Margin) any {
	p, ok := m.Percent()
	if !ok {
		return "N/A"
	}
	return float64(p) / 100
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
