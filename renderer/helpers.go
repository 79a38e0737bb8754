package renderer

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/etnz/tradebook"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// cell escapes s for use in a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	if s == "" {
		return "-"
	}
	return s
}

// day formats t as a date, or "-" when unknown.
func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

// money formats m in the display currency.
func money(m tradebook.Money, currency string) string {
	return m.In(currency).String()
}

// blank formats m in the display currency, or "" when zero.
func blank(m tradebook.Money, currency string) string {
	if m.IsZero() {
		return ""
	}
	return money(m, currency)
}
