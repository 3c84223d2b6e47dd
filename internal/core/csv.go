package core

import (
	"bufio"
	"io"
	"strings"
)

// WriteLedgerCSV renders entries as the CSV the billing view exports:
// columns Date, Description, Credit, Debit, Balance, one row per entry in
// the given (newest-first) order. The description is always double-quoted
// with embedded quotes doubled; amounts are fixed to two decimals.
func WriteLedgerCSV(w io.Writer, entries []LedgerEntry) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("Date,Description,Credit,Debit,Balance\n"); err != nil {
		return err
	}
	for _, e := range entries {
		date := ""
		if !e.OccurredAt.IsZero() {
			date = e.OccurredAt.Format("2006-01-02")
		}
		row := date + "," +
			quoteField(e.Description) + "," +
			FormatCents(e.CreditCents) + "," +
			FormatCents(e.DebitCents) + "," +
			FormatCents(e.BalanceCents) + "\n"
		if _, err := bw.WriteString(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
