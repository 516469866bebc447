// Package export serializes a user's expense ledger for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"outgo/internal/core"
)

var csvHeader = []string{"Title", "Amount", "Date", "Category", "Notes"}

// WriteCSV streams the expenses as CSV. The header row is always
// written, even for an empty ledger.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, e := range expenses {
		record := []string{
			e.Title,
			core.FormatCents(e.Amount.Cents),
			e.Date.Format("2006-01-02"),
			e.CategoryName,
			e.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}
