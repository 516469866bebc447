package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"outgo/internal/core"
)

func TestWriteCSVEmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "Title,Amount,Date,Category,Notes" {
		t.Fatalf("header = %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	cat := "Food"
	expenses := []core.Expense{
		{
			Title:        "lunch, with drinks",
			Amount:       core.Money{Cents: 1250},
			Date:         core.NewDate(2024, time.May, 10),
			CategoryName: cat,
			Notes:        "team \"offsite\"",
		},
		{
			Title:  "bus ticket",
			Amount: core.Money{Cents: 230},
			Date:   core.NewDate(2024, time.May, 9),
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, expenses); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}

	want := [][]string{
		{"Title", "Amount", "Date", "Category", "Notes"},
		{"lunch, with drinks", "12.50", "2024-05-10", "Food", "team \"offsite\""},
		{"bus ticket", "2.30", "2024-05-09", "", ""},
	}
	for i, row := range want {
		for j, cell := range row {
			if records[i][j] != cell {
				t.Errorf("records[%d][%d] = %q, want %q", i, j, records[i][j], cell)
			}
		}
	}
}
