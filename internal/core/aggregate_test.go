package core

import (
	"errors"
	"testing"
	"time"
)

func cat(id int64, name string) Category {
	return Category{ID: id, OwnerID: 1, Name: name}
}

func exp(title string, cents int64, date Date, categoryID *int64) Expense {
	return Expense{
		OwnerID:    1,
		CategoryID: categoryID,
		Title:      title,
		Amount:     Money{Cents: cents},
		Date:       date,
	}
}

func ptr(id int64) *int64 { return &id }

func TestMonthlySeriesDenseAndAligned(t *testing.T) {
	expenses := []Expense{
		exp("groceries", 10000, NewDate(2024, time.January, 15), ptr(1)),
		exp("lunch", 5000, NewDate(2024, time.January, 20), ptr(1)),
		exp("bus pass", 3000, NewDate(2024, time.February, 1), ptr(2)),
	}
	window := []string{"2024-01", "2024-02", "2024-03"}

	series, err := MonthlySeries(expenses, window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != len(window) {
		t.Fatalf("series length = %d, want %d", len(series), len(window))
	}
	want := []MonthTotal{
		{Month: "2024-01", Total: Money{Cents: 15000}},
		{Month: "2024-02", Total: Money{Cents: 3000}},
		{Month: "2024-03", Total: Money{Cents: 0}},
	}
	for i := range want {
		if series[i] != want[i] {
			t.Fatalf("series[%d] = %+v, want %+v", i, series[i], want[i])
		}
	}
}

func TestMonthlySeriesConservesTotals(t *testing.T) {
	expenses := []Expense{
		exp("a", 101, NewDate(2023, time.November, 3), nil),
		exp("b", 990, NewDate(2023, time.December, 31), nil),
		exp("c", 45, NewDate(2024, time.January, 1), nil),
		exp("d", 7000, NewDate(2024, time.February, 29), nil), // leap day
	}
	window := MonthWindow(time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC), 4)

	series, err := MonthlySeries(expenses, window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sum int64
	for _, mt := range series {
		sum += mt.Total.Cents
	}
	if sum != Total(expenses).Cents {
		t.Fatalf("series sum = %d, want %d", sum, Total(expenses).Cents)
	}
}

func TestMonthlySeriesRejectsMalformedKey(t *testing.T) {
	for _, key := range []string{"2024-13", "2024-00", "202401", "2024-1", "abcd-ef", ""} {
		_, err := MonthlySeries(nil, []string{key})
		if !errors.Is(err, ErrInvalidMonthKey) {
			t.Fatalf("key %q: expected ErrInvalidMonthKey, got %v", key, err)
		}
	}
}

func TestCategoryTotalsIncludesEmptyCategories(t *testing.T) {
	categories := []Category{cat(1, "Food"), cat(2, "Transit"), cat(3, "Unused")}
	expenses := []Expense{
		exp("groceries", 10000, NewDate(2024, time.January, 15), ptr(1)),
		exp("lunch", 5000, NewDate(2024, time.January, 20), ptr(1)),
		exp("bus", 3000, NewDate(2024, time.February, 1), ptr(2)),
		exp("orphan", 999, NewDate(2024, time.February, 2), nil), // no bucket
	}

	totals := CategoryTotals(categories, expenses)
	if len(totals) != 3 {
		t.Fatalf("totals length = %d, want 3", len(totals))
	}
	want := []CategoryTotal{
		{Name: "Food", Total: Money{Cents: 15000}},
		{Name: "Transit", Total: Money{Cents: 3000}},
		{Name: "Unused", Total: Money{Cents: 0}},
	}
	for i := range want {
		if totals[i] != want[i] {
			t.Fatalf("totals[%d] = %+v, want %+v", i, totals[i], want[i])
		}
	}
}

func TestRankCategoriesStableTies(t *testing.T) {
	totals := []CategoryTotal{
		{Name: "Alpha", Total: Money{Cents: 100}},
		{Name: "Beta", Total: Money{Cents: 300}},
		{Name: "Gamma", Total: Money{Cents: 100}},
	}
	ranked, err := RankCategories(totals, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranked) != 2 || ranked[0].Name != "Beta" || ranked[1].Name != "Alpha" {
		t.Fatalf("unexpected ranking: %+v", ranked)
	}
	if _, err := RankCategories(totals, -1); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestTopExpensesOrderingAndLength(t *testing.T) {
	expenses := []Expense{
		exp("newer tie", 500, NewDate(2024, time.March, 10), nil),
		exp("big", 9000, NewDate(2024, time.February, 5), nil),
		exp("older tie", 500, NewDate(2024, time.January, 1), nil),
	}

	top, err := TopExpenses(expenses, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != len(expenses) {
		t.Fatalf("top length = %d, want %d", len(top), len(expenses))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Amount.Cents > top[i-1].Amount.Cents {
			t.Fatalf("not descending at %d: %+v", i, top)
		}
	}
	// Stable: tied amounts keep input (date-descending) order.
	if top[1].Title != "newer tie" || top[2].Title != "older tie" {
		t.Fatalf("tie order not preserved: %q, %q", top[1].Title, top[2].Title)
	}

	top, err = TopExpenses(expenses, 2)
	if err != nil || len(top) != 2 {
		t.Fatalf("k=2: len=%d err=%v", len(top), err)
	}
	if _, err := TopExpenses(expenses, -1); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestTotalForMonth(t *testing.T) {
	expenses := []Expense{
		exp("in", 100, NewDate(2024, time.May, 2), nil),
		exp("also in", 250, NewDate(2024, time.May, 30), nil),
		exp("out", 999, NewDate(2024, time.June, 1), nil),
	}
	got, err := TotalForMonth(expenses, "2024-05")
	if err != nil || got.Cents != 350 {
		t.Fatalf("got %d, err %v", got.Cents, err)
	}
	if _, err := TotalForMonth(expenses, "2024-5"); !errors.Is(err, ErrInvalidMonthKey) {
		t.Fatalf("expected ErrInvalidMonthKey, got %v", err)
	}
}

func TestHighestAmount(t *testing.T) {
	if got := HighestAmount(nil); got.Cents != 0 {
		t.Fatalf("empty ledger: got %d, want 0", got.Cents)
	}
	expenses := []Expense{
		exp("a", 120, NewDate(2024, time.May, 2), nil),
		exp("b", 4500, NewDate(2024, time.May, 3), nil),
	}
	if got := HighestAmount(expenses); got.Cents != 4500 {
		t.Fatalf("got %d, want 4500", got.Cents)
	}
}

func TestAveragePerMonth(t *testing.T) {
	if got := AveragePerMonth(nil); got.Cents != 0 {
		t.Fatalf("empty window: got %d, want 0", got.Cents)
	}
	series := []MonthTotal{
		{Month: "2024-01", Total: Money{Cents: 300}},
		{Month: "2024-02", Total: Money{Cents: 0}},
		{Month: "2024-03", Total: Money{Cents: 600}},
	}
	if got := AveragePerMonth(series); got.Cents != 300 {
		t.Fatalf("got %d, want 300", got.Cents)
	}
}
