package core

import "sort"

// The aggregation engine: pure, stateless transformations over an in-memory
// slice of expenses that the caller has already filtered to one owner. No
// I/O happens here, and no function mutates its input.

// MonthTotal is the sum of expense amounts for one month bucket.
type MonthTotal struct {
	Month string
	Total Money
}

// CategoryTotal is the sum of expense amounts for one category.
type CategoryTotal struct {
	Name  string
	Total Money
}

// MonthlySeries buckets expenses by the calendar month of their date and
// aligns the sums to the given window. The result has exactly one entry per
// window key, in window order; months without expenses appear with total 0.
// Returns ErrInvalidMonthKey if any window key is malformed.
func MonthlySeries(expenses []Expense, window []string) ([]MonthTotal, error) {
	for _, key := range window {
		if _, _, err := ParseMonthKey(key); err != nil {
			return nil, err
		}
	}

	sums := make(map[string]int64, len(window))
	for _, e := range expenses {
		sums[e.Date.MonthKey()] += e.Amount.Cents
	}

	series := make([]MonthTotal, len(window))
	for i, key := range window {
		series[i] = MonthTotal{Month: key, Total: Money{Cents: sums[key]}}
	}
	return series, nil
}

// CategoryTotals sums expense amounts per owned category. Every category
// appears exactly once, in input order, including categories with no
// expenses (total 0). Expenses without a category are not counted; they
// belong to no bucket.
func CategoryTotals(categories []Category, expenses []Expense) []CategoryTotal {
	sums := make(map[int64]int64, len(categories))
	for _, e := range expenses {
		if e.CategoryID != nil {
			sums[*e.CategoryID] += e.Amount.Cents
		}
	}

	totals := make([]CategoryTotal, len(categories))
	for i, c := range categories {
		totals[i] = CategoryTotal{Name: c.Name, Total: Money{Cents: sums[c.ID]}}
	}
	return totals
}

// RankCategories orders totals by amount descending and truncates to k.
// The sort is stable, so ties keep the input (alphabetical) order.
// Returns ErrInvalidLimit for negative k.
func RankCategories(totals []CategoryTotal, k int) ([]CategoryTotal, error) {
	if k < 0 {
		return nil, ErrInvalidLimit
	}
	ranked := make([]CategoryTotal, len(totals))
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total.Cents > ranked[j].Total.Cents
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// TopExpenses returns the k largest expenses by amount, descending. The sort
// is stable: ties keep the input order, which for store-loaded ledgers is
// date descending. Returns ErrInvalidLimit for negative k.
func TopExpenses(expenses []Expense, k int) ([]Expense, error) {
	if k < 0 {
		return nil, ErrInvalidLimit
	}
	top := make([]Expense, len(expenses))
	copy(top, expenses)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Amount.Cents > top[j].Amount.Cents
	})
	if k < len(top) {
		top = top[:k]
	}
	return top, nil
}

// Total sums all expense amounts.
func Total(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// TotalForMonth sums the amounts of expenses falling into one month bucket.
func TotalForMonth(expenses []Expense, key string) (Money, error) {
	if _, _, err := ParseMonthKey(key); err != nil {
		return Money{}, err
	}
	var cents int64
	for _, e := range expenses {
		if e.Date.MonthKey() == key {
			cents += e.Amount.Cents
		}
	}
	return Money{Cents: cents}, nil
}

// HighestAmount returns the largest single expense amount, 0 when the
// ledger is empty.
func HighestAmount(expenses []Expense) Money {
	var max int64
	for _, e := range expenses {
		if e.Amount.Cents > max {
			max = e.Amount.Cents
		}
	}
	return Money{Cents: max}
}

// AveragePerMonth divides the series total by the number of months in the
// window. An empty series yields 0; there is no division by zero.
func AveragePerMonth(series []MonthTotal) Money {
	if len(series) == 0 {
		return Money{}
	}
	var cents int64
	for _, mt := range series {
		cents += mt.Total.Cents
	}
	return Money{Cents: cents / int64(len(series))}
}
