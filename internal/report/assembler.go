// Package report assembles dashboard and report view models from the ledger.
package report

import (
	"context"
	"fmt"
	"time"

	"outgo/internal/core"
	"outgo/internal/ledger"
)

const (
	dashboardMonths = 6
	reportMonths    = 12
	recentLimit     = 5
	topCategories   = 8
	topExpenses     = 10
)

// Summary carries the dashboard headline figures.
type Summary struct {
	TotalMonth    core.Money
	TotalAll      core.Money
	ExpenseCount  int
	HighestAmount core.Money
	Labels        []string
	Values        []core.Money
}

// Dashboard is the landing page view model.
type Dashboard struct {
	Recent  []core.Expense
	Summary Summary
}

// TopExpense is one row of the report's largest-expenses table.
type TopExpense struct {
	Title    string
	Amount   core.Money
	Date     core.Date
	Category string
}

// Report is the twelve month analysis view model.
type Report struct {
	Months        []string
	Values        []core.Money
	TopCategories []core.CategoryTotal
	TopExpenses   []TopExpense
	AvgPerMonth   core.Money
}

// Assembler computes aggregates on demand, nothing is cached between
// requests.
type Assembler struct {
	ledger ledger.Reader
}

func NewAssembler(l ledger.Reader) *Assembler {
	return &Assembler{ledger: l}
}

// Dashboard builds the landing page model for one owner. now anchors the
// current month.
func (a *Assembler) Dashboard(ctx context.Context, ownerID int64, now time.Time) (*Dashboard, error) {
	expenses, err := a.ledger.ListExpenses(ctx, ownerID, ledger.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	window := core.MonthWindow(now, dashboardMonths)
	series, err := core.MonthlySeries(expenses, window)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}

	currentKey := core.FormatMonthKey(now.Year(), now.Month())
	totalMonth, err := core.TotalForMonth(expenses, currentKey)
	if err != nil {
		return nil, fmt.Errorf("current month total: %w", err)
	}

	recent := expenses
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	labels := make([]string, len(series))
	values := make([]core.Money, len(series))
	for i, mt := range series {
		labels[i] = mt.Month
		values[i] = mt.Total
	}

	return &Dashboard{
		Recent: recent,
		Summary: Summary{
			TotalMonth:    totalMonth,
			TotalAll:      core.Total(expenses),
			ExpenseCount:  len(expenses),
			HighestAmount: core.HighestAmount(expenses),
			Labels:        labels,
			Values:        values,
		},
	}, nil
}

// Report builds the analysis page model for one owner.
func (a *Assembler) Report(ctx context.Context, ownerID int64, now time.Time) (*Report, error) {
	expenses, err := a.ledger.ListExpenses(ctx, ownerID, ledger.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	categories, err := a.ledger.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	window := core.MonthWindow(now, reportMonths)
	series, err := core.MonthlySeries(expenses, window)
	if err != nil {
		return nil, fmt.Errorf("monthly series: %w", err)
	}

	totals := core.CategoryTotals(categories, expenses)
	ranked, err := core.RankCategories(totals, topCategories)
	if err != nil {
		return nil, fmt.Errorf("rank categories: %w", err)
	}

	largest, err := core.TopExpenses(expenses, topExpenses)
	if err != nil {
		return nil, fmt.Errorf("top expenses: %w", err)
	}
	rows := make([]TopExpense, len(largest))
	for i, e := range largest {
		rows[i] = TopExpense{
			Title:    e.Title,
			Amount:   e.Amount,
			Date:     e.Date,
			Category: e.CategoryName,
		}
	}

	months := make([]string, len(series))
	values := make([]core.Money, len(series))
	for i, mt := range series {
		months[i] = mt.Month
		values[i] = mt.Total
	}

	return &Report{
		Months:        months,
		Values:        values,
		TopCategories: ranked,
		TopExpenses:   rows,
		AvgPerMonth:   core.AveragePerMonth(series),
	}, nil
}
