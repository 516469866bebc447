package ledger

import (
	"context"

	"outgo/internal/core"
)

// Ports for the ledger store. Every operation takes the acting owner's ID
// explicitly; implementations must co-filter by owner on every query and
// never return another owner's records.

// ExpenseFilter narrows an expense listing. A nil CategoryID means no
// category restriction.
type ExpenseFilter struct {
	CategoryID *int64
}

type (
	ExpenseReader interface {
		// ListExpenses returns the owner's expenses, newest date first
		// (ties broken by newest record first).
		ListExpenses(ctx context.Context, ownerID int64, filter ExpenseFilter) ([]core.Expense, error)
		// GetExpense returns core.ErrNotFound if no expense with that id
		// belongs to the owner.
		GetExpense(ctx context.Context, ownerID, id int64) (core.Expense, error)
	}

	CategoryReader interface {
		// ListCategories returns the owner's categories, alphabetical by name.
		ListCategories(ctx context.Context, ownerID int64) ([]core.Category, error)
		GetCategory(ctx context.Context, ownerID, id int64) (core.Category, error)
	}

	ExpenseWriter interface {
		CreateExpense(ctx context.Context, ownerID int64, e core.Expense) (int64, error)
		// UpdateExpense refreshes the record identified by e.ID; returns
		// core.ErrNotFound if the owner has no such expense.
		UpdateExpense(ctx context.Context, ownerID int64, e core.Expense) error
		DeleteExpense(ctx context.Context, ownerID, id int64) error
	}

	CategoryWriter interface {
		// CreateCategory returns core.ErrDuplicateName if the owner already
		// has a category with that name.
		CreateCategory(ctx context.Context, ownerID int64, name string) (int64, error)
		UpdateCategory(ctx context.Context, ownerID, id int64, name string) error
		// DeleteCategory removes the category and nulls the category
		// reference on its expenses; the expenses themselves survive.
		DeleteCategory(ctx context.Context, ownerID, id int64) error
	}
)

// Reader is the read-only view consumed by the report assembler.
type Reader interface {
	ExpenseReader
	CategoryReader
}

// Store is the full ledger contract.
type Store interface {
	ExpenseReader
	CategoryReader
	ExpenseWriter
	CategoryWriter
}
