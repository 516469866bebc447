package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"outgo/internal/core"
	"outgo/internal/ledger"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "outgo.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *Repository, username string) int64 {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), username, username+"@example.com", "hash")
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u.ID
}

func TestUserUniqueness(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUser(t, repo, "alice")
	if _, err := repo.CreateUser(ctx, "alice", "", "other"); !errors.Is(err, core.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryCRUDAndDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "alice")
	other := seedUser(t, repo, "bob")

	foodID, err := repo.CreateCategory(ctx, owner, "Food")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.CreateCategory(ctx, owner, "Food"); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	// Same name under another owner is allowed.
	if _, err := repo.CreateCategory(ctx, other, "Food"); err != nil {
		t.Fatalf("other owner: %v", err)
	}

	if _, err := repo.CreateCategory(ctx, owner, "Transit"); err != nil {
		t.Fatalf("create transit: %v", err)
	}
	cats, err := repo.ListCategories(ctx, owner)
	if err != nil || len(cats) != 2 {
		t.Fatalf("list: %d cats, err %v", len(cats), err)
	}
	if cats[0].Name != "Food" || cats[1].Name != "Transit" {
		t.Fatalf("not alphabetical: %+v", cats)
	}

	if err := repo.UpdateCategory(ctx, owner, foodID, "Groceries"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.UpdateCategory(ctx, other, foodID, "Stolen"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-owner update: expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateCategory(ctx, owner, foodID, "Transit"); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("rename onto existing: expected ErrDuplicateName, got %v", err)
	}
}

func TestExpenseCRUDAndOwnership(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "alice")
	other := seedUser(t, repo, "bob")
	catID, _ := repo.CreateCategory(ctx, owner, "Food")

	id, err := repo.CreateExpense(ctx, owner, core.Expense{
		CategoryID: &catID,
		Title:      "lunch",
		Amount:     core.Money{Cents: 1250},
		Date:       core.NewDate(2024, time.May, 10),
		Notes:      "team lunch",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	e, err := repo.GetExpense(ctx, owner, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.CategoryName != "Food" || e.Amount.Cents != 1250 || e.Date.MonthKey() != "2024-05" {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if e.CreatedAt.IsZero() || !e.CreatedAt.Equal(e.UpdatedAt) {
		t.Fatalf("timestamps not initialized: created=%v updated=%v", e.CreatedAt, e.UpdatedAt)
	}

	if _, err := repo.GetExpense(ctx, other, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-owner get: expected ErrNotFound, got %v", err)
	}

	time.Sleep(10 * time.Millisecond) // ensure updated_at moves
	e.Title = "long lunch"
	if err := repo.UpdateExpense(ctx, owner, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := repo.GetExpense(ctx, owner, id)
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("updated_at not refreshed: created=%v updated=%v", updated.CreatedAt, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(e.CreatedAt) {
		t.Fatalf("created_at changed on update")
	}

	if err := repo.DeleteExpense(ctx, other, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-owner delete: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, owner, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetExpense(ctx, owner, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListExpensesOrderAndFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "alice")
	catID, _ := repo.CreateCategory(ctx, owner, "Food")

	mk := func(title string, date core.Date, cid *int64) {
		t.Helper()
		if _, err := repo.CreateExpense(ctx, owner, core.Expense{
			Title: title, Amount: core.Money{Cents: 100}, Date: date, CategoryID: cid,
		}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	mk("oldest", core.NewDate(2024, time.April, 1), &catID)
	mk("same day first", core.NewDate(2024, time.May, 10), nil)
	mk("same day second", core.NewDate(2024, time.May, 10), &catID)

	all, err := repo.ListExpenses(ctx, owner, ledger.ExpenseFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	// Newest date first; the newer record wins the same-day tie.
	if all[0].Title != "same day second" || all[1].Title != "same day first" || all[2].Title != "oldest" {
		t.Fatalf("unexpected order: %q, %q, %q", all[0].Title, all[1].Title, all[2].Title)
	}

	filtered, err := repo.ListExpenses(ctx, owner, ledger.ExpenseFilter{CategoryID: &catID})
	if err != nil || len(filtered) != 2 {
		t.Fatalf("filtered: len=%d err=%v", len(filtered), err)
	}
}

func TestDeleteCategoryKeepsExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "alice")
	catID, _ := repo.CreateCategory(ctx, owner, "Food")

	id, err := repo.CreateExpense(ctx, owner, core.Expense{
		CategoryID: &catID,
		Title:      "lunch",
		Amount:     core.Money{Cents: 500},
		Date:       core.NewDate(2024, time.May, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.DeleteCategory(ctx, owner, catID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	e, err := repo.GetExpense(ctx, owner, id)
	if err != nil {
		t.Fatalf("expense should survive: %v", err)
	}
	if e.CategoryID != nil || e.CategoryName != "" {
		t.Fatalf("category reference not nulled: %+v", e)
	}

	if err := repo.DeleteCategory(ctx, owner, catID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestExpenseRejectsForeignCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "alice")
	bob := seedUser(t, repo, "bob")
	aliceCat, _ := repo.CreateCategory(ctx, alice, "Secret Project")

	if _, err := repo.CreateExpense(ctx, bob, core.Expense{
		CategoryID: &aliceCat,
		Title:      "sneaky",
		Amount:     core.Money{Cents: 100},
		Date:       core.NewDate(2024, time.May, 1),
	}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("create with foreign category: expected ErrNotFound, got %v", err)
	}

	id, err := repo.CreateExpense(ctx, bob, core.Expense{
		Title:  "own expense",
		Amount: core.Money{Cents: 100},
		Date:   core.NewDate(2024, time.May, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	e, err := repo.GetExpense(ctx, bob, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	e.CategoryID = &aliceCat
	if err := repo.UpdateExpense(ctx, bob, e); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update onto foreign category: expected ErrNotFound, got %v", err)
	}

	got, err := repo.GetExpense(ctx, bob, id)
	if err != nil || got.CategoryID != nil || got.CategoryName != "" {
		t.Fatalf("expense gained a foreign category: %+v (err=%v)", got, err)
	}
}

func TestCategoryNameValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := seedUser(t, repo, "alice")

	if _, err := repo.CreateCategory(ctx, owner, "  "); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("blank name: expected ErrEmptyName, got %v", err)
	}
	if _, err := repo.CreateCategory(ctx, owner, strings.Repeat("x", 101)); err == nil {
		t.Fatal("over-long name accepted")
	}

	id, err := repo.CreateCategory(ctx, owner, "Food")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdateCategory(ctx, owner, id, ""); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("empty rename: expected ErrEmptyName, got %v", err)
	}
}
