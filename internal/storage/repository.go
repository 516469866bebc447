// Package storage persists the ledger in SQLite. Every query co-filters by
// owner; a record ID on its own is never trusted. Mutations run inside a
// transaction so partial writes are not observable.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"outgo/internal/core"
	"outgo/internal/ledger"

	_ "modernc.org/sqlite"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = time.RFC3339Nano
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser implements auth.UserStore.
func (r *Repository) CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		username, email, passwordHash, now.Format(timeFormat))
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, core.ErrUsernameTaken
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user id: %w", err)
	}
	return core.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash, CreatedAt: now}, nil
}

// GetUserByUsername implements auth.UserStore.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var (
		u         core.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return u, nil
}

// ListCategories implements ledger.CategoryReader.
func (r *Repository) ListCategories(ctx context.Context, ownerID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name FROM categories WHERE user_id = ? ORDER BY name COLLATE NOCASE`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetCategory(ctx context.Context, ownerID, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name FROM categories WHERE id = ? AND user_id = ?`,
		id, ownerID).Scan(&c.ID, &c.OwnerID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

func (r *Repository) CreateCategory(ctx context.Context, ownerID int64, name string) (int64, error) {
	if err := (core.Category{Name: name}).Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name) VALUES (?, ?)`, ownerID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.ErrDuplicateName
		}
		return 0, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category id: %w", err)
	}
	return id, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, ownerID, id int64, name string) error {
	if err := (core.Category{Name: name}).Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ? AND user_id = ?`, name, id, ownerID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteCategory removes the category and nulls the reference on its
// expenses in one transaction; the expenses survive.
func (r *Repository) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE expenses SET category_id = NULL WHERE category_id = ? AND user_id = ?`,
		id, ownerID); err != nil {
		return fmt.Errorf("null expense categories: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	return tx.Commit()
}

// ListExpenses implements ledger.ExpenseReader: newest date first, newest
// record first on equal dates, optionally restricted to one category.
func (r *Repository) ListExpenses(ctx context.Context, ownerID int64, filter ledger.ExpenseFilter) ([]core.Expense, error) {
	query := `SELECT e.id, e.user_id, e.category_id, COALESCE(c.name, ''),
			e.title, e.amount_cents, e.date, e.notes, e.created_at, e.updated_at
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id AND c.user_id = e.user_id
		WHERE e.user_id = ?`
	args := []any{ownerID}
	if filter.CategoryID != nil {
		query += ` AND e.category_id = ?`
		args = append(args, *filter.CategoryID)
	}
	query += ` ORDER BY e.date DESC, e.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) GetExpense(ctx context.Context, ownerID, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT e.id, e.user_id, e.category_id, COALESCE(c.name, ''),
			e.title, e.amount_cents, e.date, e.notes, e.created_at, e.updated_at
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id AND c.user_id = e.user_id
		WHERE e.id = ? AND e.user_id = ?`, id, ownerID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (r *Repository) CreateExpense(ctx context.Context, ownerID int64, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	if err := r.categoryOwned(ctx, ownerID, e.CategoryID); err != nil {
		return 0, err
	}
	now := time.Now().UTC().Format(timeFormat)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, category_id, title, amount_cents, date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ownerID, e.CategoryID, e.Title, e.Amount.Cents, e.Date.Format(dateFormat), e.Notes, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}
	return id, nil
}

// UpdateExpense rewrites the mutable fields and refreshes updated_at;
// created_at is set once at creation and never changed.
func (r *Repository) UpdateExpense(ctx context.Context, ownerID int64, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := r.categoryOwned(ctx, ownerID, e.CategoryID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET category_id = ?, title = ?, amount_cents = ?, date = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		e.CategoryID, e.Title, e.Amount.Cents, e.Date.Format(dateFormat), e.Notes,
		time.Now().UTC().Format(timeFormat), e.ID, ownerID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteExpense(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// categoryOwned verifies that a referenced category belongs to ownerID. The
// foreign key only checks existence, so without this an expense could attach
// to another user's category.
func (r *Repository) categoryOwned(ctx context.Context, ownerID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM categories WHERE id = ? AND user_id = ?`,
		*categoryID, ownerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check category owner: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e          core.Expense
		categoryID sql.NullInt64
		date       string
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&e.ID, &e.OwnerID, &categoryID, &e.CategoryName,
		&e.Title, &e.Amount.Cents, &date, &e.Notes, &createdAt, &updatedAt)
	if err != nil {
		return core.Expense{}, err
	}
	if categoryID.Valid {
		e.CategoryID = &categoryID.Int64
	}
	day, err := time.Parse(dateFormat, date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense date %q: %w", date, err)
	}
	e.Date = core.Date{Time: day}
	e.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	e.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return e, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The driver does not export a typed error for this, so the
// message is matched.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
