// Package memory implements the ledger and user stores in process memory.
// It backs the dev/test backend and mirrors the SQLite repository's
// contracts: owner co-filtering, ordering, and sentinel errors.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"outgo/internal/core"
	"outgo/internal/ledger"
)

type Store struct {
	mu         sync.Mutex
	users      []core.User
	categories []core.Category
	expenses   []core.Expense
	nextUser   int64
	nextCat    int64
	nextExp    int64
}

func New() *Store {
	return &Store{nextUser: 1, nextCat: 1, nextExp: 1}
}

func (s *Store) CreateUser(_ context.Context, username, email, passwordHash string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return core.User{}, core.ErrUsernameTaken
		}
	}
	u := core.User{
		ID:           s.nextUser,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextUser++
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context, ownerID int64) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Category
	for _, c := range s.categories {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, ownerID, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id && c.OwnerID == ownerID {
			return c, nil
		}
	}
	return core.Category{}, core.ErrNotFound
}

func (s *Store) CreateCategory(_ context.Context, ownerID int64, name string) (int64, error) {
	if err := (core.Category{Name: name}).Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.OwnerID == ownerID && c.Name == name {
			return 0, core.ErrDuplicateName
		}
	}
	id := s.nextCat
	s.nextCat++
	s.categories = append(s.categories, core.Category{ID: id, OwnerID: ownerID, Name: name})
	return id, nil
}

func (s *Store) UpdateCategory(_ context.Context, ownerID, id int64, name string) error {
	if err := (core.Category{Name: name}).Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.OwnerID == ownerID && c.Name == name && c.ID != id {
			return core.ErrDuplicateName
		}
	}
	for i, c := range s.categories {
		if c.ID == id && c.OwnerID == ownerID {
			s.categories[i].Name = name
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteCategory(_ context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, c := range s.categories {
		if c.ID == id && c.OwnerID == ownerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.ErrNotFound
	}
	// Expenses survive their category's deletion with a nulled reference.
	for i := range s.expenses {
		if s.expenses[i].CategoryID != nil && *s.expenses[i].CategoryID == id {
			s.expenses[i].CategoryID = nil
		}
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	return nil
}

func (s *Store) ListExpenses(_ context.Context, ownerID int64, filter ledger.ExpenseFilter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.OwnerID != ownerID {
			continue
		}
		if filter.CategoryID != nil && (e.CategoryID == nil || *e.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, s.withCategoryName(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, ownerID, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.expenses {
		if e.ID == id && e.OwnerID == ownerID {
			return s.withCategoryName(e), nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

func (s *Store) CreateExpense(_ context.Context, ownerID int64, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.categoryOwnedLocked(ownerID, e.CategoryID); err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	e.ID = s.nextExp
	e.OwnerID = ownerID
	e.CreatedAt = now
	e.UpdatedAt = now
	s.nextExp++
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) UpdateExpense(_ context.Context, ownerID int64, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.categoryOwnedLocked(ownerID, e.CategoryID); err != nil {
		return err
	}
	for i, cur := range s.expenses {
		if cur.ID == e.ID && cur.OwnerID == ownerID {
			e.OwnerID = ownerID
			e.CreatedAt = cur.CreatedAt
			e.UpdatedAt = time.Now().UTC()
			s.expenses[i] = e
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteExpense(_ context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == id && e.OwnerID == ownerID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// categoryOwnedLocked verifies that a referenced category belongs to
// ownerID. Callers hold s.mu.
func (s *Store) categoryOwnedLocked(ownerID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	for _, c := range s.categories {
		if c.ID == *categoryID && c.OwnerID == ownerID {
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) withCategoryName(e core.Expense) core.Expense {
	e.CategoryName = ""
	if e.CategoryID != nil {
		for _, c := range s.categories {
			if c.ID == *e.CategoryID && c.OwnerID == e.OwnerID {
				e.CategoryName = c.Name
				break
			}
		}
	}
	return e
}
