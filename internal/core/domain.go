package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar day; the time-of-day component is always midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// User is an account that owns categories and expenses.
	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	// Category groups expenses. Names are unique per owner.
	Category struct {
		ID      int64
		OwnerID int64
		Name    string
	}

	// Expense is a single ledger entry. CategoryID is nil for
	// uncategorized expenses; CategoryName carries the joined category
	// name for display and export ("" when uncategorized).
	Expense struct {
		ID           int64
		OwnerID      int64
		CategoryID   *int64
		CategoryName string
		Title        string
		Amount       Money
		Date         Date
		Notes        string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("category name already exists")
	ErrUsernameTaken = errors.New("username already taken")

	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyTitle      = errors.New("empty title")
	ErrEmptyName       = errors.New("empty category name")
	ErrInvalidMonthKey = errors.New("invalid month key")
	ErrInvalidLimit    = errors.New("invalid limit")
)

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthKey returns the "YYYY-MM" bucket this date falls into.
func (d Date) MonthKey() string {
	return FormatMonthKey(d.Year(), d.Month())
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("category name too long (max 100 characters)")
	}
	return nil
}
