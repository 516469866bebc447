package core

import (
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, time.January, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -5}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Title:  "coffee",
		Amount: Money{Cents: 350},
		Date:   NewDate(2025, time.January, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Title: "a", Amount: Money{Cents: 1}},                                                        // zero date
		{Title: "", Amount: Money{Cents: 1}, Date: NewDate(2025, time.January, 1)},                   // empty title
		{Title: strings.Repeat("x", 201), Amount: Money{Cents: 1}, Date: NewDate(2025, time.January, 1)}, // too long
		{Title: "a", Amount: Money{Cents: 0}, Date: NewDate(2025, time.January, 1)},                  // zero amount
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Food"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: "  "}).Validate(); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if err := (Category{Name: strings.Repeat("x", 101)}).Validate(); err == nil {
		t.Fatalf("expected error for long name")
	}
}
