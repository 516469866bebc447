package http

import (
	"errors"
	"net/http"
	"strconv"

	"outgo/internal/auth"
	"outgo/internal/core"
	"outgo/internal/ledger"
)

type expenseListPage struct {
	Expenses   []core.Expense
	Categories []core.Category
	Filter     int64 // 0 when unfiltered
}

type expenseFormPage struct {
	Expense    core.Expense
	Categories []core.Category
	Error      string
	Editing    bool
}

func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	ownerID, _ := auth.OwnerFromContext(r.Context())

	var filter ledger.ExpenseFilter
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid category filter", http.StatusBadRequest)
			return
		}
		filter.CategoryID = &id
	}

	expenses, err := s.store.ListExpenses(r.Context(), ownerID, filter)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	categories, err := s.store.ListCategories(r.Context(), ownerID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	var filterID int64
	if filter.CategoryID != nil {
		filterID = *filter.CategoryID
	}
	s.render(w, r, "expenses.html", expenseListPage{
		Expenses:   expenses,
		Categories: categories,
		Filter:     filterID,
	})
}

func (s *Server) handleExpenseAdd(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.OwnerFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		categories, err := s.store.ListCategories(r.Context(), ownerID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		s.render(w, r, "expense_form.html", expenseFormPage{Categories: categories})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		e, msg := parseExpenseForm(r)
		if msg != "" {
			s.renderExpenseFormError(w, r, ownerID, e, msg, false)
			return
		}
		if _, err := s.svc.CreateExpense(r.Context(), ownerID, e); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				s.renderExpenseFormError(w, r, ownerID, e, "Unknown category", false)
				return
			}
			s.storeError(w, r, err)
			return
		}
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleExpenseEdit(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.OwnerFromContext(r.Context())

	id, ok := queryID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, err := s.store.GetExpense(r.Context(), ownerID, id)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		categories, err := s.store.ListCategories(r.Context(), ownerID)
		if err != nil {
			s.storeError(w, r, err)
			return
		}
		s.render(w, r, "expense_form.html", expenseFormPage{
			Expense:    e,
			Categories: categories,
			Editing:    true,
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		e, msg := parseExpenseForm(r)
		e.ID = id
		if msg != "" {
			s.renderExpenseFormError(w, r, ownerID, e, msg, true)
			return
		}
		// Check the category here so a foreign category redisplays the
		// form while a missing expense still 404s below.
		if e.CategoryID != nil {
			if _, err := s.store.GetCategory(r.Context(), ownerID, *e.CategoryID); err != nil {
				if errors.Is(err, core.ErrNotFound) {
					s.renderExpenseFormError(w, r, ownerID, e, "Unknown category", true)
					return
				}
				s.storeError(w, r, err)
				return
			}
		}
		if err := s.svc.UpdateExpense(r.Context(), ownerID, e); err != nil {
			s.storeError(w, r, err)
			return
		}
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleExpenseDelete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	ownerID, _ := auth.OwnerFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	id, ok := formID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := s.svc.DeleteExpense(r.Context(), ownerID, id); err != nil {
		s.storeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) renderExpenseFormError(w http.ResponseWriter, r *http.Request, ownerID int64, e core.Expense, msg string, editing bool) {
	categories, err := s.store.ListCategories(r.Context(), ownerID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	s.render(w, r, "expense_form.html", expenseFormPage{
		Expense:    e,
		Categories: categories,
		Error:      msg,
		Editing:    editing,
	})
}
