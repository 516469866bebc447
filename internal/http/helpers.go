package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"outgo/internal/core"
)

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	if i := strings.IndexByte(ip, ','); i >= 0 {
		ip = ip[:i]
	}
	return strings.TrimSpace(ip)
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseExpenseForm reads an expense from POST form fields. The returned
// error message is safe to show to the user.
func parseExpenseForm(r *http.Request) (core.Expense, string) {
	title := sanitizeInput(r.Form.Get("title"))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	dateStr := strings.TrimSpace(r.Form.Get("date"))
	notes := sanitizeInput(r.Form.Get("notes"))
	categoryStr := strings.TrimSpace(r.Form.Get("category"))

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		return core.Expense{}, "Amount must be a positive decimal like 12.50"
	}

	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Expense{}, "Date must be in YYYY-MM-DD format"
	}

	e := core.Expense{
		Title:  title,
		Amount: core.Money{Cents: cents},
		Date:   core.NewDate(day.Year(), day.Month(), day.Day()),
		Notes:  notes,
	}

	if categoryStr != "" {
		id, err := strconv.ParseInt(categoryStr, 10, 64)
		if err != nil || id <= 0 {
			return core.Expense{}, "Invalid category"
		}
		e.CategoryID = &id
	}

	if err := e.Validate(); err != nil {
		return core.Expense{}, validationMessage(err)
	}
	return e, ""
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyTitle):
		return "Title is required and must be at most 200 characters"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be greater than zero"
	case errors.Is(err, core.ErrInvalidDate):
		return "Date is not valid"
	case errors.Is(err, core.ErrEmptyName):
		return "Name is required and must be at most 100 characters"
	default:
		return "Invalid input"
	}
}

// queryID parses the numeric id query parameter.
func queryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formID parses the numeric id form field.
func formID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.Form.Get("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// storeError maps ledger errors to HTTP responses for non-form requests.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		http.NotFound(w, r)
	default:
		slog.ErrorContext(r.Context(), "Store operation failed", "error", err, "url", r.URL.Path)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}
