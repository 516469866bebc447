package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"outgo/internal/auth"
	"outgo/internal/export"
	"outgo/internal/ledger"
	"outgo/internal/report"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	ownerID, _ := auth.OwnerFromContext(r.Context())

	rep, err := s.reports.Report(r.Context(), ownerID, time.Now())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.render(w, r, "report.html", rep)
}

// handleReportChart renders the 12 month series as a PNG for the report
// page's img tag.
func (s *Server) handleReportChart(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	ownerID, _ := auth.OwnerFromContext(r.Context())

	rep, err := s.reports.Report(r.Context(), ownerID, time.Now())
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	png, err := report.RenderMonthlyChart(rep.Months, rep.Values)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	ownerID, _ := auth.OwnerFromContext(r.Context())

	expenses, err := s.store.ListExpenses(r.Context(), ownerID, ledger.ExpenseFilter{})
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := export.WriteCSV(w, expenses); err != nil {
		// Headers are already sent, nothing left to do but log.
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}
