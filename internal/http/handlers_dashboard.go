package http

import (
	"net/http"
	"time"

	"outgo/internal/auth"
)

// handleDashboard renders the landing page with recent expenses and the
// six month summary.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	ownerID, ok := auth.OwnerFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	dash, err := s.reports.Dashboard(r.Context(), ownerID, time.Now())
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	s.render(w, r, "dashboard.html", dash)
}
