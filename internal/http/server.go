// Package http serves the web UI over embedded templates and static assets.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"outgo/internal/auth"
	"outgo/internal/core"
	"outgo/internal/ledger"
	"outgo/internal/middleware/ratelimit"
	"outgo/internal/middleware/security"
	"outgo/internal/middleware/trace"
	"outgo/internal/report"
	"outgo/internal/services"
	appweb "outgo/web"
)

type Server struct {
	http.Server
	templates *template.Template

	store   ledger.Store
	svc     *services.LedgerService
	reports *report.Assembler
	auth    *auth.Service

	limiter      *ratelimit.Limiter
	sessionTTL   time.Duration
	shutdownOnce sync.Once
}

// Options tunes the server beyond its collaborators.
type Options struct {
	SessionTTL         time.Duration
	RateLimitPerMinute int
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, store ledger.Store, svc *services.LedgerService, reports *report.Assembler, authSvc *auth.Service, opts Options) *Server {
	mux := http.NewServeMux()

	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}

	s := &Server{
		store:      store,
		svc:        svc,
		reports:    reports,
		auth:       authSvc,
		sessionTTL: opts.SessionTTL,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
	}

	// Parse embedded templates at startup.
	funcs := template.FuncMap{
		"money": func(m core.Money) string { return core.FormatCents(m.Cents) },
		"date":  func(d core.Date) string { return d.Format("2006-01-02") },
		"categoryID": func(e core.Expense) int64 {
			if e.CategoryID == nil {
				return 0
			}
			return *e.CategoryID
		},
	}
	t, err := template.New("").Funcs(funcs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/logout", s.handleLogout)

	protected := s.auth.Middleware
	mux.HandleFunc("/", protected(s.handleDashboard))
	mux.HandleFunc("/expenses", protected(s.handleExpenseList))
	mux.HandleFunc("/expenses/add", protected(s.handleExpenseAdd))
	mux.HandleFunc("/expenses/edit", protected(s.handleExpenseEdit))
	mux.HandleFunc("/expenses/delete", protected(s.handleExpenseDelete))
	mux.HandleFunc("/categories", protected(s.handleCategoryList))
	mux.HandleFunc("/categories/add", protected(s.handleCategoryAdd))
	mux.HandleFunc("/categories/edit", protected(s.handleCategoryEdit))
	mux.HandleFunc("/categories/delete", protected(s.handleCategoryDelete))
	mux.HandleFunc("/report", protected(s.handleReport))
	mux.HandleFunc("/report/chart.png", protected(s.handleReportChart))
	mux.HandleFunc("/export/csv", protected(s.handleExportCSV))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)

	handler := s.limitPosts(headers.Middleware(mux))
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// limitPosts rate limits mutating requests per client IP. Reads stay
// unthrottled.
func (s *Server) limitPosts(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(clientIP, nil)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			limited.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
