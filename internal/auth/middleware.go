package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "outgo_session"

type contextKey string

const ownerKey contextKey = "owner_id"

// OwnerFromContext returns the authenticated owner ID placed by Middleware.
func OwnerFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ownerKey).(int64)
	return id, ok
}

// WithOwner returns a context carrying the owner ID. Exposed for tests.
func WithOwner(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ownerKey, ownerID)
}

// Middleware resolves the session cookie and injects the owner ID into the
// request context. Requests without a valid session are redirected to /login.
func (s *Service) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ownerID, err := s.VerifyToken(cookie.Value)
		if err != nil {
			slog.DebugContext(r.Context(), "Session token rejected", "error", err)
			ClearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next(w, r.WithContext(WithOwner(r.Context(), ownerID)))
	}
}

// SetSessionCookie writes the session cookie for a freshly issued token.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
