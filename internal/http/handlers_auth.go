package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"outgo/internal/auth"
	"outgo/internal/core"
)

type authPage struct {
	Error    string
	Username string
	Email    string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", authPage{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.Form.Get("username"))
		password := r.Form.Get("password")

		token, err := s.auth.Login(r.Context(), username, password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				s.render(w, r, "login.html", authPage{Error: "Invalid username or password", Username: username})
				return
			}
			slog.ErrorContext(r.Context(), "Login failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		auth.SetSessionCookie(w, token, s.sessionTTL)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "register.html", authPage{})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.Form.Get("username"))
		email := strings.TrimSpace(r.Form.Get("email"))
		password := r.Form.Get("password")

		user, err := s.auth.Register(r.Context(), username, email, password)
		if err != nil {
			msg := "Could not create the account"
			switch {
			case errors.Is(err, core.ErrUsernameTaken):
				msg = "That username is already taken"
			case errors.Is(err, auth.ErrWeakPassword):
				msg = "Password must be at least 8 characters"
			case errors.Is(err, core.ErrEmptyName):
				msg = "Username is required"
			default:
				slog.ErrorContext(r.Context(), "Registration failed", "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			s.render(w, r, "register.html", authPage{Error: msg, Username: username, Email: email})
			return
		}

		token, err := s.auth.IssueToken(user.ID)
		if err != nil {
			slog.ErrorContext(r.Context(), "Token issue failed", "error", err)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		auth.SetSessionCookie(w, token, s.sessionTTL)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
