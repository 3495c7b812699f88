package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/pantryinv/internal/service"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w, http.StatusOK,
		map[string]any{"Error": ""},
		"base.html", "pages/login.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	session, err := s.auth.Login(r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "login failed", http.StatusInternalServerError)
			s.logger.Error("login error", "error", err)
			return
		}
		if err := s.renderPage(w, http.StatusUnauthorized,
			map[string]any{"Error": "Invalid username or password."},
			"base.html", "pages/login.html",
		); err != nil {
			s.logger.Error("render page failed", "error", err)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.auth.Logout(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
