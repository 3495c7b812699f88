package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/pantryinv/internal/domain"
	"github.com/vbonduro/pantryinv/internal/service"
)

const sessionCookie = "pantry_session"

type Server struct {
	service   *service.PantryService
	auth      *service.Authenticator
	templates embed.FS
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	logger    *slog.Logger
}

func NewServer(svc *service.PantryService, auth *service.Authenticator, tmpl embed.FS, logger *slog.Logger) *Server {
	s := &Server{
		service:   svc,
		auth:      auth,
		templates: tmpl,
		mux:       http.NewServeMux(),
		logger:    logger,
		tmplFuncs: template.FuncMap{
			"categoryIcon": categoryIcon,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/items", http.StatusSeeOther)
	})
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("POST /logout", s.handleLogout)

	s.mux.Handle("GET /items", s.requireSession(s.handleListItems))
	s.mux.Handle("GET /items/expired", s.requireSession(s.handleListExpired))
	s.mux.Handle("POST /items", s.requireSession(s.handleAddItem))
	s.mux.Handle("POST /items/{pos}/dispense", s.requireSession(s.handleDispenseItem))
	s.mux.Handle("DELETE /items/{pos}", s.requireSession(s.handleRemoveItem))
	s.mux.Handle("GET /chart", s.requireSession(s.handleChart))
	s.mux.Handle("GET /files", s.requireSession(s.handleListFiles))
	s.mux.Handle("POST /files/save", s.requireSession(s.handleSaveFile))
	s.mux.Handle("POST /files/load", s.requireSession(s.handleLoadFile))
	s.mux.Handle("DELETE /files/{name}", s.requireSession(s.handleDeleteFile))
}

type sessionKey struct{}

// requireSession rejects requests without a live session cookie. Browsers are
// redirected to the login page; HTMX requests get an HX-Redirect.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var session *domain.Session
		if c, err := r.Cookie(sessionCookie); err == nil {
			session = s.auth.Lookup(c.Value)
		}
		if session == nil {
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
	})
}

// sessionFrom returns the session attached by requireSession.
func sessionFrom(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey{}).(*domain.Session)
	return session
}

// contentSecurityPolicy admits htmx and its extensions from unpkg and nothing
// else from off-site.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://unpkg.com; " +
	"style-src 'self' 'unsafe-inline'; " +
	"form-action 'self'; " +
	"frame-ancestors 'none'"

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		// Stock levels change with every dispense.
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// responseRecorder remembers the status and body size of a response for the
// request log.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// requestLogger logs one line per request. Failed requests log at warn level
// so a pantry worker's rejected action stands out from routine traffic.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}
		logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"htmx", r.Header.Get("HX-Request") == "true",
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// renderPage parses and executes a full-page template set with the given
// status code.
func (s *Server) renderPage(w http.ResponseWriter, status int, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// renderPartial executes the fragment defined as {{define "name"}} in
// partials/<name>.html.
func (s *Server) renderPartial(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, "partials/"+name+".html")
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, name, data)
}

type flash struct {
	Message string
	Error   bool
}

// renderError answers with status and shows msg in the page's #flash
// element. HTMX does not swap error responses on its own; the
// response-targets extension in base.html routes them to #flash, and the
// retarget headers cover forms whose own target is elsewhere.
func (s *Server) renderError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("HX-Retarget", "#flash")
	w.Header().Set("HX-Reswap", "outerHTML")
	if err := s.renderPartial(w, status, "flash", flash{Message: msg, Error: true}); err != nil {
		s.logger.Error("render error failed", "status", status, "error", err)
	}
}

// renderNotice shows a success message in #flash.
func (s *Server) renderNotice(w http.ResponseWriter, msg string) {
	w.Header().Set("HX-Retarget", "#flash")
	w.Header().Set("HX-Reswap", "outerHTML")
	if err := s.renderPartial(w, http.StatusOK, "flash", flash{Message: msg}); err != nil {
		s.logger.Error("render notice failed", "error", err)
	}
}

// categoryIcon returns an emoji based on keywords in the category name.
func categoryIcon(category string) string {
	lower := strings.ToLower(category)
	switch {
	case contains(lower, "can", "tin"):
		return "🥫"
	case contains(lower, "dairy", "milk", "cheese"):
		return "🧀"
	case contains(lower, "produce", "fruit", "veg"):
		return "🥕"
	case contains(lower, "bread", "bakery"):
		return "🍞"
	case contains(lower, "grain", "rice", "pasta", "cereal"):
		return "🌾"
	case contains(lower, "drink", "bever", "juice"):
		return "🧃"
	case contains(lower, "hygiene", "toilet", "soap"):
		return "🧼"
	default:
		return "📦"
	}
}

func contains(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
