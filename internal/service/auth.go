package service

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vbonduro/pantryinv/internal/domain"
)

// ErrInvalidCredentials is returned by Login when the username or password
// does not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticator checks a single fixed credential pair and tracks the sessions
// it has issued.
type Authenticator struct {
	username string
	password string
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func NewAuthenticator(username, password string, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		username: username,
		password: password,
		logger:   logger,
		sessions: make(map[string]*domain.Session),
	}
}

func (a *Authenticator) Login(username, password string) (*domain.Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		a.logger.Warn("login failed", "username", username)
		return nil, ErrInvalidCredentials
	}

	session := &domain.Session{
		Token:     uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now(),
	}

	a.mu.Lock()
	a.sessions[session.Token] = session
	a.mu.Unlock()

	a.logger.Info("login", "username", username)
	return session, nil
}

// Lookup returns the session for token, or nil if there is none.
func (a *Authenticator) Lookup(token string) *domain.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions[token]
}

func (a *Authenticator) Logout(token string) {
	a.mu.Lock()
	session, ok := a.sessions[token]
	delete(a.sessions, token)
	a.mu.Unlock()

	if ok {
		a.logger.Info("logout", "username", session.Username)
	}
}
