package session

import (
	"context"
	"slices"
	"sync"

	"github.com/nao1215/viewaudit/internal/browser"
)

// Session tracks the authentication state of one browser.
//
// The flag starts false, becomes true after a successful login and false
// again after an explicit logout. It is never inferred from the page.
type Session struct {
	auth    *Authenticator
	browser browser.Browser
	creds   Credentials

	mu            sync.Mutex
	authenticated bool
	logins        int
	logouts       int
	listeners     []func(authenticated bool)
}

// New creates a session for b. The session starts unauthenticated.
func New(auth *Authenticator, b browser.Browser, creds Credentials) *Session {
	return &Session{auth: auth, browser: b, creds: creds}
}

// OnChange registers fn to be called after every state change.
func (s *Session) OnChange(fn func(authenticated bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Authenticated reports whether the browser is logged in.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Logins returns how many logins the session performed.
func (s *Session) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Logouts returns how many logouts the session performed.
func (s *Session) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

// EnsureLoggedIn logs in unless the session is already authenticated.
func (s *Session) EnsureLoggedIn(ctx context.Context) error {
	if s.Authenticated() {
		return nil
	}
	if err := s.auth.Login(ctx, s.browser, s.creds); err != nil {
		return err
	}
	s.set(true, func() { s.logins++ })
	return nil
}

// EnsureLoggedOut logs out if the session is authenticated.
func (s *Session) EnsureLoggedOut(ctx context.Context) error {
	if !s.Authenticated() {
		return nil
	}
	if err := s.auth.Logout(ctx, s.browser); err != nil {
		return err
	}
	s.set(false, func() { s.logouts++ })
	return nil
}

func (s *Session) set(authenticated bool, count func()) {
	s.mu.Lock()
	s.authenticated = authenticated
	count()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(authenticated)
	}
}
