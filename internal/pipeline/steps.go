package pipeline

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nao1215/viewaudit/internal/view"
)

// SessionManager is the part of session.Session the steps use.
type SessionManager interface {
	Authenticated() bool
	EnsureLoggedIn(ctx context.Context) error
	EnsureLoggedOut(ctx context.Context) error
}

// SessionPolicy decides how the session follows the planned views.
type SessionPolicy int

const (
	// PolicyLoginOnly logs in before the first login-required view and
	// never logs out. Pre-login views are visited with whatever state the
	// session has.
	PolicyLoginOnly SessionPolicy = iota
	// PolicyToggle logs in for login-required views and logs out for
	// pre-login views, so every view is seen as its audience sees it.
	PolicyToggle
)

// SessionStep makes the session state match the view.
type SessionStep struct {
	session SessionManager
	policy  SessionPolicy
}

// NewSessionStep creates a session step with the given policy.
func NewSessionStep(s SessionManager, policy SessionPolicy) *SessionStep {
	return &SessionStep{session: s, policy: policy}
}

// Name returns the step name.
func (s *SessionStep) Name() string {
	return "ensure_session"
}

// Phase returns PhaseEnsuringSession.
func (s *SessionStep) Phase() Phase {
	return PhaseEnsuringSession
}

// Do logs in or out as the policy requires.
func (s *SessionStep) Do(ctx context.Context, v *Visit) error {
	if v.View.LoginRequired {
		if err := s.session.EnsureLoggedIn(ctx); err != nil {
			return fmt.Errorf("ensure logged in: %w", err)
		}
		return nil
	}
	if s.policy == PolicyToggle {
		if err := s.session.EnsureLoggedOut(ctx); err != nil {
			return fmt.Errorf("ensure logged out: %w", err)
		}
	}
	return nil
}

// ResolveStep resolves the view URL.
type ResolveStep struct {
	base   *url.URL
	params view.Params
}

// NewResolveStep creates a resolve step for the application at base.
func NewResolveStep(base *url.URL, params view.Params) *ResolveStep {
	return &ResolveStep{base: base, params: params}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve_url"
}

// Phase returns PhaseNavigating.
func (s *ResolveStep) Phase() Phase {
	return PhaseNavigating
}

// Do sets v.URL.
func (s *ResolveStep) Do(_ context.Context, v *Visit) error {
	u, err := view.Resolve(s.base, v.View, s.params)
	if err != nil {
		return err
	}
	v.URL = u
	return nil
}
