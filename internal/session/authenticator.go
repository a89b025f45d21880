package session

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/nao1215/viewaudit/internal/browser"
	"github.com/nao1215/viewaudit/internal/view"
)

// Selectors of the login form.
const (
	UsernameSelector = `input[name="login"]`
	PasswordSelector = `input[type="password"]`
	FormSelector     = `form.login`
)

// Credentials are the login username and password.
type Credentials struct {
	Username string
	Password string
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if c.Username == "" {
		return &AuthError{Kind: KindMissingCredential, Field: "username"}
	}
	if c.Password == "" {
		return &AuthError{Kind: KindMissingCredential, Field: "password"}
	}
	return nil
}

// Authenticator drives the application's login and logout pages.
type Authenticator struct {
	base    *url.URL
	timeout time.Duration
	logger  *slog.Logger
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithTimeout bounds each Login call. Zero means no bound beyond ctx.
func WithTimeout(d time.Duration) AuthenticatorOption {
	return func(a *Authenticator) { a.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) AuthenticatorOption {
	return func(a *Authenticator) { a.logger = logger }
}

// NewAuthenticator creates an authenticator for the application at base.
func NewAuthenticator(base *url.URL, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{base: base, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Login signs the browser in.
//
// Credentials are checked before any navigation. The form is filled in a
// fresh tab that is closed afterwards; the session cookie stays with the
// browser.
func (a *Authenticator) Login(ctx context.Context, b browser.Browser, creds Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	loginURL, err := view.ResolveTemplate(a.base, view.LoginPath, nil)
	if err != nil {
		return &AuthError{Kind: KindNavigation, Step: "resolve login URL", Err: err}
	}

	tab, err := b.NewTab(ctx)
	if err != nil {
		return a.classify(ctx, "open tab", err)
	}
	defer func() {
		if cerr := tab.Close(); cerr != nil {
			a.logger.Debug("closing login tab failed", "error", cerr)
		}
	}()

	a.logger.Debug("logging in", "url", loginURL.String(), "username", creds.Username)

	steps := []struct {
		name string
		do   func() error
	}{
		{"open login page", func() error { return tab.Navigate(ctx, loginURL.String()) }},
		{"wait for username field", func() error { return tab.WaitVisible(ctx, UsernameSelector) }},
		{"type username", func() error { return tab.Type(ctx, UsernameSelector, creds.Username) }},
		{"type password", func() error { return tab.Type(ctx, PasswordSelector, creds.Password) }},
		{"submit login form", func() error { return tab.SubmitAndWait(ctx, FormSelector) }},
	}
	for _, s := range steps {
		if err := s.do(); err != nil {
			return a.classify(ctx, s.name, err)
		}
	}

	a.logger.Debug("logged in", "username", creds.Username)
	return nil
}

// Logout signs the browser out by visiting the logout page. No confirmation
// element is awaited.
func (a *Authenticator) Logout(ctx context.Context, b browser.Browser) error {
	logoutURL, err := view.ResolveTemplate(a.base, view.LogoutPath, nil)
	if err != nil {
		return &AuthError{Kind: KindNavigation, Step: "resolve logout URL", Err: err}
	}

	tab, err := b.NewTab(ctx)
	if err != nil {
		return a.classify(ctx, "open tab", err)
	}
	defer func() {
		if cerr := tab.Close(); cerr != nil {
			a.logger.Debug("closing logout tab failed", "error", cerr)
		}
	}()

	if err := tab.Navigate(ctx, logoutURL.String()); err != nil {
		return a.classify(ctx, "open logout page", err)
	}
	a.logger.Debug("logged out")
	return nil
}

func (a *Authenticator) classify(ctx context.Context, step string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &AuthError{Kind: KindTimeout, Step: step, Err: err}
	}
	return &AuthError{Kind: KindNavigation, Step: step, Err: err}
}
