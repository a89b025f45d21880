package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// sensitiveKeys contains attribute keys that are always masked.
var sensitiveKeys = map[string]bool{
	// HTTP
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-csrftoken":   true,

	// Login form
	"password":  true,
	"password1": true,
	"password2": true,
	"passwd":    true,

	// Django
	"csrftoken":           true,
	"csrfmiddlewaretoken": true,
	"sessionid":           true,
	"session":             true,

	// Stripe
	"client_secret":   true,
	"publishable_key": true,
	"secret_key":      true,
}

// sensitiveKeywords mark a key as sensitive when contained anywhere in it.
// The bare word "key" is left out because it matches too much ("view_key").
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "csrf", "cookie", "credential",
}

// sensitivePatterns flag values that are secrets regardless of their key.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	// Stripe API keys and payment intent client secrets
	regexp.MustCompile(`\b(sk|pk|rk)_(live|test)_[A-Za-z0-9]{10,}`),
	regexp.MustCompile(`\bpi_[A-Za-z0-9]+_secret_[A-Za-z0-9]+`),
	// Django cookies as they appear in Cookie headers
	regexp.MustCompile(`(?i)\b(sessionid|csrftoken)=[^;\s]+`),
}

// SecureHandler wraps an slog.Handler and masks sensitive attributes
// before passing records on.
//
// Design decision: We use a handler wrapper rather than a custom logger so
// that every component can keep taking a plain *slog.Logger.
type SecureHandler struct {
	handler slog.Handler
	secrets []string
}

// NewSecureHandler creates a SecureHandler wrapping handler.
// Every non-empty secret is masked wherever it appears inside a string value.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler, secrets ...string) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &SecureHandler{handler: handler}
	for _, s := range secrets {
		if s != "" {
			h.secrets = append(h.secrets, s)
		}
	}
	return h
}

// Enabled reports whether the underlying handler handles level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's message and attributes and forwards it.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, h.maskString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a handler with the given attributes, masked, added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitized), secrets: h.secrets}
}

// WithGroup returns a handler that nests attributes under name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name), secrets: h.secrets}
}

func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = h.sanitizeAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.maskString(a.Value.String()))
	case slog.KindAny:
		// Errors and Stringers frequently embed URLs or form values.
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, h.maskString(err.Error()))
		}
	}
	return a
}

// maskString replaces registered secrets and pattern matches inside s.
func (h *SecureHandler) maskString(s string) string {
	for _, secret := range h.secrets {
		s = strings.ReplaceAll(s, secret, MaskValue)
	}
	for _, p := range sensitivePatterns {
		s = p.ReplaceAllString(s, MaskValue)
	}
	return s
}

// IsSensitiveKey reports whether an attribute key names a secret.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if sensitiveKeys[k] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}

// NewSecureLogger creates a text logger that masks sensitive information.
// verbose selects Debug instead of Warn. secrets are masked wherever they
// appear in a message or string attribute.
func NewSecureLogger(w io.Writer, verbose bool, secrets ...string) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose)), secrets...))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, for CI log collectors.
func NewSecureJSONLogger(w io.Writer, verbose bool, secrets ...string) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose)), secrets...))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
