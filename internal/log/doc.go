// Package log builds the slog loggers used by viewaudit. Every logger
// masks credentials before a record reaches its output.
//
// Two kinds of values are masked with MaskValue:
//   - attributes whose key names a secret (password, csrfmiddlewaretoken,
//     sessionid, cookie, client_secret, ...)
//   - string values that look like a secret (bearer tokens, Stripe keys,
//     Django session cookies) or that contain one of the secrets registered
//     with the handler, such as the login password
//
// Verbose mode lowers the level to Debug but never disables masking, so a
// debug log can be attached to a bug report as is.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose, cfg.Password)
//	logger.Debug("submitting login form", "username", user, "password", pass)
//	// password=***REDACTED***
package log
