// Package browser drives the headless Chrome shared by a whole run.
//
// The harness keeps exactly one browser per run. The session cookie set by
// the login form lives in that browser's profile, and the audit engine
// attaches to the same browser through its remote debugging port, so audits
// of login-required views see the authenticated session.
//
// Callers depend on the Browser and Tab interfaces. Rod is the go-rod
// implementation; browsertest provides an in-memory fake for tests.
package browser
