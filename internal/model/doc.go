// Package model defines the value types shared by the audit, snapshot and
// report packages.
//
// This package contains the following main types:
//   - Category: A Lighthouse scoring category (performance, accessibility, ...)
//   - FormFactor: The device profile an audit is run with (mobile, desktop)
//   - Tier: The good/warn/bad classification of a 0-100 score
//   - Row: One audited (view, form factor) pair and its scores
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The audit runner produces rows, the report formatter renders
// them and the history store persists them, so centralizing the types keeps
// those packages independent of each other.
package model
