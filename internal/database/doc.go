// Package database provides SQLite-based storage for viewaudit run history.
//
// This package implements the HistoryDB, which stores:
//   - Audit runs with one row per audited view and form factor
//   - Snapshot runs with the digest and summary of every saved page
//
// The history feeds the compare command, which shows how category scores
// moved between two audit runs, and lets the scrape command tell which
// pages changed since the previous snapshot.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because it is a
// single CGO-free file in the user's XDG data directory, and a run writes a
// few dozen rows at most.
package database
