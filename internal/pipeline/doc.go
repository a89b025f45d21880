// Package pipeline runs planned views through a sequence of steps.
//
// Each planned view becomes a Visit. A fresh Pipeline is built for every
// visit and executes its steps in order: make the session match the view,
// resolve the view URL, then audit or capture it. The Runner walks the plan
// strictly one visit at a time over a single shared browser and reports
// every phase change through an OnPhase hook:
//
//	NotStarted -> BrowserReady -> (EnsuringSession -> Navigating ->
//	Auditing|Capturing -> Reported)* -> Closed
//
// Design decision: Visits are sequential, not batched. All visits share one
// browser and one session cookie, and the audit engine attaches to that
// browser's debugging port, so two visits in flight would observe each
// other's navigation and session changes.
//
// Cancellation is cooperative: the context is checked before every visit and
// before every step, and a cancelled run still reports the visits it finished.
package pipeline
