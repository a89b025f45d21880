// Package audit runs Lighthouse against planned views and collects the
// category scores into report rows.
//
// Every view is audited once per form factor (mobile, then desktop). The
// engine attaches to the browser the session logged in with, through its
// remote debugging port, and is told not to reset storage so the session
// cookie survives.
//
// Design decision: A failed audit never aborts the run. The failing
// (view, form factor) pair becomes a row with no scores and the error
// message, and the runner moves on to the next pair. The results document
// is written even when every audit failed.
package audit
