// Package snapshot saves the rendered HTML of planned views.
//
// The snapshotter follows the audience of every view: it logs in before a
// login-required view and logs out before a pre-login view, then navigates,
// waits for the load event and writes the page's HTML to "{view}.html".
// Page loads have no timeout; a hung page is ended by cancelling the run.
//
// Each saved page is analysed with goquery. A login form on a view that
// requires login usually means the session was lost, and is logged as a
// warning.
package snapshot
