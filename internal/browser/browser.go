package browser

import (
	"context"
	"errors"
)

// ErrBrowser wraps every failure reported by the browser driver.
var ErrBrowser = errors.New("browser error")

// Browser is a running browser instance.
type Browser interface {
	// NewTab opens a blank tab.
	NewTab(ctx context.Context) (Tab, error)
	// DebugPort returns the remote debugging port other tools can attach to.
	DebugPort() int
	// Close shuts the browser down. It is safe to call more than once.
	Close() error
}

// Tab is one page of the browser.
//
// Every method honors ctx: a context without deadline waits as long as the
// page needs.
type Tab interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error
	// WaitVisible waits until the element matching selector is visible.
	WaitVisible(ctx context.Context, selector string) error
	// Type focuses the element matching selector and types text into it.
	Type(ctx context.Context, selector, text string) error
	// SubmitAndWait submits the form matching selector and waits for the
	// navigation it triggers to load.
	SubmitAndWait(ctx context.Context, selector string) error
	// HTML returns the serialized DOM of the page.
	HTML(ctx context.Context) (string, error)
	// URL returns the current page URL.
	URL(ctx context.Context) (string, error)
	// Close closes the tab.
	Close() error
}
