// Package browsertest provides an in-memory browser.Browser for tests.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nao1215/viewaudit/internal/browser"
)

// Browser is a fake browser that records every tab action in order.
type Browser struct {
	// Port is returned by DebugPort.
	Port int

	// Pages maps URLs to the HTML returned after navigating to them.
	// Unknown URLs return a minimal document naming the URL.
	Pages map[string]string

	// NavigateErr maps URLs to the error Navigate returns for them.
	NavigateErr map[string]error

	// WaitVisibleErr is returned by every WaitVisible call when set.
	WaitVisibleErr error

	mu      sync.Mutex
	events  []string
	tabs    int
	open    int
	closes  int
	current map[*Tab]string
}

// New returns a fake browser listening on port.
func New(port int) *Browser {
	return &Browser{
		Port:        port,
		Pages:       make(map[string]string),
		NavigateErr: make(map[string]error),
		current:     make(map[*Tab]string),
	}
}

// NewTab opens a fake tab.
func (b *Browser) NewTab(ctx context.Context) (browser.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabs++
	b.open++
	b.events = append(b.events, "new-tab")
	return &Tab{b: b}, nil
}

// DebugPort returns Port.
func (b *Browser) DebugPort() int {
	return b.Port
}

// Close records the close.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closes++
	b.events = append(b.events, "close-browser")
	return nil
}

// Events returns a copy of the recorded events, e.g. "navigate https://...".
func (b *Browser) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

// EventsWithPrefix returns the recorded events starting with prefix.
func (b *Browser) EventsWithPrefix(prefix string) []string {
	var out []string
	for _, e := range b.Events() {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Closes returns how many times Close was called.
func (b *Browser) Closes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}

// OpenTabs returns the number of tabs not yet closed.
func (b *Browser) OpenTabs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

func (b *Browser) record(event string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

// Tab is a fake tab of Browser.
type Tab struct {
	b *Browser
}

// Navigate records the navigation or returns the configured error.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.b.record("navigate " + url)
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	if err := t.b.NavigateErr[url]; err != nil {
		return err
	}
	t.b.current[t] = url
	return nil
}

// WaitVisible records the wait.
func (t *Tab) WaitVisible(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.b.record("wait-visible " + selector)
	return t.b.WaitVisibleErr
}

// Type records the selector typed into. The text itself is not recorded.
func (t *Tab) Type(ctx context.Context, selector, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.b.record("type " + selector)
	return nil
}

// SubmitAndWait records the submission.
func (t *Tab) SubmitAndWait(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.b.record("submit " + selector)
	return nil
}

// HTML returns the configured page for the current URL.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	url := t.b.current[t]
	if html, ok := t.b.Pages[url]; ok {
		return html, nil
	}
	return fmt.Sprintf("<html><head><title>%s</title></head><body></body></html>", url), nil
}

// URL returns the last navigated URL.
func (t *Tab) URL(context.Context) (string, error) {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	return t.b.current[t], nil
}

// Close records the close.
func (t *Tab) Close() error {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	t.b.open--
	delete(t.b.current, t)
	t.b.events = append(t.b.events, "close-tab")
	return nil
}

var (
	_ browser.Browser = (*Browser)(nil)
	_ browser.Tab     = (*Tab)(nil)
)

// Tabs returns how many tabs were opened in total.
func (b *Browser) Tabs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tabs
}
