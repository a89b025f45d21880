package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Rod is a Browser backed by go-rod.
type Rod struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	port     int
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Option configures Launch.
type Option func(*launchOptions)

type launchOptions struct {
	bin        string
	headless   bool
	port       int
	slowMotion time.Duration
	logger     *slog.Logger
}

// WithBin sets the Chrome executable. Empty means auto-detect.
func WithBin(path string) Option {
	return func(o *launchOptions) { o.bin = path }
}

// WithHeadless selects headless mode.
func WithHeadless(headless bool) Option {
	return func(o *launchOptions) { o.headless = headless }
}

// WithDebugPort sets the remote debugging port.
func WithDebugPort(port int) Option {
	return func(o *launchOptions) { o.port = port }
}

// WithSlowMotion delays every input action by d.
func WithSlowMotion(d time.Duration) Option {
	return func(o *launchOptions) { o.slowMotion = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *launchOptions) { o.logger = logger }
}

// Launch starts Chrome and connects to it.
func Launch(ctx context.Context, opts ...Option) (*Rod, error) {
	o := launchOptions{headless: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	bin := o.bin
	if bin == "" {
		if path, found := launcher.LookPath(); found {
			bin = path
		}
	}

	l := launcher.New().Context(ctx).Headless(o.headless)
	if bin != "" {
		l = l.Bin(bin)
	}
	if o.port > 0 {
		l = l.RemoteDebuggingPort(o.port)
	}

	o.logger.Debug("launching browser", "bin", bin, "headless", o.headless, "port", o.port)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch: %w", ErrBrowser, err)
	}

	b := rod.New().ControlURL(controlURL)
	if o.slowMotion > 0 {
		b = b.SlowMotion(o.slowMotion)
	}
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: connect: %w", ErrBrowser, err)
	}

	return &Rod{launcher: l, browser: b, port: o.port, logger: o.logger}, nil
}

// NewTab opens a blank tab.
func (r *Rod) NewTab(ctx context.Context) (Tab, error) {
	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: new tab: %w", ErrBrowser, err)
	}
	return &rodTab{page: page}, nil
}

// DebugPort returns the remote debugging port.
func (r *Rod) DebugPort() int {
	return r.port
}

// Close closes the browser and kills the Chrome process.
func (r *Rod) Close() error {
	r.closeOnce.Do(func() {
		if err := r.browser.Close(); err != nil {
			r.closeErr = fmt.Errorf("%w: close: %w", ErrBrowser, err)
		}
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.logger.Debug("browser closed")
	})
	return r.closeErr
}

type rodTab struct {
	page *rod.Page
}

func (t *rodTab) Navigate(ctx context.Context, url string) error {
	p := t.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("%w: navigate %s: %w", ErrBrowser, url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("%w: wait load %s: %w", ErrBrowser, url, err)
	}
	return nil
}

func (t *rodTab) WaitVisible(ctx context.Context, selector string) error {
	el, err := t.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("%w: find %s: %w", ErrBrowser, selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("%w: wait visible %s: %w", ErrBrowser, selector, err)
	}
	return nil
}

func (t *rodTab) Type(ctx context.Context, selector, text string) error {
	el, err := t.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("%w: find %s: %w", ErrBrowser, selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("%w: type into %s: %w", ErrBrowser, selector, err)
	}
	return nil
}

func (t *rodTab) SubmitAndWait(ctx context.Context, selector string) error {
	p := t.page.Context(ctx)
	el, err := p.Element(selector)
	if err != nil {
		return fmt.Errorf("%w: find %s: %w", ErrBrowser, selector, err)
	}

	wait := p.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if _, err := el.Eval(`() => this.submit()`); err != nil {
		return fmt.Errorf("%w: submit %s: %w", ErrBrowser, selector, err)
	}
	wait()

	// WaitNavigation has no error result; a cancelled context is the only
	// way it returns early.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: submit %s: %w", ErrBrowser, selector, err)
	}
	return nil
}

func (t *rodTab) HTML(ctx context.Context) (string, error) {
	html, err := t.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("%w: read html: %w", ErrBrowser, err)
	}
	return html, nil
}

func (t *rodTab) URL(ctx context.Context) (string, error) {
	info, err := t.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("%w: page info: %w", ErrBrowser, err)
	}
	return info.URL, nil
}

func (t *rodTab) Close() error {
	if err := t.page.Close(); err != nil {
		return fmt.Errorf("%w: close tab: %w", ErrBrowser, err)
	}
	return nil
}

var (
	_ Browser = (*Rod)(nil)
	_ Tab     = (*rodTab)(nil)
)
