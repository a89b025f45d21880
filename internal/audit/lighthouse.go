package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/viewaudit/internal/model"
)

// CommandRunner runs an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec // binary and args come from configuration
}

// Lighthouse is an Engine backed by the Lighthouse CLI.
type Lighthouse struct {
	bin     string
	timeout time.Duration
	run     CommandRunner
	logger  *slog.Logger
}

// LighthouseOption configures a Lighthouse engine.
type LighthouseOption func(*Lighthouse)

// WithBin sets the Lighthouse executable.
func WithBin(bin string) LighthouseOption {
	return func(l *Lighthouse) { l.bin = bin }
}

// WithEngineTimeout bounds each invocation. Zero means no bound.
func WithEngineTimeout(d time.Duration) LighthouseOption {
	return func(l *Lighthouse) { l.timeout = d }
}

// WithCommandRunner replaces process execution, for tests.
func WithCommandRunner(run CommandRunner) LighthouseOption {
	return func(l *Lighthouse) { l.run = run }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LighthouseOption {
	return func(l *Lighthouse) { l.logger = logger }
}

// NewLighthouse creates a Lighthouse engine.
func NewLighthouse(opts ...LighthouseOption) *Lighthouse {
	l := &Lighthouse{
		bin:    "lighthouse",
		run:    execCommand,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Version returns the version reported by the Lighthouse executable.
func (l *Lighthouse) Version(ctx context.Context) (string, error) {
	out, err := l.run(ctx, l.bin, "--version")
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", l.bin, err)
	}
	v := strings.TrimSpace(string(out))
	if v == "" {
		return "", fmt.Errorf("%s --version: %w", l.bin, ErrMalformedResult)
	}
	return v, nil
}

// Args returns the command line for req, writing outputs next to outputBase.
// Lighthouse appends ".report.json" and ".report.html" to outputBase.
func (l *Lighthouse) Args(req Request, outputBase string) []string {
	cats := make([]string, len(req.Categories))
	for i, c := range req.Categories {
		cats[i] = string(c)
	}

	args := []string{
		req.URL,
		"--port=" + strconv.Itoa(req.Port),
		"--output=json",
		"--output=html",
		"--output-path=" + outputBase,
		"--only-categories=" + strings.Join(cats, ","),
		"--disable-storage-reset",
		"--quiet",
	}
	// Mobile is Lighthouse's default form factor.
	if req.FormFactor == model.FormFactorDesktop {
		args = append(args, "--preset=desktop")
	}
	return args
}

// Audit runs Lighthouse once and parses its result.
func (l *Lighthouse) Audit(ctx context.Context, req Request) (*Result, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	tmp, err := os.MkdirTemp("", "viewaudit-lighthouse-*")
	if err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	defer func() {
		if rerr := os.RemoveAll(tmp); rerr != nil {
			l.logger.Debug("removing lighthouse output failed", "dir", tmp, "error", rerr)
		}
	}()

	base := filepath.Join(tmp, "report")
	args := l.Args(req, base)
	l.logger.Debug("running lighthouse", "bin", l.bin, "url", req.URL, "form_factor", req.FormFactor)

	out, err := l.run(ctx, l.bin, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("lighthouse timed out after %s: %w", l.timeout, ctx.Err())
		}
		return nil, fmt.Errorf("run %s: %w: %s", l.bin, err, lastLine(out))
	}

	data, err := os.ReadFile(base + ".report.json") //nolint:gosec // file in our temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: read json result: %w", ErrMalformedResult, err)
	}
	res, err := ParseResult(data, req.Categories)
	if err != nil {
		return nil, err
	}

	html, err := os.ReadFile(base + ".report.html") //nolint:gosec // file in our temp dir
	if err != nil {
		return nil, fmt.Errorf("%w: read html report: %w", ErrMalformedResult, err)
	}
	res.HTML = html
	return res, nil
}

// lastLine returns the last non-empty line of command output, which is where
// Lighthouse prints its fatal error.
func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ Engine = (*Lighthouse)(nil)
