package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/nao1215/viewaudit/internal/view"
)

// Runner visits planned views one after another.
type Runner struct {
	// pipelineFactory creates the pipeline of one visit.
	// A fresh pipeline per visit keeps step state from leaking between views.
	pipelineFactory func() *Pipeline

	logger  *slog.Logger
	onPhase func(Phase, *Visit)
	closer  io.Closer
	phase   Phase
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithOnPhase sets a function called on every phase change. The visit is
// nil for run-level phases (BrowserReady and Closed).
func WithOnPhase(fn func(Phase, *Visit)) RunnerOption {
	return func(r *Runner) {
		r.onPhase = fn
	}
}

// WithCloser sets the resource closed exactly once when the run ends,
// normally the shared browser.
func WithCloser(c io.Closer) RunnerOption {
	return func(r *Runner) {
		r.closer = c
	}
}

// NewRunner creates a Runner that builds each visit's pipeline with factory.
func NewRunner(factory func() *Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{
		pipelineFactory: factory,
		phase:           PhaseNotStarted,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Phase returns the current phase of the run.
func (r *Runner) Phase() Phase {
	return r.phase
}

// Run visits every view in order and hands each finished visit to sink,
// including visits whose steps failed. A failed visit never stops the run.
//
// The context is checked between visits; on cancellation Run stops, closes
// the browser and returns the visits finished so far together with ctx.Err().
func (r *Runner) Run(ctx context.Context, views []view.Descriptor, sink func(*Visit)) ([]*Visit, error) {
	r.setPhase(PhaseBrowserReady, nil)
	defer r.close()

	start := time.Now()
	r.logger.Debug("starting run", "views", len(views))

	visits := make([]*Visit, 0, len(views))
	for i, d := range views {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("run cancelled",
				"completed", len(visits),
				"total", len(views),
				"reason", err,
			)
			return visits, err
		}

		v := NewVisit(i+1, len(views), d)
		p := r.pipelineFactory()
		hook := p.onPhase
		p.onPhase = func(ph Phase, v *Visit) {
			r.setPhase(ph, v)
			if hook != nil {
				hook(ph, v)
			}
		}

		if err := p.Execute(ctx, v); err != nil {
			r.logger.Warn("visit failed",
				"view", d.Name,
				"step", v.FailedStep,
				"error", err,
			)
		}

		if sink != nil {
			sink(v)
		}
		visits = append(visits, v)
		r.setPhase(PhaseReported, v)
		r.setPhase(PhaseBrowserReady, nil)
	}

	r.logger.Debug("run complete",
		"views", len(views),
		"elapsed", time.Since(start),
	)
	return visits, nil
}

func (r *Runner) setPhase(p Phase, v *Visit) {
	r.phase = p
	if r.onPhase != nil {
		r.onPhase(p, v)
	}
}

func (r *Runner) close() {
	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			r.logger.Warn("closing browser failed", "error", err)
		}
	}
	r.setPhase(PhaseClosed, nil)
}
