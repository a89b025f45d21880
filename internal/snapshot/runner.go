package snapshot

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/nao1215/viewaudit/internal/browser"
	"github.com/nao1215/viewaudit/internal/pipeline"
	"github.com/nao1215/viewaudit/internal/view"
)

// Runner snapshots a plan of views.
type Runner struct {
	browser browser.Browser
	session pipeline.SessionManager
	base    *url.URL
	params  view.Params
	dir     string
	logger  *slog.Logger
	onPhase func(pipeline.Phase, *pipeline.Visit)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithOnPhase sets a hook called on every run phase change.
func WithOnPhase(fn func(pipeline.Phase, *pipeline.Visit)) RunnerOption {
	return func(r *Runner) { r.onPhase = fn }
}

// NewRunner creates a snapshot runner writing into dir.
func NewRunner(
	b browser.Browser,
	s pipeline.SessionManager,
	base *url.URL,
	params view.Params,
	dir string,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		browser: b,
		session: s,
		base:    base,
		params:  params,
		dir:     dir,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summary is the outcome of a snapshot run.
type Summary struct {
	// Snapshots has one entry per visited view, in run order.
	Snapshots []Snapshot
	// Visits are the finished visits.
	Visits []*pipeline.Visit
}

// Failed returns the number of views that could not be saved.
func (s *Summary) Failed() int {
	n := 0
	for _, snap := range s.Snapshots {
		if snap.Failed() {
			n++
		}
	}
	return n
}

// Run snapshots views in order and closes the browser. A cancelled run
// returns the snapshots taken so far with the context error.
func (r *Runner) Run(ctx context.Context, views []view.Descriptor) (*Summary, error) {
	summary := &Summary{}

	var last *Snapshot
	factory := func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(r.logger))
		p.AddSteps(
			pipeline.NewSessionStep(r.session, pipeline.PolicyToggle),
			pipeline.NewResolveStep(r.base, r.params),
			NewStep(r.browser, r.dir, r.logger, func(s Snapshot) { last = &s }),
		)
		return p
	}

	opts := []pipeline.RunnerOption{
		pipeline.WithRunnerLogger(r.logger),
		pipeline.WithCloser(r.browser),
	}
	if r.onPhase != nil {
		opts = append(opts, pipeline.WithOnPhase(r.onPhase))
	}

	sink := func(v *pipeline.Visit) {
		switch {
		case v.Failed():
			snap := Snapshot{View: v.View.Name, Error: v.FailedStep + ": " + v.Err.Error()}
			if v.URL != nil {
				snap.URL = v.URL.String()
			}
			summary.Snapshots = append(summary.Snapshots, snap)
		case last != nil:
			summary.Snapshots = append(summary.Snapshots, *last)
		}
		last = nil
	}

	visits, err := pipeline.NewRunner(factory, opts...).Run(ctx, views, sink)
	summary.Visits = visits
	return summary, err
}
