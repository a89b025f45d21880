package pipeline

import (
	"context"
	"log/slog"
)

// Step defines the interface that all pipeline steps must implement.
//
// Design decision: We use an interface rather than function types because
// steps carry configuration (the session, the engine, output directories)
// and report the run phase they belong to.
type Step interface {
	// Do executes the step against the visit.
	// Returning an error stops the remaining steps of this visit.
	Do(ctx context.Context, v *Visit) error

	// Name returns the step's name for logging purposes.
	Name() string

	// Phase returns the run phase the step belongs to.
	Phase() Phase
}

// Pipeline executes the steps of one visit in order.
type Pipeline struct {
	steps   []Step
	logger  *slog.Logger
	onPhase func(Phase, *Visit)
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithPhaseHook sets a function called before each step with the step's phase.
func WithPhaseHook(fn func(Phase, *Visit)) Option {
	return func(p *Pipeline) {
		p.onPhase = fn
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps against v in sequence.
//
// The context is checked before each step rather than during, because steps
// bound their own waits. The first failing step stops the visit; its name and
// error are recorded on v and the error is returned.
func (p *Pipeline) Execute(ctx context.Context, v *Visit) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("visit cancelled",
				"step", step.Name(),
				"view", v.View.Name,
				"reason", err,
			)
			v.FailedStep = step.Name()
			v.Err = err
			return err
		}

		if p.onPhase != nil {
			p.onPhase(step.Phase(), v)
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"view", v.View.Name,
		)

		if err := step.Do(ctx, v); err != nil {
			p.logger.Warn("step failed",
				"step", step.Name(),
				"view", v.View.Name,
				"error", err,
			)
			v.FailedStep = step.Name()
			v.Err = err
			return err
		}

		v.PerformedSteps = append(v.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
