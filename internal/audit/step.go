package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/viewaudit/internal/model"
	"github.com/nao1215/viewaudit/internal/pipeline"
	"github.com/nao1215/viewaudit/internal/report"
)

// Step audits the visit's URL with every form factor.
type Step struct {
	engine       Engine
	port         int
	reportDir    string
	formFactors  []model.FormFactor
	categoriesOf func(view string) []model.Category
	logger       *slog.Logger
	now          func() time.Time
}

// StepOption configures a Step.
type StepOption func(*Step)

// WithFormFactors overrides the audited form factors.
func WithFormFactors(ffs ...model.FormFactor) StepOption {
	return func(s *Step) { s.formFactors = ffs }
}

// WithCategories sets the per-view category selection.
func WithCategories(fn func(view string) []model.Category) StepOption {
	return func(s *Step) { s.categoriesOf = fn }
}

// WithStepLogger sets the logger.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(s *Step) { s.logger = logger }
}

// NewStep creates an audit step. Detail reports are written to reportDir.
func NewStep(engine Engine, port int, reportDir string, opts ...StepOption) *Step {
	s := &Step{
		engine:       engine,
		port:         port,
		reportDir:    reportDir,
		formFactors:  model.AllFormFactors(),
		categoriesOf: func(string) []model.Category { return model.AllCategories() },
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *Step) Name() string {
	return "lighthouse_audit"
}

// Phase returns PhaseAuditing.
func (s *Step) Phase() pipeline.Phase {
	return pipeline.PhaseAuditing
}

// Do audits the view once per form factor and appends a row for each.
// Engine and artifact failures are recorded on the row and never returned,
// so the remaining form factors and views still run.
func (s *Step) Do(ctx context.Context, v *pipeline.Visit) error {
	categories := s.categoriesOf(v.View.Name)

	for _, ff := range s.formFactors {
		row := model.Row{
			View:       v.View.Name,
			FormFactor: ff,
			Requested:  categories,
			Artifact:   model.ArtifactName(v.View.Name, ff),
		}

		res, err := s.engine.Audit(ctx, Request{
			URL:        v.URL.String(),
			FormFactor: ff,
			Categories: categories,
			Port:       s.port,
		})
		if err != nil {
			err = &EngineError{View: v.View.Name, FormFactor: ff, Err: err}
			s.logger.Warn("audit failed", "view", v.View.Name, "form_factor", ff, "error", err)
			row.Error = err.Error()
			row.AuditedAt = s.now()
			v.Rows = append(v.Rows, row)
			continue
		}

		row.Scores = res.Scores
		row.FinalURL = res.FinalURL
		row.AuditedAt = s.now()

		path, werr := report.WriteArtifact(s.reportDir, row.Artifact, res.HTML)
		if werr != nil {
			s.logger.Warn("saving detail report failed", "view", v.View.Name, "form_factor", ff, "error", werr)
			row.Error = werr.Error()
		} else {
			v.Artifacts = append(v.Artifacts, path)
		}
		v.Rows = append(v.Rows, row)
	}
	return nil
}
