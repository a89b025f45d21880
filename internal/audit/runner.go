package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/nao1215/viewaudit/internal/browser"
	"github.com/nao1215/viewaudit/internal/config"
	"github.com/nao1215/viewaudit/internal/model"
	"github.com/nao1215/viewaudit/internal/pipeline"
	"github.com/nao1215/viewaudit/internal/report"
	"github.com/nao1215/viewaudit/internal/view"
)

// Runner audits a plan of views and writes the results document.
type Runner struct {
	browser      browser.Browser
	session      pipeline.SessionManager
	engine       Engine
	base         *url.URL
	params       view.Params
	reportDir    string
	resultsFile  string
	jsonFile     string
	linker       report.Linker
	categoriesOf func(view string) []model.Category
	formFactors  []model.FormFactor
	version      string
	logger       *slog.Logger
	onPhase      func(pipeline.Phase, *pipeline.Visit)
	now          func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithReportDir sets the directory of detail reports and results files.
func WithReportDir(dir string) RunnerOption {
	return func(r *Runner) { r.reportDir = dir }
}

// WithJSONResults also writes the JSON results file with the given name.
func WithJSONResults(name string) RunnerOption {
	return func(r *Runner) { r.jsonFile = name }
}

// WithLinker sets how report links are built.
func WithLinker(l report.Linker) RunnerOption {
	return func(r *Runner) { r.linker = l }
}

// WithRunnerCategories sets the per-view category selection.
func WithRunnerCategories(fn func(view string) []model.Category) RunnerOption {
	return func(r *Runner) { r.categoriesOf = fn }
}

// WithRunnerFormFactors overrides the audited form factors.
func WithRunnerFormFactors(ffs ...model.FormFactor) RunnerOption {
	return func(r *Runner) { r.formFactors = ffs }
}

// WithVersion records the tool version in the JSON results.
func WithVersion(v string) RunnerOption {
	return func(r *Runner) { r.version = v }
}

// WithRunnerLogger sets the logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithOnPhase sets a hook called on every run phase change.
func WithOnPhase(fn func(pipeline.Phase, *pipeline.Visit)) RunnerOption {
	return func(r *Runner) { r.onPhase = fn }
}

// NewRunner creates an audit runner over a launched browser and its session.
func NewRunner(
	b browser.Browser,
	s pipeline.SessionManager,
	engine Engine,
	base *url.URL,
	params view.Params,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		browser:      b,
		session:      s,
		engine:       engine,
		base:         base,
		params:       params,
		reportDir:    ".",
		resultsFile:  config.DefaultResultsFile,
		categoriesOf: func(string) []model.Category { return model.AllCategories() },
		formFactors:  model.AllFormFactors(),
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summary is the outcome of an audit run.
type Summary struct {
	// Rows are all rows in run order, including degraded ones.
	Rows []model.Row
	// Visits are the finished visits.
	Visits []*pipeline.Visit
	// Document is what was written to the results file.
	Document *report.Document
	// ResultsPath is the path of results.md.
	ResultsPath string
	// JSONPath is the path of results.json, if written.
	JSONPath string
}

// Failed returns the number of failed rows.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Rows {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Run audits views in order, closes the browser and writes the results.
//
// A cancelled run still writes the rows collected so far and returns the
// context error together with the summary. Failure to write the results
// document is returned as an error wrapping report.ErrReportWrite.
func (r *Runner) Run(ctx context.Context, selection string, views []view.Descriptor) (*Summary, error) {
	step := NewStep(r.engine, r.browser.DebugPort(), r.reportDir,
		WithCategories(r.categoriesOf),
		WithFormFactors(r.formFactors...),
		WithStepLogger(r.logger),
	)

	factory := func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(r.logger))
		p.AddSteps(
			pipeline.NewSessionStep(r.session, pipeline.PolicyLoginOnly),
			pipeline.NewResolveStep(r.base, r.params),
			step,
		)
		return p
	}

	runnerOpts := []pipeline.RunnerOption{
		pipeline.WithRunnerLogger(r.logger),
		pipeline.WithCloser(r.browser),
	}
	if r.onPhase != nil {
		runnerOpts = append(runnerOpts, pipeline.WithOnPhase(r.onPhase))
	}

	summary := &Summary{}
	sink := func(v *pipeline.Visit) {
		if v.Failed() && len(v.Rows) == 0 {
			v.Rows = r.degradedRows(v)
		}
		summary.Rows = append(summary.Rows, v.Rows...)
	}

	visits, runErr := pipeline.NewRunner(factory, runnerOpts...).Run(ctx, views, sink)
	summary.Visits = visits

	summary.Document = &report.Document{
		BaseURL:     r.base.String(),
		Selection:   selection,
		GeneratedAt: r.now(),
		Rows:        summary.Rows,
		Linker:      r.linker,
		Cancelled:   runErr != nil,
	}

	outputs := []report.Output{{
		Name: r.resultsFile,
		New:  func(w io.Writer) report.Writer { return report.NewMarkdownWriter(w) },
	}}
	if r.jsonFile != "" {
		outputs = append(outputs, report.Output{
			Name: r.jsonFile,
			New: func(w io.Writer) report.Writer {
				return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(r.version))
			},
		})
	}

	paths, err := report.WriteDocuments(r.reportDir, summary.Document, outputs...)
	if err != nil {
		return summary, errors.Join(runErr, err)
	}
	summary.ResultsPath = paths[0]
	if len(paths) > 1 {
		summary.JSONPath = paths[1]
	}

	return summary, runErr
}

// degradedRows builds the rows of a visit that failed before auditing, one
// per form factor, so the failure is visible in the results.
func (r *Runner) degradedRows(v *pipeline.Visit) []model.Row {
	rows := make([]model.Row, 0, len(r.formFactors))
	for _, ff := range r.formFactors {
		rows = append(rows, model.Row{
			View:       v.View.Name,
			FormFactor: ff,
			Requested:  r.categoriesOf(v.View.Name),
			Artifact:   model.ArtifactName(v.View.Name, ff),
			Error:      v.FailedStep + ": " + v.Err.Error(),
			AuditedAt:  r.now(),
		})
	}
	return rows
}
