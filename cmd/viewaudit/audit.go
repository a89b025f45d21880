package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/viewaudit/internal/audit"
	"github.com/nao1215/viewaudit/internal/browser"
	"github.com/nao1215/viewaudit/internal/config"
	"github.com/nao1215/viewaudit/internal/database"
	"github.com/nao1215/viewaudit/internal/pipeline"
	"github.com/nao1215/viewaudit/internal/report"
	"github.com/nao1215/viewaudit/internal/session"
	"github.com/nao1215/viewaudit/internal/view"
)

// ErrFailedRows is returned by audit --strict when any row failed.
var ErrFailedRows = errors.New("audit finished with failed rows")

// deps holds what the browser commands need from the outside world.
// Tests replace them with in-memory fakes.
type deps struct {
	catalog *view.Catalog
	launch  func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (browser.Browser, error)
	engine  func(cfg *config.Config, logger *slog.Logger) audit.Engine
	now     func() time.Time
}

// defaultDeps returns the production dependencies: a go-rod Chrome and
// the Lighthouse CLI.
func defaultDeps() deps {
	return deps{
		catalog: view.DefaultCatalog(),
		launch: func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (browser.Browser, error) {
			return browser.Launch(ctx,
				browser.WithBin(cfg.ChromeBin),
				browser.WithHeadless(!cfg.Show),
				browser.WithDebugPort(cfg.DebugPort),
				browser.WithSlowMotion(cfg.SlowMotion),
				browser.WithLogger(logger),
			)
		},
		engine: func(cfg *config.Config, logger *slog.Logger) audit.Engine {
			return audit.NewLighthouse(
				audit.WithBin(cfg.LighthouseBin),
				audit.WithEngineTimeout(cfg.EngineTimeout),
				audit.WithLogger(logger),
			)
		},
		now: time.Now,
	}
}

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run Lighthouse on every selected view and write a badge report",
		Long: `Audit visits the selected views in catalog order, logging in before the
first view that requires a session, and runs Lighthouse on each one for the
mobile and desktop form factors.

For every audit the detailed HTML report is saved as
<testpath>/<reportpath>/<view>-<form factor>.html, and the scores of all
audits are collected in <testpath>/<reportpath>/results.md as a Markdown
table of shields.io badges.

A view whose audit fails is reported as a failed row; the run goes on.

Examples:
  # Audit every view
  viewaudit audit -u alice -p secret

  # Audit only the views that need no login
  viewaudit audit -r pre-login

  # Audit one view with a recipe id
  viewaudit audit -r recipe-read --ir 42

  # Show the available views
  viewaudit audit --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAuditCmd(cmd, defaultDeps())
		},
	}

	addSessionFlags(cmd)
	cmd.Flags().StringP("reportpath", "o", config.DefaultReportPath,
		"Directory below --testpath for Lighthouse reports")
	cmd.Flags().StringP("report", "r", config.DefaultSelection,
		"View to audit: a view name, all, pre-login or post-login")
	cmd.Flags().Bool("json", false, "Also write "+config.DefaultJSONResultsFile)
	cmd.Flags().StringSlice("form-factor", nil,
		"Form factors to audit: mobile, desktop (default: both)")
	cmd.Flags().Duration("timeout", config.DefaultEngineTimeout,
		"Timeout for one Lighthouse run (0 means no timeout)")
	cmd.Flags().String("lighthouse", config.DefaultLighthouseBin, "Lighthouse executable")
	cmd.Flags().String("chrome", "", "Chrome executable (default: auto-detect)")
	cmd.Flags().Int("port", config.DefaultDebugPort, "Chrome remote debugging port")
	cmd.Flags().String("linkbase", "", "Make report links absolute below this URL")
	cmd.Flags().Bool("strict", false, "Exit with an error if any audit failed")

	return cmd
}

// runAuditCmd executes the audit command.
func runAuditCmd(cmd *cobra.Command, d deps) error {
	if listRequested(cmd) {
		view.WriteList(cmd.OutOrStdout(), d.catalog)
		return nil
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAudit(ctx, cmd.OutOrStdout(), cfg, logger, d)
}

// runAudit plans, audits and records one run.
func runAudit(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, d deps) error {
	plan, base, params, err := prepare(out, cfg, d.catalog)
	if err != nil || len(plan) == 0 {
		return err
	}
	formFactors, err := cfg.ParsedFormFactors()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	b, err := d.launch(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sess := newSession(b, base, cfg, logger)
	runner := audit.NewRunner(b, sess, d.engine(cfg, logger), base, params,
		audit.WithReportDir(cfg.ReportDir()),
		audit.WithLinker(report.Linker{Base: cfg.LinkBase, Dir: filepath.ToSlash(cfg.ReportDir())}),
		audit.WithRunnerCategories(cfg.CategoriesFor),
		audit.WithRunnerFormFactors(formFactors...),
		audit.WithVersion(getVersion()),
		audit.WithRunnerLogger(logger),
		audit.WithOnPhase(progress(out)),
		jsonOption(cfg),
	)

	started := d.now()
	summary, runErr := runner.Run(ctx, cfg.Selection, plan)
	if summary == nil {
		return runErr
	}

	if _, err := report.NewSummaryWriter(out).Write(summary.Document); err != nil {
		logger.Warn("failed to print summary", "error", err)
	}
	if summary.ResultsPath != "" {
		fmt.Fprintf(out, "Results written to %s\n", summary.ResultsPath)
	}
	if summary.JSONPath != "" {
		fmt.Fprintf(out, "JSON results written to %s\n", summary.JSONPath)
	}

	if cfg.SaveToDB {
		saveAuditRun(ctx, out, cfg, logger, started, summary)
	}

	if runErr != nil {
		return runErr
	}
	if cfg.Strict && summary.Failed() > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFailedRows, summary.Failed(), len(summary.Rows))
	}
	return nil
}

// prepare turns the configuration into a run plan and checks everything the
// plan needs before a browser is started. An empty plan is not an error;
// the user gets suggestions instead.
func prepare(out io.Writer, cfg *config.Config, c *view.Catalog) ([]view.Descriptor, *url.URL, view.Params, error) {
	if cfg.File != nil {
		if err := cfg.File.CheckViews(c.Names()); err != nil {
			return nil, nil, nil, fmt.Errorf("configuration error: %w", err)
		}
	}

	sel := view.ParseSelection(cfg.Selection)
	plan := view.Plan(sel, c)
	if len(plan) == 0 {
		fmt.Fprintf(out, "No view matches %q.\n", sel.String())
		if hints := view.Suggest(sel.Name, c); len(hints) > 0 {
			fmt.Fprintf(out, "Did you mean: %s?\n", joinNames(hints))
		}
		fmt.Fprintln(out, "Run with --list to see the available views.")
		return nil, nil, nil, nil
	}

	if view.NeedsLogin(plan) {
		if err := cfg.ValidateCredentials(); err != nil {
			return nil, nil, nil, fmt.Errorf("configuration error: %w", err)
		}
	}

	params := view.NewParams(cfg.Username, cfg.RecipeID)
	if err := view.CheckParams(plan, params); err != nil {
		return nil, nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	base, err := cfg.ParsedBaseURL()
	if err != nil {
		return nil, nil, nil, err
	}
	return plan, base, params, nil
}

// newSession creates the login session shared by all visits of a run.
func newSession(b browser.Browser, base *url.URL, cfg *config.Config, logger *slog.Logger) *session.Session {
	auth := session.NewAuthenticator(base,
		session.WithTimeout(cfg.LoginTimeout),
		session.WithLogger(logger),
	)
	return session.New(auth, b, session.Credentials{Username: cfg.Username, Password: cfg.Password})
}

// jsonOption enables results.json when requested.
func jsonOption(cfg *config.Config) audit.RunnerOption {
	if !cfg.JSONReport {
		return func(*audit.Runner) {}
	}
	return audit.WithJSONResults(config.DefaultJSONResultsFile)
}

// progress prints one line per visited view.
func progress(out io.Writer) func(pipeline.Phase, *pipeline.Visit) {
	return func(p pipeline.Phase, v *pipeline.Visit) {
		if v == nil || p != pipeline.PhaseEnsuringSession {
			return
		}
		fmt.Fprintf(out, "[%d/%d] %s\n", v.Index, v.Total, v.View.Name)
	}
}

// saveAuditRun records the run in the history database. Failures are only
// logged: the report files are already written.
func saveAuditRun(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, started time.Time, s *audit.Summary) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "error", err)
		return
	}
	defer db.Close()

	// The run context may already be cancelled; saving must still happen.
	saveCtx := context.WithoutCancel(ctx)
	id, err := db.SaveAuditRun(saveCtx, &database.AuditRun{
		Run: database.Run{
			BaseURL:   cfg.BaseURL,
			Selection: cfg.Selection,
			StartedAt: started,
			Cancelled: s.Document.Cancelled,
		},
		Rows: s.Rows,
	})
	if err != nil {
		logger.Warn("failed to save audit run", "error", err)
		return
	}
	fmt.Fprintf(out, "Saved as run %d in %s\n", id, db.Path())
}
