package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nao1215/viewaudit/internal/config"
	"github.com/nao1215/viewaudit/internal/database"
	"github.com/nao1215/viewaudit/internal/snapshot"
	"github.com/nao1215/viewaudit/internal/view"
)

// Change states of a snapshot compared to the previous run.
const (
	changeNew       = "new"
	changeChanged   = "changed"
	changeUnchanged = "unchanged"
	changeFailed    = "failed"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Save the rendered HTML of every selected view",
		Long: `Scrape visits the selected views in catalog order and saves the rendered
HTML of each one as <testpath>/<htmlpath>/<view>.html.

Pre-login views are captured logged out and post-login views logged in; the
session is toggled as the plan crosses between them.

When the history database is enabled, each page is compared with the last
saved snapshot of the same view and reported as new, changed or unchanged.

Examples:
  # Save every view
  viewaudit scrape -u alice -p secret

  # Save one view into another directory
  viewaudit scrape -v home -o pages`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrapeCmd(cmd, defaultDeps())
		},
	}

	addSessionFlags(cmd)
	cmd.Flags().StringP("htmlpath", "o", config.DefaultHTMLPath,
		"Directory below --testpath for HTML snapshots")
	cmd.Flags().StringP("view", "v", config.DefaultSelection,
		"View to save: a view name, all, pre-login or post-login")
	cmd.Flags().String("chrome", "", "Chrome executable (default: auto-detect)")
	cmd.Flags().Int("port", config.DefaultDebugPort, "Chrome remote debugging port")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, d deps) error {
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

	return runScrape(ctx, cmd.OutOrStdout(), cfg, logger, d)
}

// runScrape plans, captures and records one snapshot run.
func runScrape(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, d deps) error {
	plan, base, params, err := prepare(out, cfg, d.catalog)
	if err != nil || len(plan) == 0 {
		return err
	}

	b, err := d.launch(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sess := newSession(b, base, cfg, logger)
	runner := snapshot.NewRunner(b, sess, base, params, cfg.SnapshotDir(),
		snapshot.WithLogger(logger),
		snapshot.WithOnPhase(progress(out)),
	)

	started := d.now()
	summary, runErr := runner.Run(ctx, plan)

	var db *database.HistoryDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("failed to open history database", "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	// The run context may already be cancelled; reporting must still happen.
	saveCtx := context.WithoutCancel(ctx)
	writeSnapshotTable(saveCtx, out, db, logger, cfg.BaseURL, summary.Snapshots)

	if db != nil {
		run := &database.SnapshotRun{
			Run: database.Run{
				BaseURL:   cfg.BaseURL,
				Selection: cfg.Selection,
				StartedAt: started,
				Cancelled: runErr != nil,
			},
			Snapshots: snapshotRecords(summary.Snapshots),
		}
		if id, err := db.SaveSnapshotRun(saveCtx, run); err != nil {
			logger.Warn("failed to save snapshot run", "error", err)
		} else {
			fmt.Fprintf(out, "Saved as run %d in %s\n", id, db.Path())
		}
	}

	if runErr != nil {
		return runErr
	}
	if n := summary.Failed(); n > 0 {
		fmt.Fprintf(out, "%d of %d views could not be saved\n", n, len(summary.Snapshots))
	}
	return nil
}

// writeSnapshotTable prints every snapshot with its change state against the
// last snapshot of the same target. Without a database every saved page is new.
func writeSnapshotTable(ctx context.Context, out io.Writer, db *database.HistoryDB, logger *slog.Logger, baseURL string, snaps []snapshot.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"View", "State", "Title", "Size", "File"})

	for _, s := range snaps {
		if s.Failed() {
			t.AppendRow(table.Row{s.View, changeFailed, s.Error, "", ""})
			continue
		}
		if s.Analysis == nil {
			t.AppendRow(table.Row{s.View, changeNew, "", "", s.Path})
			continue
		}
		state := changeNew
		if db != nil {
			prev, err := db.LatestSnapshot(ctx, baseURL, s.View)
			switch {
			case err != nil:
				logger.Warn("failed to read previous snapshot", "view", s.View, "error", err)
			case prev == nil:
			case prev.SHA256 == s.Analysis.SHA256:
				state = changeUnchanged
			default:
				state = changeChanged
			}
		}
		t.AppendRow(table.Row{s.View, state, s.Analysis.Title, s.Analysis.Size, s.Path})
	}
	t.Render()
}

// snapshotRecords converts snapshots to their stored form.
func snapshotRecords(snaps []snapshot.Snapshot) []database.SnapshotRecord {
	records := make([]database.SnapshotRecord, 0, len(snaps))
	for _, s := range snaps {
		rec := database.SnapshotRecord{
			View:  s.View,
			URL:   s.URL,
			Path:  s.Path,
			Error: s.Error,
		}
		if s.Analysis != nil {
			rec.Title = s.Analysis.Title
			rec.SHA256 = s.Analysis.SHA256
			rec.Size = s.Analysis.Size
			rec.HasLoginForm = s.Analysis.HasLoginForm
		}
		records = append(records, rec)
	}
	return records
}
