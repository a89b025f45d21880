package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nao1215/viewaudit/internal/config"
	"github.com/nao1215/viewaudit/internal/database"
	"github.com/nao1215/viewaudit/internal/report"
)

// ErrNotEnoughRuns is returned when fewer than two audit runs are stored.
var ErrNotEnoughRuns = errors.New("at least 2 audit runs are required for comparison")

// NewCompareCmd creates the compare command.
// This command compares audit scores with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the scores of the latest audit with an earlier one",
		Long: `Compare shows how the Lighthouse scores changed between two audit runs.

Every audit run is recorded in the history database unless --no-db is given.
By default the latest run is compared with the one before it. Cells are
matched by view, form factor and category; unchanged cells are hidden unless
--all is given.

Examples:
  # Compare the latest two audits
  viewaudit compare

  # List the recorded runs
  viewaudit compare --list

  # Compare the latest audit with run 5
  viewaudit compare --with-run-id 5

  # Output the comparison as Markdown
  viewaudit compare --markdown > changes.md`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false, "List the recorded audit and scrape runs")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific audit run by ID (use --list to see available IDs)")
	cmd.Flags().BoolP("all", "a", false, "Also show cells whose score did not change")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false, "Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	cmd.Flags().String("dbdir", config.XDGDataDir(), "Directory of the history database")

	return cmd
}

// compareOptions are the parsed flags of the compare command.
type compareOptions struct {
	list     bool
	withID   int64
	all      bool
	json     bool
	markdown bool
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	var opts compareOptions
	flags := cmd.Flags()
	if opts.list, err = flags.GetBool("list"); err != nil {
		return err
	}
	if opts.withID, err = flags.GetInt64("with-run-id"); err != nil {
		return err
	}
	if opts.all, err = flags.GetBool("all"); err != nil {
		return err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return err
	}

	// Comparing needs existing history; never create an empty database here.
	db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
	if err != nil {
		if errors.Is(err, database.ErrDatabaseMissing) {
			return fmt.Errorf("no run history in %s: run 'viewaudit audit' first", cfg.DBDir)
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return runCompare(cmd.Context(), cmd.OutOrStdout(), db, opts)
}

// runCompare lists runs or compares two audit runs.
func runCompare(ctx context.Context, out io.Writer, db *database.HistoryDB, opts compareOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.list {
		return listRuns(ctx, out, db)
	}

	latest, err := db.LatestAuditRuns(ctx, 2)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}
	if len(latest) == 0 || (len(latest) < 2 && opts.withID == 0) {
		return fmt.Errorf("%w (found %d)", ErrNotEnoughRuns, len(latest))
	}

	current, previous := latest[0], (*database.AuditRun)(nil)
	if opts.withID > 0 {
		previous, err = db.GetAuditRun(ctx, opts.withID)
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", opts.withID, err)
		}
		if previous.ID == current.ID {
			return fmt.Errorf("run %d is the latest run; choose an earlier one", opts.withID)
		}
	} else {
		previous = latest[1]
	}

	c := report.Compare(previous.Rows, current.Rows, opts.all)
	c.Previous = runInfo(previous)
	c.Current = runInfo(current)

	switch {
	case opts.json:
		return report.WriteComparisonJSON(out, c)
	case opts.markdown:
		return report.WriteComparisonMarkdown(out, c)
	default:
		return report.WriteComparisonText(out, c)
	}
}

// runInfo summarizes a stored run for the comparison header.
func runInfo(r *database.AuditRun) report.RunInfo {
	return report.RunInfo{
		ID:        r.ID,
		StartedAt: r.StartedAt,
		Selection: r.Selection,
		Rows:      r.Entries,
		Failed:    r.Failed,
	}
}

// listRuns prints the audit runs followed by the scrape runs.
func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	var runs []database.Run
	for _, kind := range []database.RunKind{database.KindAudit, database.KindSnapshot} {
		r, err := db.ListRuns(ctx, kind, 0)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		runs = append(runs, r...)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found in the database.")
		fmt.Fprintln(out, "\nUse 'viewaudit audit' to record an audit run.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Kind", "Date", "Selection", "Entries", "Failed", "Base URL"})
	for _, r := range runs {
		selection := r.Selection
		if r.Cancelled {
			selection += " (cancelled)"
		}
		t.AppendRow(table.Row{r.ID, string(r.Kind), r.StartedAt.Format("2006-01-02 15:04:05"),
			selection, r.Entries, strconv.Itoa(r.Failed), r.BaseURL})
	}
	t.Render()

	fmt.Fprintln(out, "\nUse 'viewaudit compare' to compare the latest two audit runs.")
	fmt.Fprintln(out, "Use 'viewaudit compare --with-run-id <id>' to compare with a specific run.")
	return nil
}
