package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/viewaudit/internal/model"
)

// MarkdownWriter outputs the results document in Markdown format.
//
// Design decision: We use the nao1215/markdown library for the parts of the
// document it models (headings, tables, alerts, charts) and insert the score
// rows as plain text, because the rows carry inline badge images and must
// stay byte-for-byte what FormatDocument produces.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs the document.
func (w *MarkdownWriter) Write(doc *Document) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, doc)
	w.writeScores(md, doc)
	w.writeDistribution(md, doc)
	w.writeFailures(md, doc)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, doc *Document) {
	title := doc.Title
	if title == "" {
		title = "Lighthouse Report"
	}
	md.H1(title)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Base URL", doc.BaseURL},
			{"Selection", "`" + doc.Selection + "`"},
			{"Generated", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Rows", strconv.Itoa(len(doc.Rows))},
			{"Failed", strconv.Itoa(len(doc.FailedRows()))},
		},
	})
	md.PlainText("")

	switch {
	case doc.Cancelled:
		md.Warningf("The run was cancelled before every view was audited; results are partial.")
	case len(doc.FailedRows()) > 0:
		md.Cautionf("%d audit(s) failed. Failed rows link to the report file they would have produced.", len(doc.FailedRows()))
	case len(doc.Rows) == 0:
		md.Note("No views matched the selection.")
	default:
		md.Tip("Every planned view was audited.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeScores(md *markdown.Markdown, doc *Document) {
	md.H2("Scores")
	md.PlainText("")
	if len(doc.Rows) == 0 {
		md.PlainText("No rows.")
		md.PlainText("")
		return
	}
	md.PlainText(TableHeader())
	md.PlainText(FormatDocument(doc.Rows, doc.Linker))
	md.PlainText("")
}

func (w *MarkdownWriter) writeDistribution(md *markdown.Markdown, doc *Document) {
	counts := doc.TierCounts()
	if len(counts) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Score Distribution"),
		piechart.WithShowData(true),
	)
	for _, tier := range []model.Tier{model.TierGood, model.TierWarn, model.TierBad} {
		if n := counts[tier]; n > 0 {
			chart.LabelAndIntValue(tier.String(), uint64(n)) //nolint:gosec // counts are non-negative
		}
	}

	md.H2("Score Distribution")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, doc *Document) {
	failed := doc.FailedRows()
	if len(failed) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")
	rows := make([][]string, len(failed))
	for i, r := range failed {
		rows[i] = []string{r.View, r.FormFactor.String(), truncateString(r.Error, 120)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"View", "Form Factor", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [viewaudit](https://github.com/nao1215/viewaudit)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
