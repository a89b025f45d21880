package report

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nao1215/viewaudit/internal/model"
)

// SummaryWriter prints the rows as a terminal table.
type SummaryWriter struct {
	output io.Writer
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer) *SummaryWriter {
	return &SummaryWriter{output: output}
}

// Write renders the table. The byte count is the length of the rendered table.
func (w *SummaryWriter) Write(doc *Document) (int, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	header := table.Row{"View", "Form Factor"}
	for _, c := range model.AllCategories() {
		header = append(header, c.DisplayName())
	}
	header = append(header, "Status")
	t.AppendHeader(header)

	for _, r := range doc.Rows {
		row := table.Row{r.View, r.FormFactor.String()}
		for _, c := range model.AllCategories() {
			cell := NotApplicable
			if s, ok := r.Score(c); ok {
				cell = strconv.Itoa(s) + " " + model.TierOf(s).String()
			}
			row = append(row, cell)
		}
		status := "ok"
		if r.Failed() {
			status = "failed"
		}
		row = append(row, status)
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "", strconv.Itoa(len(doc.FailedRows())) + " failed"})
	return io.WriteString(w.output, t.Render()+"\n")
}
