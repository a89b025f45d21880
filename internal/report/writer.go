package report

import (
	"time"

	"github.com/nao1215/viewaudit/internal/model"
)

// Document is everything a writer needs to render the results of a run.
type Document struct {
	// Title is the document heading.
	Title string
	// BaseURL is the audited application.
	BaseURL string
	// Selection is the view selection token of the run.
	Selection string
	// GeneratedAt is when the run finished.
	GeneratedAt time.Time
	// Rows are the audit rows in run order.
	Rows []model.Row
	// Linker builds detail report links.
	Linker Linker
	// Cancelled is set when the run stopped before all views were visited.
	Cancelled bool
}

// FailedRows returns the rows whose audit failed.
func (d *Document) FailedRows() []model.Row {
	var out []model.Row
	for _, r := range d.Rows {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// TierCounts counts scored cells by tier.
func (d *Document) TierCounts() map[model.Tier]int {
	counts := make(map[model.Tier]int)
	for _, r := range d.Rows {
		for _, c := range model.AllCategories() {
			if s, ok := r.Score(c); ok {
				counts[model.TierOf(s)]++
			}
		}
	}
	return counts
}

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. The audit command writes results.md and optionally
// results.json, and prints a summary to the terminal, from one Document.
type Writer interface {
	// Write outputs the document.
	// Returns the number of bytes written and any error encountered.
	Write(doc *Document) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the document to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(doc *Document) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(doc)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
