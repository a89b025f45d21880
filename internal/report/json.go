package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/viewaudit/internal/model"
)

// JSONWriter outputs the results document in JSON format.
// This format is designed for tool integration, e.g. failing a CI job when a
// score drops below a threshold.
type JSONWriter struct {
	output io.Writer

	// indent enables pretty-printed JSON output.
	indent bool

	// version is the viewaudit version recorded in the output.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// WithVersion records the tool version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{output: output}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONDocument is the serialized form of a Document.
type JSONDocument struct {
	Version     string      `json:"version,omitempty"`
	BaseURL     string      `json:"base_url"`
	Selection   string      `json:"selection"`
	GeneratedAt time.Time   `json:"generated_at"`
	Cancelled   bool        `json:"cancelled,omitempty"`
	Rows        []JSONRow   `json:"rows"`
	Summary     JSONSummary `json:"summary"`
}

// JSONRow is one row with its resolved report link.
type JSONRow struct {
	model.Row
	Link string `json:"link"`
}

// JSONSummary counts rows and scored cells.
type JSONSummary struct {
	Rows   int `json:"rows"`
	Failed int `json:"failed"`
	Good   int `json:"good"`
	Warn   int `json:"warn"`
	Bad    int `json:"bad"`
}

// Write outputs the document in JSON format.
func (w *JSONWriter) Write(doc *Document) (int, error) {
	counts := doc.TierCounts()
	out := JSONDocument{
		Version:     w.version,
		BaseURL:     doc.BaseURL,
		Selection:   doc.Selection,
		GeneratedAt: doc.GeneratedAt,
		Cancelled:   doc.Cancelled,
		Rows:        make([]JSONRow, len(doc.Rows)),
		Summary: JSONSummary{
			Rows:   len(doc.Rows),
			Failed: len(doc.FailedRows()),
			Good:   counts[model.TierGood],
			Warn:   counts[model.TierWarn],
			Bad:    counts[model.TierBad],
		},
	}
	for i, r := range doc.Rows {
		out.Rows[i] = JSONRow{Row: r, Link: doc.Linker.Link(r.Artifact)}
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
