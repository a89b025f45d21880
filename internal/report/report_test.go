package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/viewaudit/internal/model"
)

// scenarioRow is the row of a single audit that returned performance 0.92
// and accessibility 0.81 with only those two categories requested.
func scenarioRow() model.Row {
	return model.Row{
		View:       "landing",
		FormFactor: model.FormFactorMobile,
		Requested:  []model.Category{model.CategoryPerformance, model.CategoryAccessibility},
		Scores: map[model.Category]int{
			model.CategoryPerformance:   model.ScoreFromFraction(0.92),
			model.CategoryAccessibility: model.ScoreFromFraction(0.81),
		},
		Artifact: "landing-mobile.html",
	}
}

// TestFormatRow tests the rendering of a single row.
func TestFormatRow(t *testing.T) {
	t.Parallel()

	got := FormatRow(scenarioRow(), "landing-mobile.html")
	want := "| Landing | Mobile |" +
		" ![Performance 92](https://img.shields.io/badge/Performance-92-brightgreen) |" +
		" ![Accessibility 81](https://img.shields.io/badge/Accessibility-81-orange) |" +
		" n/a | n/a |" +
		" [landing-mobile](landing-mobile.html) |"

	if got != want {
		t.Errorf("unexpected row:\nwant %s\ngot  %s", want, got)
	}
}

// TestTitleCase tests that only the first letter is capitalized.
func TestTitleCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"landing", "Landing"},
		{"recipe-read", "Recipe-read"},
		{"social-login", "Social-login"},
		{"desktop", "Desktop"},
		{"éclair", "Éclair"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestBadge tests badge colors and label escaping.
func TestBadge(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		category model.Category
		score    int
		expected string
	}{
		{"good", model.CategorySEO, 90, "![SEO 90](https://img.shields.io/badge/SEO-90-brightgreen)"},
		{"warn", model.CategorySEO, 50, "![SEO 50](https://img.shields.io/badge/SEO-50-orange)"},
		{"bad", model.CategorySEO, 49, "![SEO 49](https://img.shields.io/badge/SEO-49-red)"},
		{
			"space in label",
			model.CategoryBestPractices, 100,
			"![Best Practices 100](https://img.shields.io/badge/Best%20Practices-100-brightgreen)",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Badge(tc.category, tc.score); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

// TestFormatRowFailed tests that failed rows render n/a cells and are marked.
func TestFormatRowFailed(t *testing.T) {
	t.Parallel()

	row := model.Row{
		View:       "home",
		FormFactor: model.FormFactorDesktop,
		Requested:  model.AllCategories(),
		Artifact:   "home-desktop.html",
		Error:      "lighthouse exited with status 1",
	}

	got := FormatRow(row, "home-desktop.html")
	if strings.Count(got, NotApplicable) != 4 {
		t.Errorf("expected four n/a cells, got %s", got)
	}
	if !strings.Contains(got, "[home-desktop (failed)](home-desktop.html)") {
		t.Errorf("expected failed link label, got %s", got)
	}
}

// TestFormatDocument tests that rows keep their order and no header is added.
func TestFormatDocument(t *testing.T) {
	t.Parallel()

	a := scenarioRow()
	b := scenarioRow()
	b.View = "signup"
	b.Artifact = "signup-mobile.html"

	doc := FormatDocument([]model.Row{b, a, b}, Linker{})
	lines := strings.Split(doc, "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "| Signup |") || !strings.HasPrefix(lines[1], "| Landing |") || lines[2] != lines[0] {
		t.Errorf("expected rows in input order without dedup, got\n%s", doc)
	}
	if strings.Contains(doc, "---") {
		t.Error("expected no header separator")
	}
	if FormatDocument(nil, Linker{}) != "" {
		t.Error("expected empty document for no rows")
	}
}

// TestLinker tests relative and absolute report links.
func TestLinker(t *testing.T) {
	t.Parallel()

	if got := (Linker{}).Link("home-mobile.html"); got != "home-mobile.html" {
		t.Errorf("expected relative link, got %q", got)
	}

	l := Linker{Base: "https://example.github.io/recipes/", Dir: "doc/test/lighthouse"}
	want := "https://example.github.io/recipes/doc/test/lighthouse/home-mobile.html"
	if got := l.Link("home-mobile.html"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func testDocument() *Document {
	failed := model.Row{
		View:       "home",
		FormFactor: model.FormFactorMobile,
		Requested:  model.AllCategories(),
		Artifact:   "home-mobile.html",
		Error:      "engine crashed",
	}
	return &Document{
		BaseURL:     "https://recipes.example.com/",
		Selection:   "all",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Rows:        []model.Row{scenarioRow(), failed},
	}
}

// TestMarkdownWriter tests the results document.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(testDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Lighthouse Report",
		"https://recipes.example.com/",
		TableHeader(),
		FormatRow(scenarioRow(), "landing-mobile.html"),
		"## Failures",
		"engine crashed",
		"pie",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

// TestJSONWriter tests the JSON output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, WithPrettyPrint(), WithVersion("v1.0.0")).Write(testDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got JSONDocument
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Version != "v1.0.0" || len(got.Rows) != 2 {
		t.Errorf("unexpected document: %+v", got)
	}
	if got.Summary.Failed != 1 || got.Summary.Good != 1 || got.Summary.Warn != 1 {
		t.Errorf("unexpected summary: %+v", got.Summary)
	}
	if got.Rows[0].Scores[model.CategoryPerformance] != 92 {
		t.Errorf("expected performance 92, got %v", got.Rows[0].Scores)
	}
}

// TestSummaryWriter tests the terminal table.
func TestSummaryWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewSummaryWriter(&buf).Write(testDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"landing", "92 good", "81 warn", "failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

// TestWriteArtifact tests artifact persistence.
func TestWriteArtifact(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "doc", "test", "lighthouse")
	path, err := WriteArtifact(dir, "home-mobile.html", []byte("<html></html>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("unexpected content %q", data)
	}

	// A regular file where the directory should be makes the write fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := WriteArtifact(filepath.Join(blocker, "sub"), "x.html", nil); !errors.Is(err, ErrReportWrite) {
		t.Errorf("expected ErrReportWrite, got %v", err)
	}
}

// errWriter fails every write.
type errWriter struct{}

func (errWriter) Write(*Document) (int, error) { return 0, errors.New("disk full") }

// TestWriteDocuments tests rendering one document into several files.
func TestWriteDocuments(t *testing.T) {
	t.Parallel()

	t.Run("markdown and json in one pass", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		paths, err := WriteDocuments(dir, testDocument(),
			Output{Name: "results.md", New: func(w io.Writer) Writer { return NewMarkdownWriter(w) }},
			Output{Name: "results.json", New: func(w io.Writer) Writer { return NewJSONWriter(w) }},
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(paths) != 2 || paths[0] != filepath.Join(dir, "results.md") || paths[1] != filepath.Join(dir, "results.json") {
			t.Fatalf("paths = %v", paths)
		}

		md, err := os.ReadFile(paths[0]) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("read markdown: %v", err)
		}
		if !strings.Contains(string(md), "| Landing | Mobile |") {
			t.Errorf("expected rows in document, got\n%s", md)
		}

		data, err := os.ReadFile(paths[1]) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("read json: %v", err)
		}
		var doc JSONDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Errorf("invalid JSON: %v\n%s", err, data)
		}
	})

	t.Run("render failure", func(t *testing.T) {
		t.Parallel()

		_, err := WriteDocuments(t.TempDir(), testDocument(),
			Output{Name: "results.md", New: func(io.Writer) Writer { return errWriter{} }})
		if !errors.Is(err, ErrReportWrite) {
			t.Errorf("expected ErrReportWrite, got %v", err)
		}
	})
}

// TestMultiWriter tests that writers run in order and stop at the first error.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var first, last bytes.Buffer
	n, err := NewMultiWriter(NewMarkdownWriter(&first), errWriter{}, NewMarkdownWriter(&last)).Write(testDocument())
	if err == nil {
		t.Fatal("expected an error")
	}
	if n == 0 || first.Len() == 0 {
		t.Errorf("the first writer should have written, n = %d", n)
	}
	if last.Len() != 0 {
		t.Error("writers after the failing one must not run")
	}
}
