package report

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/viewaudit/internal/model"
)

// NotApplicable is the cell text of a category that was not requested or
// produced no score.
const NotApplicable = "n/a"

// shieldsBaseURL is the static badge endpoint.
const shieldsBaseURL = "https://img.shields.io/badge/"

// Badge returns the Markdown image of a score badge, e.g.
// ![Performance 92](https://img.shields.io/badge/Performance-92-brightgreen).
func Badge(c model.Category, score int) string {
	name := c.DisplayName()
	s := strconv.Itoa(score)
	target := shieldsBaseURL + shieldsEscape(name) + "-" + s + "-" + model.TierOf(score).Color()
	return markdown.Image(name+" "+s, target)
}

// shieldsEscape escapes a badge label for the shields.io path syntax, where a
// single dash or underscore is a separator.
func shieldsEscape(label string) string {
	label = strings.ReplaceAll(label, "-", "--")
	label = strings.ReplaceAll(label, "_", "__")
	return url.PathEscape(label)
}

// TitleCase upper-cases the first letter of a view or form factor name for
// display and keeps the rest as is: "recipe-read" becomes "Recipe-read".
func TitleCase(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return cases.Upper(language.English).String(s[:size]) + s[size:]
}

// Linker builds the link target of a row's detail report.
type Linker struct {
	// Base, when set, makes links absolute: Base joined with Dir and the
	// artifact name. When empty, links are the bare artifact name, which
	// resolves next to the results file.
	Base string
	// Dir is the report directory relative to Base.
	Dir string
}

// Link returns the link target of an artifact.
func (l Linker) Link(artifact string) string {
	if l.Base == "" {
		return artifact
	}
	u, err := url.Parse(l.Base)
	if err != nil {
		return artifact
	}
	u.Path = path.Join("/", u.Path, l.Dir, artifact)
	return u.String()
}

// FormatRow renders one row:
//
//	| View | FormFactor | badge | badge | badge | badge | [view-formfactor](link) |
//
// Categories appear in report column order. A category renders as a badge
// only when it was requested and scored; otherwise it renders as "n/a".
func FormatRow(row model.Row, link string) string {
	var sb strings.Builder
	sb.WriteString("| ")
	sb.WriteString(TitleCase(row.View))
	sb.WriteString(" | ")
	sb.WriteString(TitleCase(row.FormFactor.String()))
	sb.WriteString(" |")

	for _, c := range model.AllCategories() {
		cell := NotApplicable
		if score, ok := row.Score(c); ok {
			cell = Badge(c, score)
		}
		sb.WriteString(" ")
		sb.WriteString(cell)
		sb.WriteString(" |")
	}

	label := row.View + "-" + row.FormFactor.String()
	if row.Failed() {
		label += " (failed)"
	}
	sb.WriteString(" ")
	sb.WriteString(markdown.Link(label, link))
	sb.WriteString(" |")
	return sb.String()
}

// FormatDocument joins the rows with newlines in input order. It adds no
// header; the caller owns the table header.
func FormatDocument(rows []model.Row, linker Linker) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = FormatRow(r, linker.Link(r.Artifact))
	}
	return strings.Join(lines, "\n")
}

// TableHeader returns the two header lines of the results table.
func TableHeader() string {
	cols := []string{"View", "Form Factor"}
	for _, c := range model.AllCategories() {
		cols = append(cols, c.DisplayName())
	}
	cols = append(cols, "Report")

	sep := make([]string, len(cols))
	for i := range sep {
		sep[i] = "---"
	}
	return "| " + strings.Join(cols, " | ") + " |\n|" + strings.Join(sep, "|") + "|"
}
