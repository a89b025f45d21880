// Package report renders audit rows.
//
// FormatRow and FormatDocument produce the Markdown table rows of the
// results file: one row per audited (view, form factor) pair, with a
// shields.io badge per requested category, "n/a" for categories that were
// not requested, and a link to the detailed Lighthouse HTML report.
//
// The writers wrap those rows into complete outputs:
//   - MarkdownWriter: results.md, built with nao1215/markdown
//   - JSONWriter: results.json for tooling
//   - SummaryWriter: a go-pretty table for the terminal
//
// WriteArtifact persists detail reports and snapshots with the file
// permissions used for every generated file.
package report
