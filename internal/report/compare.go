package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/markdown"

	"github.com/nao1215/viewaudit/internal/model"
)

// Direction summarizes how scores moved between two runs.
type Direction string

const (
	// DirectionImproved means the scored cells rose in total.
	DirectionImproved Direction = "improved"
	// DirectionRegressed means the scored cells fell in total.
	DirectionRegressed Direction = "regressed"
	// DirectionUnchanged means the total did not move.
	DirectionUnchanged Direction = "unchanged"
)

// RunInfo identifies one side of a comparison.
type RunInfo struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Selection string    `json:"selection"`
	Rows      int       `json:"rows"`
	Failed    int       `json:"failed"`
}

// Delta is the change of one category of one (view, form factor) pair.
// Before or After is nil when that run has no score for the cell.
type Delta struct {
	View       string           `json:"view"`
	FormFactor model.FormFactor `json:"form_factor"`
	Category   model.Category   `json:"category"`
	Before     *int             `json:"before,omitempty"`
	After      *int             `json:"after,omitempty"`
}

// Change returns After minus Before, and false when either is missing.
func (d Delta) Change() (int, bool) {
	if d.Before == nil || d.After == nil {
		return 0, false
	}
	return *d.After - *d.Before, true
}

// TierChanged reports whether the cell moved to another tier.
func (d Delta) TierChanged() bool {
	if d.Before == nil || d.After == nil {
		return d.Before != d.After
	}
	return model.TierOf(*d.Before) != model.TierOf(*d.After)
}

// Comparison is the difference between two audit runs.
type Comparison struct {
	Previous  RunInfo   `json:"previous"`
	Current   RunInfo   `json:"current"`
	Deltas    []Delta   `json:"deltas"`
	Direction Direction `json:"direction"`
	// Net is the sum of all changes of cells scored in both runs.
	Net int `json:"net"`
}

// Compare computes the per-cell deltas from previous to current. Cells come
// in current-run order, followed by pairs only the previous run had.
// Unchanged cells are omitted unless all is set.
func Compare(previous, current []model.Row, all bool) *Comparison {
	type key struct {
		view string
		ff   model.FormFactor
	}
	prev := make(map[key]model.Row, len(previous))
	for _, r := range previous {
		prev[key{r.View, r.FormFactor}] = r
	}

	c := &Comparison{}
	seen := make(map[key]bool, len(current))
	add := func(before, after *model.Row, view string, ff model.FormFactor) {
		for _, cat := range model.AllCategories() {
			d := Delta{View: view, FormFactor: ff, Category: cat}
			if before != nil {
				if s, ok := before.Score(cat); ok {
					d.Before = &s
				}
			}
			if after != nil {
				if s, ok := after.Score(cat); ok {
					d.After = &s
				}
			}
			if d.Before == nil && d.After == nil {
				continue
			}
			change, both := d.Change()
			if both {
				c.Net += change
			}
			if !all && both && change == 0 {
				continue
			}
			c.Deltas = append(c.Deltas, d)
		}
	}

	for i := range current {
		r := current[i]
		k := key{r.View, r.FormFactor}
		seen[k] = true
		if p, ok := prev[k]; ok {
			add(&p, &r, r.View, r.FormFactor)
		} else {
			add(nil, &r, r.View, r.FormFactor)
		}
	}
	for i := range previous {
		p := previous[i]
		if k := (key{p.View, p.FormFactor}); !seen[k] {
			add(&p, nil, p.View, p.FormFactor)
		}
	}

	switch {
	case c.Net > 0:
		c.Direction = DirectionImproved
	case c.Net < 0:
		c.Direction = DirectionRegressed
	default:
		c.Direction = DirectionUnchanged
	}
	return c
}

// WriteComparisonText renders c as a go-pretty table.
func WriteComparisonText(w io.Writer, c *Comparison) error {
	if _, err := fmt.Fprintf(w, "Comparing run #%d (%s) with run #%d (%s): %s, net %s\n",
		c.Previous.ID, c.Previous.StartedAt.Format("2006-01-02 15:04"),
		c.Current.ID, c.Current.StartedAt.Format("2006-01-02 15:04"),
		c.Direction, formatDelta(c.Net)); err != nil {
		return err
	}
	if len(c.Deltas) == 0 {
		_, err := fmt.Fprintln(w, "No score changed.")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"View", "Form Factor", "Category", "Previous", "Current", "Change"})
	for _, d := range c.Deltas {
		t.AppendRow(table.Row{d.View, d.FormFactor.String(), d.Category.DisplayName(),
			scoreCell(d.Before), scoreCell(d.After), changeCell(d)})
	}
	t.Render()
	return nil
}

// WriteComparisonMarkdown renders c as a Markdown document.
func WriteComparisonMarkdown(w io.Writer, c *Comparison) error {
	md := markdown.NewMarkdown(w)
	md.H1("Lighthouse Score Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current"},
		Rows: [][]string{
			{"Run", "#" + strconv.FormatInt(c.Previous.ID, 10), "#" + strconv.FormatInt(c.Current.ID, 10)},
			{"Date", c.Previous.StartedAt.Format("2006-01-02 15:04"), c.Current.StartedAt.Format("2006-01-02 15:04")},
			{"Rows", strconv.Itoa(c.Previous.Rows), strconv.Itoa(c.Current.Rows)},
			{"Failed", strconv.Itoa(c.Previous.Failed), strconv.Itoa(c.Current.Failed)},
		},
	})
	md.PlainText("")
	md.PlainTextf("**Direction:** %s (net %s)", c.Direction, formatDelta(c.Net))
	md.PlainText("")

	if len(c.Deltas) > 0 {
		rows := make([][]string, len(c.Deltas))
		for i, d := range c.Deltas {
			after := scoreCell(d.After)
			if d.After != nil {
				after = Badge(d.Category, *d.After)
			}
			rows[i] = []string{TitleCase(d.View), TitleCase(d.FormFactor.String()), d.Category.DisplayName(),
				scoreCell(d.Before), after, changeCell(d)}
		}
		md.H2("Changes")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"View", "Form Factor", "Category", "Previous", "Current", "Change"},
			Rows:   rows,
		})
	}
	return md.Build()
}

// WriteComparisonJSON renders c as indented JSON.
func WriteComparisonJSON(w io.Writer, c *Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func scoreCell(s *int) string {
	if s == nil {
		return NotApplicable
	}
	return strconv.Itoa(*s)
}

func changeCell(d Delta) string {
	change, ok := d.Change()
	switch {
	case !ok && d.Before == nil:
		return "new"
	case !ok:
		return "gone"
	}
	cell := formatDelta(change)
	if d.TierChanged() {
		cell += " (" + model.TierOf(*d.Before).String() + " → " + model.TierOf(*d.After).String() + ")"
	}
	return cell
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
