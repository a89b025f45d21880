package view

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteList prints the group tokens followed by every view of the catalog.
func WriteList(w io.Writer, c *Catalog) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"View", "Login", "Path", "Description"})

	t.AppendRow(table.Row{TokenAll, "", "", "all views"})
	t.AppendRow(table.Row{TokenPreLogin, "no", "", "all views not requiring login"})
	t.AppendRow(table.Row{TokenPostLogin, "yes", "", "all views requiring login"})
	t.AppendSeparator()

	for _, d := range c.All() {
		login := "no"
		if d.LoginRequired {
			login = "yes"
		}
		t.AppendRow(table.Row{d.Name, login, d.PathTemplate, d.Description})
	}
	t.Render()
}
