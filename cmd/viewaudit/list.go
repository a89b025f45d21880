package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/viewaudit/internal/view"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the views that can be audited or scraped",
		Long: `List prints the selection tokens (all, pre-login, post-login) followed by
every view of the catalog with its path template and whether it needs a
logged-in session.

The same table is printed by 'viewaudit audit --list' and
'viewaudit scrape --list'.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			view.WriteList(cmd.OutOrStdout(), view.DefaultCatalog())
		},
	}
}
