package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for viewaudit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewaudit",
		Short: "Lighthouse audits and HTML snapshots of every application view",
		Long: `viewaudit visits the views of the recipes application in a headless Chrome,
logging in and out as each view requires.

The audit command runs Lighthouse for every view on mobile and desktop and
writes a Markdown table of score badges with links to the detailed reports.
The scrape command saves the rendered HTML of every view instead.

Credentials may be given with flags, in the .viewaudit file, or through the
VIEWAUDIT_USERNAME and VIEWAUDIT_PASSWORD environment variables. A .env file
in the working directory is loaded first.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv(".env")
		},
	}

	// Global flags that apply to all commands.
	// --verbose has no shorthand because -v selects the view of scrape.
	cmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .viewaudit in current or home directory)")
	cmd.PersistentFlags().Bool("no-db", false, "Do not record the run in the history database")

	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewProbeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// loadDotEnv loads environment variables from path. A missing file is not
// an error; variables already set are not overridden.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
