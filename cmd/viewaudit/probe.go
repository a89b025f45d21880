package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nao1215/viewaudit/internal/appclient"
	"github.com/nao1215/viewaudit/internal/config"
)

// ErrProbeFailed is returned when any probe check failed.
var ErrProbeFailed = errors.New("probe failed")

// defaultProbeCountries are the countries whose subdivisions are fetched.
var defaultProbeCountries = []string{"IE", "US", "GB"}

// NewProbeCmd creates the probe command.
func NewProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check the application endpoints over plain HTTP",
		Long: `Probe checks that the application answers before a browser run is started.

It requests the landing page, and when credentials are available it logs in
through the login form, fetches the subdivisions of each --country from the
country info endpoint, and logs out again. No browser is needed.

Examples:
  # Check the deployed application
  viewaudit probe -u alice -p secret

  # Check a local server for two countries
  viewaudit probe -b http://localhost:8000/ --country IE --country FR`,
		Args: cobra.NoArgs,
		RunE: runProbeCmd,
	}

	cmd.Flags().StringP(flagBaseURL, "b", config.DefaultBaseURL, "Base URL of the application")
	cmd.Flags().StringP(flagUsername, "u", "", "Username to log in with (env "+config.EnvUsername+")")
	cmd.Flags().StringP(flagPassword, "p", "", "Password to log in with (env "+config.EnvPassword+")")
	cmd.Flags().StringSlice("country", defaultProbeCountries, "ISO 3166 country code to query (repeatable)")
	cmd.Flags().Duration("http-timeout", config.DefaultHTTPTimeout, "Timeout for each HTTP request")

	return cmd
}

// runProbeCmd executes the probe command.
func runProbeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("http-timeout") {
		if cfg.HTTPTimeout, err = cmd.Flags().GetDuration("http-timeout"); err != nil {
			return err
		}
	}
	countries, err := cmd.Flags().GetStringSlice("country")
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	client, err := appclient.New(cfg.BaseURL,
		appclient.WithTimeout(cfg.HTTPTimeout),
		appclient.WithLogger(logger),
		appclient.WithCountryInfoPath(cfg.CountryInfoPath),
		appclient.WithUserAgent(config.AppName+"/"+getVersion()),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := client.Probe(ctx, cfg.Username, cfg.Password, countries)
	return writeChecks(cmd.OutOrStdout(), checks)
}

// writeChecks prints the checks and returns ErrProbeFailed if any failed.
func writeChecks(out io.Writer, checks []appclient.Check) error {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Check", "Result", "Time", "Detail"})

	var failed []string
	for _, c := range checks {
		result := "ok"
		if !c.OK {
			result = "FAIL"
			failed = append(failed, c.Name)
		}
		t.AppendRow(table.Row{c.Name, result, c.Elapsed.Round(time.Millisecond), c.Detail})
	}
	t.Render()

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrProbeFailed, strings.Join(failed, ", "))
	}
	return nil
}
