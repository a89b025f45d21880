package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/viewaudit/internal/audit"
	"github.com/nao1215/viewaudit/internal/config"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// rodModule is the browser driver whose version is reported.
const rodModule = "github.com/go-rod/rod"

// buildSetting returns a VCS setting of the binary, or "".
func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// getVersion returns the version recorded in results.json.
// Priority: ldflags > build info > "(devel)"
func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// getCommit returns the short commit hash, or "unknown".
func getCommit() string {
	c := commit
	if c == "" {
		c = buildSetting("vcs.revision")
	}
	if len(c) > 7 {
		c = c[:7]
	}
	if c == "" {
		return "unknown"
	}
	return c
}

// getDate returns the build date, or "unknown".
func getDate() string {
	if date != "" {
		return date
	}
	if d := buildSetting("vcs.time"); d != "" {
		return d
	}
	return "unknown"
}

// moduleVersion returns the version of a linked dependency, or "unknown".
func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == path {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return "unknown"
}

// versioner reports the version of an external tool.
type versioner interface {
	Version(ctx context.Context) (string, error)
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version, commit hash and build date of viewaudit together with
the Go runtime and browser driver it was built with.

With --tools the Lighthouse executable is asked for its version as well, so a
missing or outdated installation shows up before an audit is started.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var lh versioner
			if tools, _ := cmd.Flags().GetBool("tools"); tools { //nolint:errcheck // flag is defined below
				bin, _ := cmd.Flags().GetString("lighthouse") //nolint:errcheck // flag is defined below
				lh = audit.NewLighthouse(audit.WithBin(bin))
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			writeVersion(ctx, cmd.OutOrStdout(), lh)
			return nil
		},
	}
	cmd.Flags().Bool("tools", false, "Also report the Lighthouse version")
	cmd.Flags().String("lighthouse", config.DefaultLighthouseBin, "Lighthouse executable")
	return cmd
}

// writeVersion prints the build information and, when lh is set, the
// Lighthouse version. A failing tool is reported, not returned.
func writeVersion(ctx context.Context, out io.Writer, lh versioner) {
	fmt.Fprintf(out, "viewaudit version %s\n", getVersion())
	fmt.Fprintf(out, "  commit:  %s\n", getCommit())
	fmt.Fprintf(out, "  built:   %s\n", getDate())
	fmt.Fprintf(out, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "  go-rod:  %s\n", moduleVersion(rodModule))
	if lh == nil {
		return
	}
	v, err := lh.Version(ctx)
	if err != nil {
		fmt.Fprintf(out, "  lighthouse: unavailable (%v)\n", err)
		return
	}
	fmt.Fprintf(out, "  lighthouse: %s\n", v)
}
