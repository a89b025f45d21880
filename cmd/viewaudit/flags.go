package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/viewaudit/internal/config"
	vlog "github.com/nao1215/viewaudit/internal/log"
)

// Flag names shared by the audit and scrape commands.
const (
	flagBaseURL  = "baseurl"
	flagUsername = "username"
	flagPassword = "password"
	flagTestPath = "testpath"
	flagShow     = "show"
	flagList     = "list"
	flagRecipeID = "id_recipe"
)

// addSessionFlags registers the flags every browser command accepts.
func addSessionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP(flagBaseURL, "b", config.DefaultBaseURL, "Base URL of the application")
	f.StringP(flagUsername, "u", "", "Username to log in with (env "+config.EnvUsername+")")
	f.StringP(flagPassword, "p", "", "Password to log in with (env "+config.EnvPassword+")")
	f.StringP(flagTestPath, "t", config.DefaultTestPath, "Root directory of all artifacts")
	f.BoolP(flagShow, "s", false, "Show the browser window")
	f.BoolP(flagList, "l", false, "List the available views and exit")
	f.Int(flagRecipeID, config.DefaultRecipeID, "Recipe id substituted for <recipe_id> (alias --ir)")
	f.SetNormalizeFunc(normalizeFlagName)
}

// normalizeFlagName maps flag aliases to their canonical names.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "ir", "id-recipe":
		name = flagRecipeID
	}
	return pflag.NormalizedName(name)
}

// buildConfig creates a Config from defaults, the config file, the
// environment and the flags the user set explicitly, in that order of
// increasing precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	cfg.ConfigFilePath = globalFlag(cmd, "config").String()

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, err
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.ApplyEnv()

	if err := applyFlags(flags, cfg); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.SaveToDB = globalFlag(cmd, "no-db").String() != "true"

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies every explicitly set flag into cfg. Flags the command
// does not define are skipped.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	strs := map[string]*string{
		flagBaseURL:  &cfg.BaseURL,
		flagUsername: &cfg.Username,
		flagPassword: &cfg.Password,
		flagTestPath: &cfg.TestPath,
		"reportpath": &cfg.ReportPath,
		"htmlpath":   &cfg.HTMLPath,
		"report":     &cfg.Selection,
		"view":       &cfg.Selection,
		"lighthouse": &cfg.LighthouseBin,
		"chrome":     &cfg.ChromeBin,
		"linkbase":   &cfg.LinkBase,
		"dbdir":      &cfg.DBDir,
	}
	bools := map[string]*bool{
		flagShow: &cfg.Show,
		"json":   &cfg.JSONReport,
		"strict": &cfg.Strict,
	}

	var errs []error
	flags.Visit(func(f *pflag.Flag) {
		switch name := f.Name; {
		case strs[name] != nil:
			v, err := flags.GetString(name)
			errs = append(errs, err)
			*strs[name] = v
		case bools[name] != nil:
			v, err := flags.GetBool(name)
			errs = append(errs, err)
			*bools[name] = v
		case name == flagRecipeID:
			v, err := flags.GetInt(name)
			errs = append(errs, err)
			cfg.RecipeID = v
		case name == "port":
			v, err := flags.GetInt(name)
			errs = append(errs, err)
			cfg.DebugPort = v
		case name == "form-factor":
			v, err := flags.GetStringSlice(name)
			errs = append(errs, err)
			cfg.FormFactors = v
		case name == "timeout":
			v, err := flags.GetDuration(name)
			errs = append(errs, err)
			cfg.EngineTimeout = v
		}
	})
	return errors.Join(errs...)
}

// globalFlag looks up a persistent root flag from a subcommand, whether or
// not the flag sets were merged yet. A missing flag reads as empty.
func globalFlag(cmd *cobra.Command, name string) pflag.Value {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Value
	}
	if f := cmd.Root().PersistentFlags().Lookup(name); f != nil {
		return f.Value
	}
	return emptyValue{}
}

// emptyValue is the value of an undefined flag.
type emptyValue struct{}

func (emptyValue) String() string   { return "" }
func (emptyValue) Set(string) error { return nil }
func (emptyValue) Type() string     { return "string" }

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	return globalFlag(cmd, "verbose").String() == "true"
}

// setupLogger creates a structured logger that never prints the password.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	logger := vlog.NewSecureLogger(w, cfg.Verbose, cfg.Password)
	slog.SetDefault(logger)
	return logger
}

// listRequested reports whether --list was given.
func listRequested(cmd *cobra.Command) bool {
	list, err := cmd.Flags().GetBool(flagList)
	return err == nil && list
}

// joinNames formats names for "did you mean" hints.
func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
