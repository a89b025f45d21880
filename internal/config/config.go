package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/viewaudit/internal/model"
)

// Default configuration values.
// These mirror the behavior of the audit scripts the harness replaces so that
// artifacts land in the same places.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "viewaudit"

	// DefaultBaseURL is the deployed recipes application.
	DefaultBaseURL = "https://recipesnstuff.herokuapp.com/"

	// DefaultTestPath is the directory, relative to the working directory,
	// under which all artifacts are written.
	DefaultTestPath = "doc/test"

	// DefaultReportPath is the Lighthouse artifact directory below the test path.
	DefaultReportPath = "lighthouse"

	// DefaultHTMLPath is the snapshot directory below the test path.
	DefaultHTMLPath = "generated"

	// DefaultSelection selects every view in the catalog.
	DefaultSelection = "all"

	// DefaultRecipeID is substituted for <recipe_id> when none is given.
	DefaultRecipeID = 0

	// DefaultDebugPort is the Chrome remote debugging port Lighthouse attaches to.
	// A fixed port is used so the audit engine can find the browser the
	// session was established in.
	DefaultDebugPort = 8041

	// DefaultSlowMotion delays every browser input action. 50ms keeps typing
	// into the login form reliable on slow dynos.
	DefaultSlowMotion = 50 * time.Millisecond

	// DefaultLighthouseBin is the Lighthouse CLI executable looked up in PATH.
	DefaultLighthouseBin = "lighthouse"

	// DefaultEngineTimeout bounds one Lighthouse invocation.
	// Lighthouse has its own page-load limits; this only catches a hung process.
	DefaultEngineTimeout = 5 * time.Minute

	// DefaultLoginTimeout bounds the whole login interaction.
	DefaultLoginTimeout = 60 * time.Second

	// DefaultHTTPTimeout is the timeout of plain HTTP requests made by probe.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultCountryInfoPath is the endpoint returning the subdivisions of a country.
	DefaultCountryInfoPath = "/profiles/countryinfo/<country>/"

	// DefaultResultsFile is the Markdown summary file name.
	DefaultResultsFile = "results.md"

	// DefaultJSONResultsFile is the JSON summary file name.
	DefaultJSONResultsFile = "results.json"

	// EnvUsername and EnvPassword name the environment variables consulted
	// for credentials. A .env file in the working directory is loaded first.
	EnvUsername = "VIEWAUDIT_USERNAME"
	EnvPassword = "VIEWAUDIT_PASSWORD" //nolint:gosec // variable name, not a credential
	EnvBaseURL  = "VIEWAUDIT_BASEURL"
)

// Config holds all configuration options for viewaudit.
// It is populated from defaults, the config file, the environment and CLI
// flags, and then passed through the application explicitly.
type Config struct {
	// BaseURL is the root URL of the application under test.
	BaseURL string `yaml:"baseurl"`

	// Username and Password are the login credentials. They are only
	// required when the run plan contains login-required views.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// RecipeID is substituted for the <recipe_id> placeholder.
	RecipeID int `yaml:"recipe_id"`

	// TestPath is the root artifact directory.
	TestPath string `yaml:"testpath"`

	// ReportPath is the Lighthouse artifact directory below TestPath.
	ReportPath string `yaml:"reportpath"`

	// HTMLPath is the snapshot directory below TestPath.
	HTMLPath string `yaml:"htmlpath"`

	// Selection is the view selection token: a view name, "all",
	// "pre-login" or "post-login".
	Selection string `yaml:"-"`

	// Show runs the browser with a visible window.
	Show bool `yaml:"show"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"-"`

	// ConfigFilePath is the path to the configuration file.
	// If empty, .viewaudit is searched in the current directory and then
	// in the user's home directory.
	ConfigFilePath string `yaml:"-"`

	// File holds the loaded configuration file, if any.
	File *File `yaml:"-"`

	// JSONReport additionally writes results.json next to results.md.
	JSONReport bool `yaml:"json"`

	// Strict makes the audit command exit non-zero when any row failed.
	Strict bool `yaml:"strict"`

	// LinkBase, when set, makes report links absolute:
	// <LinkBase>/<TestPath>/<ReportPath>/<artifact>.
	LinkBase string `yaml:"linkbase"`

	// ChromeBin is the Chrome executable. Empty means auto-detect.
	ChromeBin string `yaml:"chrome"`

	// DebugPort is the Chrome remote debugging port.
	DebugPort int `yaml:"port"`

	// SlowMotion delays each browser input action.
	SlowMotion time.Duration `yaml:"slowmo"`

	// LighthouseBin is the Lighthouse executable.
	LighthouseBin string `yaml:"lighthouse"`

	// FormFactors are the device profiles every view is audited with, in
	// row order. Empty means mobile then desktop.
	FormFactors []string `yaml:"form_factors"`

	// EngineTimeout bounds one Lighthouse invocation. Zero means no bound.
	EngineTimeout time.Duration `yaml:"engine_timeout"`

	// LoginTimeout bounds one login interaction.
	LoginTimeout time.Duration `yaml:"login_timeout"`

	// HTTPTimeout is the timeout for plain HTTP requests.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// CountryInfoPath is the subdivisions endpoint template.
	CountryInfoPath string `yaml:"countryinfo_path"`

	// DBDir is the directory of the run history database.
	// Defaults to the XDG data directory (~/.local/share/viewaudit on Linux).
	DBDir string `yaml:"dbdir"`

	// SaveToDB records runs in the history database.
	SaveToDB bool `yaml:"-"`
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (ports, paths, timeouts).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:         DefaultBaseURL,
		RecipeID:        DefaultRecipeID,
		TestPath:        DefaultTestPath,
		ReportPath:      DefaultReportPath,
		HTMLPath:        DefaultHTMLPath,
		Selection:       DefaultSelection,
		DebugPort:       DefaultDebugPort,
		SlowMotion:      DefaultSlowMotion,
		LighthouseBin:   DefaultLighthouseBin,
		EngineTimeout:   DefaultEngineTimeout,
		LoginTimeout:    DefaultLoginTimeout,
		HTTPTimeout:     DefaultHTTPTimeout,
		CountryInfoPath: DefaultCountryInfoPath,
		DBDir:           XDGDataDir(),
		SaveToDB:        true,
	}
}

// XDGDataDir returns the XDG data directory for viewaudit.
// On Linux: ~/.local/share/viewaudit
// On macOS: ~/Library/Application Support/viewaudit
// On Windows: %LOCALAPPDATA%\viewaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ParsedBaseURL returns BaseURL as a URL.
func (c *Config) ParsedBaseURL() (*url.URL, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, ErrInvalidBaseURL
	}
	return u, nil
}

// ParsedFormFactors returns the configured form factors with duplicates
// removed, or all of them when none are configured.
func (c *Config) ParsedFormFactors() ([]model.FormFactor, error) {
	if len(c.FormFactors) == 0 {
		return model.AllFormFactors(), nil
	}
	out := make([]model.FormFactor, 0, len(c.FormFactors))
	seen := make(map[model.FormFactor]bool, len(c.FormFactors))
	for _, s := range c.FormFactors {
		ff, err := model.ParseFormFactor(s)
		if err != nil {
			return nil, err
		}
		if !seen[ff] {
			seen[ff] = true
			out = append(out, ff)
		}
	}
	return out, nil
}

// ReportDir returns the Lighthouse artifact directory.
func (c *Config) ReportDir() string {
	return filepath.Join(c.TestPath, c.ReportPath)
}

// SnapshotDir returns the HTML snapshot directory.
func (c *Config) SnapshotDir() string {
	return filepath.Join(c.TestPath, c.HTMLPath)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast, before a browser is launched. Credentials are
// checked separately by ValidateCredentials because they are only needed
// when the plan contains login-required views.
func (c *Config) Validate() error {
	if _, err := c.ParsedBaseURL(); err != nil {
		return err
	}

	if c.TestPath == "" {
		return ErrEmptyTestPath
	}

	if c.RecipeID < 0 {
		return ErrInvalidRecipeID
	}

	// Ports below 1024 need privileges Chrome should not run with.
	if c.DebugPort < 1024 || c.DebugPort > 65535 {
		return ErrInvalidDebugPort
	}

	if c.SlowMotion < 0 {
		return ErrInvalidSlowMotion
	}

	if c.EngineTimeout < 0 || c.LoginTimeout < 0 || c.HTTPTimeout < 0 {
		return ErrInvalidTimeout
	}

	if _, err := c.ParsedFormFactors(); err != nil {
		return err
	}

	if c.LinkBase != "" {
		if u, err := url.Parse(c.LinkBase); err != nil || !u.IsAbs() {
			return ErrInvalidLinkBase
		}
	}

	if c.File != nil {
		if err := c.File.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateCredentials checks that both username and password are present.
func (c *Config) ValidateCredentials() error {
	if c.Username == "" {
		return ErrMissingUsername
	}
	if c.Password == "" {
		return ErrMissingPassword
	}
	return nil
}
