package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/viewaudit/internal/model"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults move artifacts around, so they should be intentional.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BaseURL is the deployed app", func(t *testing.T) {
		t.Parallel()
		if cfg.BaseURL != "https://recipesnstuff.herokuapp.com/" {
			t.Errorf("expected deployed app URL, got '%s'", cfg.BaseURL)
		}
	})

	t.Run("default paths", func(t *testing.T) {
		t.Parallel()
		if cfg.TestPath != "doc/test" {
			t.Errorf("expected TestPath to be 'doc/test', got '%s'", cfg.TestPath)
		}
		if cfg.ReportDir() != filepath.Join("doc", "test", "lighthouse") {
			t.Errorf("unexpected ReportDir %q", cfg.ReportDir())
		}
		if cfg.SnapshotDir() != filepath.Join("doc", "test", "generated") {
			t.Errorf("unexpected SnapshotDir %q", cfg.SnapshotDir())
		}
	})

	t.Run("default browser settings", func(t *testing.T) {
		t.Parallel()
		if cfg.DebugPort != 8041 {
			t.Errorf("expected DebugPort to be 8041, got %d", cfg.DebugPort)
		}
		if cfg.SlowMotion != 50*time.Millisecond {
			t.Errorf("expected SlowMotion to be 50ms, got %v", cfg.SlowMotion)
		}
		if cfg.Show {
			t.Error("expected headless by default")
		}
	})

	t.Run("default selection and recipe", func(t *testing.T) {
		t.Parallel()
		if cfg.Selection != "all" {
			t.Errorf("expected Selection to be 'all', got '%s'", cfg.Selection)
		}
		if cfg.RecipeID != 0 {
			t.Errorf("expected RecipeID to be 0, got %d", cfg.RecipeID)
		}
	})

	t.Run("history is on and under the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		modify   func(*Config)
		expected error
	}{
		{"defaults are valid", func(*Config) {}, nil},
		{"relative base URL", func(c *Config) { c.BaseURL = "/recipes/" }, ErrInvalidBaseURL},
		{"base URL without host", func(c *Config) { c.BaseURL = "https://" }, ErrInvalidBaseURL},
		{"empty test path", func(c *Config) { c.TestPath = "" }, ErrEmptyTestPath},
		{"negative recipe id", func(c *Config) { c.RecipeID = -1 }, ErrInvalidRecipeID},
		{"privileged port", func(c *Config) { c.DebugPort = 80 }, ErrInvalidDebugPort},
		{"port out of range", func(c *Config) { c.DebugPort = 70000 }, ErrInvalidDebugPort},
		{"negative slow motion", func(c *Config) { c.SlowMotion = -time.Second }, ErrInvalidSlowMotion},
		{"negative engine timeout", func(c *Config) { c.EngineTimeout = -time.Second }, ErrInvalidTimeout},
		{"relative link base", func(c *Config) { c.LinkBase = "docs/" }, ErrInvalidLinkBase},
		{"unknown form factor", func(c *Config) { c.FormFactors = []string{"tablet"} }, model.ErrUnknownFormFactor},
		{
			"unknown category in file",
			func(c *Config) { c.File = &File{Defaults: ViewConfig{Categories: []string{"pwa"}}} },
			model.ErrUnknownCategory,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tc.modify(cfg)
			err := cfg.Validate()
			if tc.expected == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

// TestValidateCredentials tests credential presence checks.
func TestValidateCredentials(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if err := cfg.ValidateCredentials(); !errors.Is(err, ErrMissingUsername) {
		t.Errorf("expected ErrMissingUsername, got %v", err)
	}
	cfg.Username = "alice"
	if err := cfg.ValidateCredentials(); !errors.Is(err, ErrMissingPassword) {
		t.Errorf("expected ErrMissingPassword, got %v", err)
	}
	cfg.Password = "secret"
	if err := cfg.ValidateCredentials(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

// TestParsedFormFactors tests form factor selection.
func TestParsedFormFactors(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	got, err := cfg.ParsedFormFactors()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(model.AllFormFactors(), got); diff != "" {
		t.Errorf("default form factors mismatch (-want +got):\n%s", diff)
	}

	cfg.FormFactors = []string{"Desktop", "desktop"}
	got, err = cfg.ParsedFormFactors()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]model.FormFactor{model.FormFactorDesktop}, got); diff != "" {
		t.Errorf("form factors mismatch (-want +got):\n%s", diff)
	}
}

// TestLoadConfigFile tests loading and applying a YAML config file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("baseurl: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("file values override defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `baseurl: http://localhost:8000/
username: alice
reportpath: lh
slowmo: 10ms
defaults:
  categories: [performance, accessibility, best-practices, seo]
views:
  recipe-edit:
    categories: [accessibility, best-practices]
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		if err := f.Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BaseURL != "http://localhost:8000/" {
			t.Errorf("expected base URL from file, got %q", cfg.BaseURL)
		}
		if cfg.Username != "alice" {
			t.Errorf("expected username from file, got %q", cfg.Username)
		}
		if cfg.ReportPath != "lh" {
			t.Errorf("expected reportpath from file, got %q", cfg.ReportPath)
		}
		if cfg.SlowMotion != 10*time.Millisecond {
			t.Errorf("expected slowmo 10ms, got %v", cfg.SlowMotion)
		}
		// Values absent from the file keep their defaults.
		if cfg.TestPath != DefaultTestPath {
			t.Errorf("expected default testpath, got %q", cfg.TestPath)
		}
		if cfg.DebugPort != DefaultDebugPort {
			t.Errorf("expected default port, got %d", cfg.DebugPort)
		}

		want := []model.Category{model.CategoryAccessibility, model.CategoryBestPractices}
		if diff := cmp.Diff(want, cfg.CategoriesFor("recipe-edit")); diff != "" {
			t.Errorf("categories mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(model.AllCategories(), cfg.CategoriesFor("landing")); diff != "" {
			t.Errorf("default categories mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestCategoriesForWithoutFile tests that all categories are audited by default.
func TestCategoriesForWithoutFile(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if diff := cmp.Diff(model.AllCategories(), cfg.CategoriesFor("home")); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

// TestCheckViews tests detection of unknown view names in the file.
func TestCheckViews(t *testing.T) {
	t.Parallel()

	f := &File{Views: map[string]ViewConfig{"home": {}, "homme": {}}}
	err := f.CheckViews([]string{"home", "landing"})
	if !errors.Is(err, ErrUnknownViewConfig) {
		t.Errorf("expected ErrUnknownViewConfig, got %v", err)
	}
}

// TestFindConfigFile tests explicit path lookup.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(path); got != path {
		t.Errorf("expected %q, got %q", path, got)
	}
	if got := FindConfigFile(path + ".missing"); got != "" {
		t.Errorf("expected empty path, got %q", got)
	}
}

// TestApplyEnv tests environment overrides. It is not parallel because it
// modifies the process environment.
func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvUsername, "env-user")
	t.Setenv(EnvPassword, "env-pass")
	t.Setenv(EnvBaseURL, "")

	cfg := NewConfig()
	cfg.Username = "flag-user"
	cfg.ApplyEnv()

	if cfg.Username != "env-user" || cfg.Password != "env-pass" {
		t.Errorf("expected env credentials, got %q/%q", cfg.Username, cfg.Password)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected empty env var to be ignored, got %q", cfg.BaseURL)
	}
}
