package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "viewaudit" {
			t.Errorf("expected use 'viewaudit', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty short and long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("verbose flag has no shorthand", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		// -v selects the view of the scrape command.
		if flag.Shorthand != "" {
			t.Errorf("expected no shorthand, got %q", flag.Shorthand)
		}
	})

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"config", "no-db"} {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("expected persistent flag %q", name)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{
			"audit": false, "scrape": false, "list": false, "compare": false,
			"probe": false, "init": false, "version": false,
		}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := loadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("sets variables that are not set yet", func(t *testing.T) {
		t.Setenv("VIEWAUDIT_TEST_PRESET", "from-env")
		path := filepath.Join(t.TempDir(), ".env")
		content := "VIEWAUDIT_TEST_DOTENV=from-file\nVIEWAUDIT_TEST_PRESET=from-file\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Unsetenv("VIEWAUDIT_TEST_DOTENV") })

		if err := loadDotEnv(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv("VIEWAUDIT_TEST_DOTENV"); got != "from-file" {
			t.Errorf("VIEWAUDIT_TEST_DOTENV = %q, want from-file", got)
		}
		if got := os.Getenv("VIEWAUDIT_TEST_PRESET"); got != "from-env" {
			t.Errorf("VIEWAUDIT_TEST_PRESET = %q, want from-env", got)
		}
	})
}
