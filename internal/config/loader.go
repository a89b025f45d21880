package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/viewaudit/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".viewaudit"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ViewConfig holds audit preferences for a single view.
type ViewConfig struct {
	// Categories restricts the Lighthouse categories audited for the view.
	// Categories that are not listed render as "n/a" in the report.
	// Empty means all four categories.
	Categories []string `yaml:"categories,omitempty"`
}

// File represents the structure of the .viewaudit configuration file.
//
// Top-level keys are the same as the Config fields (baseurl, testpath, ...).
// Only the values present in the file override the defaults.
type File struct {
	Config `yaml:",inline"`

	// Defaults applies to every view unless overridden in Views.
	Defaults ViewConfig `yaml:"defaults,omitempty"`

	// Views maps view names to their specific preferences.
	Views map[string]ViewConfig `yaml:"views,omitempty"`
}

// LoadConfigFile loads the configuration file from path.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cf.Views == nil {
		cf.Views = make(map[string]ViewConfig)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .viewaudit in the current directory
// 3. Look for .viewaudit in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply merges the settings of the file into cfg. Only non-zero values
// present in the file override what cfg already holds.
func (f *File) Apply(cfg *Config) error {
	fileSettings := f.Config
	fileSettings.File = nil
	if err := mergo.Merge(cfg, fileSettings, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge config file: %w", err)
	}
	cfg.File = f
	return nil
}

// CategoriesFor returns the categories to audit for a view, in report
// column order. View-specific settings replace the defaults; with neither,
// all categories are returned.
func (f *File) CategoriesFor(viewName string) []model.Category {
	if f == nil {
		return model.AllCategories()
	}

	selected := f.Defaults.Categories
	if vc, ok := f.Views[viewName]; ok && len(vc.Categories) > 0 {
		selected = vc.Categories
	}
	if len(selected) == 0 {
		return model.AllCategories()
	}

	want := make(map[model.Category]bool, len(selected))
	for _, s := range selected {
		if c, err := model.ParseCategory(s); err == nil {
			want[c] = true
		}
	}

	out := make([]model.Category, 0, len(want))
	for _, c := range model.AllCategories() {
		if want[c] {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks that every configured category is known.
func (f *File) Validate() error {
	for _, s := range f.Defaults.Categories {
		if _, err := model.ParseCategory(s); err != nil {
			return fmt.Errorf("defaults: %w", err)
		}
	}
	for name, vc := range f.Views {
		for _, s := range vc.Categories {
			if _, err := model.ParseCategory(s); err != nil {
				return fmt.Errorf("views.%s: %w", name, err)
			}
		}
	}
	return nil
}

// CheckViews verifies that every view named in the file is known.
func (f *File) CheckViews(known []string) error {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	for name := range f.Views {
		if !set[name] {
			return fmt.Errorf("%w: %s", ErrUnknownViewConfig, name)
		}
	}
	return nil
}

// CategoriesFor returns the categories to audit for a view under cfg.
func (c *Config) CategoriesFor(viewName string) []model.Category {
	return c.File.CategoriesFor(viewName)
}
