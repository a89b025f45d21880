// Package config provides configuration structures and utilities for viewaudit.
// It defines the target application, credentials, browser and Lighthouse
// settings, artifact locations and per-view audit preferences.
//
// Values are layered in this order, later layers winning:
//  1. NewConfig defaults
//  2. The .viewaudit YAML file (see LoadConfigFile and File.Apply)
//  3. Environment variables (see ApplyEnv)
//  4. Command line flags that were explicitly set
package config
