// Package branding provides compile-time identity values for the CLI.
//
// The values are read from the embedded branding.yaml so a fork can rename
// the binary, its environment prefix, and the files it writes into a project
// without touching code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	HomeDir          string `yaml:"home_dir"`
	EnvPrefix        string `yaml:"env_prefix"`
	StoreFile        string `yaml:"store_file"`
	RepositoryPrefix string `yaml:"repository_prefix"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:          "composer-link",
			DisplayName:      "Composer Link",
			Description:      "Link local Composer packages into a project for development",
			HomeDir:          ".composer-link",
			EnvPrefix:        "COMPOSER_LINK",
			StoreFile:        "composer-link.json",
			RepositoryPrefix: "composer-link-",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "composer-link").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".composer-link").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "COMPOSER_LINK").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// StoreFile returns the name of the tracking file kept in the vendor directory.
func StoreFile() string { load(); return defaults.StoreFile }

// RepositoryPrefix returns the prefix of repository keys this tool adds to composer.json.
func RepositoryPrefix() string { load(); return defaults.RepositoryPrefix }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("vendor_dir") → "COMPOSER_LINK_VENDOR_DIR".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
