package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"

	"github.com/composer-link/composer-link/internal/branding"
	"github.com/composer-link/composer-link/internal/errors"
	"github.com/composer-link/composer-link/internal/manifest"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyComposerBin = "composer-bin"
	KeyVendorDir   = "vendor-dir"
	KeyManifest    = "manifest"
	KeyNoUpdate    = "no-update"
)

// Keys lists every key accepted by Set.
var Keys = []string{KeyComposerBin, KeyVendorDir, KeyManifest, KeyNoUpdate}

const defaultVendorDir = "vendor"

// Dir returns the path to the user config directory (~/.composer-link/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the user config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Config layers settings from the user file, the environment, and any bound
// flags.
type Config struct {
	v    *viper.Viper
	file string
}

// New returns a Config backed by file. The file is not read until Load.
func New(file string) *Config {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyComposerBin, "composer")
	v.SetDefault(KeyManifest, envOr("COMPOSER", manifest.FileName))
	v.SetDefault(KeyNoUpdate, false)

	return &Config{v: v, file: file}
}

// Load reads the config file. A missing file is not an error.
func (c *Config) Load() error {
	if err := c.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", c.file, err)
	}
	return nil
}

// BindFlag makes a command-line flag take precedence for key.
func (c *Config) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for config key %q", key)
	}
	return c.v.BindPFlag(key, flag)
}

// Get returns the effective value of key, or "" if unset.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Set validates value and saves key to the user config file. Only the
// file's own contents are written back, never defaults or environment.
func (c *Config) Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}

	var typed any = value
	if key == KeyNoUpdate {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: expected true or false", value, key)
		}
		typed = b
	}

	if err := os.MkdirAll(filepath.Dir(c.file), 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", filepath.Dir(c.file), err)
	}

	file := viper.New()
	file.SetConfigFile(c.file)
	file.SetConfigType(fileType)
	if _, err := os.Stat(c.file); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", c.file, err)
		}
	}
	file.Set(key, typed)

	if err := file.WriteConfigAs(c.file); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	c.v.Set(key, typed)
	return nil
}

// Settings are the resolved values a command runs with.
type Settings struct {
	ProjectDir   string
	ManifestPath string
	LockPath     string
	VendorDir    string
	ComposerBin  string
	NoUpdate     bool
}

// Resolve computes the settings for the project in projectDir.
func (c *Config) Resolve(projectDir string) (*Settings, error) {
	manifestName := c.Get(KeyManifest)
	manifestPath := manifestName
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(projectDir, manifestPath)
	}

	vendorDir, err := c.vendorDir(manifestPath)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(vendorDir) {
		vendorDir = filepath.Join(projectDir, vendorDir)
	}

	return &Settings{
		ProjectDir:   projectDir,
		ManifestPath: manifestPath,
		LockPath:     LockPathFor(manifestPath),
		VendorDir:    vendorDir,
		ComposerBin:  c.Get(KeyComposerBin),
		NoUpdate:     c.v.GetBool(KeyNoUpdate),
	}, nil
}

// vendorDir mirrors Composer's lookup: explicit setting, COMPOSER_VENDOR_DIR,
// config.vendor-dir in the manifest, then "vendor".
func (c *Config) vendorDir(manifestPath string) (string, error) {
	if dir := c.Get(KeyVendorDir); dir != "" {
		return dir, nil
	}
	if dir := os.Getenv("COMPOSER_VENDOR_DIR"); dir != "" {
		return dir, nil
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeMissingManifest, "no %s found in %s", filepath.Base(manifestPath), filepath.Dir(manifestPath))
		}
		return "", fmt.Errorf("reading %s: %w", manifestPath, err)
	}
	if dir := gjson.GetBytes(data, "config.vendor-dir"); dir.Type == gjson.String && dir.String() != "" {
		return dir.String(), nil
	}
	return defaultVendorDir, nil
}

// LockPathFor returns the lock file that belongs to manifestPath:
// composer.json pairs with composer.lock, other.json with other.lock.
func LockPathFor(manifestPath string) string {
	dir, base := filepath.Split(manifestPath)
	if ext := filepath.Ext(base); ext == ".json" {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(dir, base+".lock")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
