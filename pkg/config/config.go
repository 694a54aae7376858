// Package config loads the pframe CLI configuration from a TOML file.
//
// The file is looked up in order:
//
//  1. the path given with --config (must exist),
//  2. $PFRAME_CONFIG (must exist),
//  3. $XDG_CONFIG_HOME/pframe/config.toml, falling back to
//     ~/.config/pframe/config.toml (optional).
//
// Example:
//
//	log_level = "debug"
//	strict = true
//	anchors = "anchors.yaml"   # relative to this file
//	output = "yaml"
//	graph_format = "svg"
//
// Command-line flags override every value.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/pframe/pkg/errors"
)

const (
	// EnvVar names the environment variable holding a config path.
	EnvVar = "PFRAME_CONFIG"

	appName  = "pframe"
	fileName = "config.toml"
)

// Config holds the CLI defaults.
type Config struct {
	LogLevel    string `toml:"log_level"`
	Strict      bool   `toml:"strict"`
	Anchors     string `toml:"anchors"`
	Output      string `toml:"output"`
	GraphFormat string `toml:"graph_format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:    "info",
		Output:      "json",
		GraphFormat: "dot",
	}
}

// Parse decodes TOML data over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	c := Default()
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, perrors.New(perrors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return c, c.Validate()
}

// Validate checks every enumerated value.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if !slices.Contains([]string{"json", "yaml", "yml"}, strings.ToLower(c.Output)) {
		return perrors.New(perrors.ErrCodeInvalidInput, "output must be json or yaml, got %q", c.Output)
	}
	if !slices.Contains([]string{"dot", "svg"}, strings.ToLower(c.GraphFormat)) {
		return perrors.New(perrors.ErrCodeInvalidInput, "graph_format must be dot or svg, got %q", c.GraphFormat)
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "log_level")
	}
	return lvl, nil
}

// Load locates and reads the configuration. explicit is the --config flag
// value. It returns the path that was read, or "" when the defaults are
// used.
func Load(explicit string) (Config, string, error) {
	path, required := locate(explicit)
	if path == "" {
		return Default(), "", nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return Default(), "", nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, "", perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, "", perrors.Wrap(perrors.ErrCodeInternal, err, "read config %s", path)
	}

	c, err := Parse(data)
	if err != nil {
		return Config{}, "", perrors.Wrap(perrors.GetCode(err), err, "config %s", path)
	}
	if c.Anchors != "" && !filepath.IsAbs(c.Anchors) {
		c.Anchors = filepath.Join(filepath.Dir(path), c.Anchors)
	}
	return c, path, nil
}

func locate(explicit string) (path string, required bool) {
	if explicit != "" {
		return explicit, true
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, true
	}
	dir, err := configDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, fileName), false
}

// configDir returns the config directory using XDG standard (~/.config/pframe/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
