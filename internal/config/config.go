// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"

	"github.com/chefkit/chef/internal/cueutil"
	"github.com/chefkit/chef/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "chef"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
	// CollectionConfigDir is the directory inside a collection holding its config file.
	CollectionConfigDir = ".cooklang"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the chef configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// GlobalConfigPath returns the path of the global config file, which may not exist.
func GlobalConfigPath(configDirPath string) (string, error) {
	cfgDir, err := configDirWithOverride(configDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// CollectionConfigPath returns the path of the config file of a collection.
func CollectionConfigPath(collection string) string {
	return filepath.Join(collection, CollectionConfigDir, ConfigFileName+"."+ConfigFileExt)
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("default_collection", defaults.DefaultCollection)
	v.SetDefault("max_depth", defaults.MaxDepth)
	v.SetDefault("units", defaults.Units)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("check.max_workers", defaults.Check.MaxWorkers)

	var sources []string

	globalPath, err := GlobalConfigPath(opts.ConfigDirPath)
	if err != nil {
		return nil, err
	}
	if fileExists(globalPath) {
		if err := mergeFile(v, globalPath); err != nil {
			return nil, err
		}
		sources = append(sources, globalPath)
	}

	// The collection may come from the global file; the working directory
	// is the collection of last resort.
	collection := opts.CollectionDir
	if collection == "" {
		collection = v.GetString("default_collection")
	}
	if collection == "" {
		collection = "."
	}
	collectionPath := CollectionConfigPath(collection)
	if fileExists(collectionPath) {
		if err := mergeFile(v, collectionPath); err != nil {
			return nil, err
		}
		sources = append(sources, collectionPath)
	}

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'chef config init' to create a default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := mergeFile(v, opts.ConfigFilePath); err != nil {
			return nil, err
		}
		sources = append(sources, opts.ConfigFilePath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(strings.Join(sources, ", ")).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	if opts.CollectionDir != "" {
		cfg.DefaultCollection = opts.CollectionDir
	}
	cfg.Sources = sources

	return &cfg, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// mergeFile validates a TOML config file against the #Config schema and
// merges it into v. Path values are expanded and made absolute relative to
// the file's directory.
func mergeFile(v *viper.Viper, path string) error {
	fail := func(err error) error {
		return issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Check that the file contains valid TOML syntax").
			WithSuggestion("Verify the configuration values match the expected schema").
			WithSuggestion("See 'chef config --help' for configuration options").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("failed to read config file: %w", err))
	}

	// Concrete(false): every field of a config file is optional.
	result, err := cueutil.ParseTOML[Config](configSchema, data, "#Config",
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path),
	)
	if err != nil {
		return fail(err)
	}

	if err := resolvePaths(result.Raw, filepath.Dir(path)); err != nil {
		return fail(err)
	}

	if err := v.MergeConfigMap(result.Raw); err != nil {
		return fail(fmt.Errorf("failed to merge config: %w", err))
	}

	return nil
}

// resolvePaths rewrites the path values of a decoded config file in place.
func resolvePaths(raw map[string]any, dir string) error {
	if s, ok := raw["default_collection"].(string); ok {
		p, err := resolvePath(s, dir)
		if err != nil {
			return err
		}
		raw["default_collection"] = p
	}

	if list, ok := raw["units"].([]any); ok {
		resolved := make([]any, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("units[%d]: expected a string, got %T", i, item)
			}
			p, err := resolvePath(s, dir)
			if err != nil {
				return err
			}
			resolved[i] = p
		}
		raw["units"] = resolved
	}

	return nil
}

func resolvePath(path, dir string) (string, error) {
	expanded, err := ExpandPath(path, nil)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(dir, expanded)
	}
	return expanded, nil
}

// ExpandPath expands a leading "~" and $VARIABLES in path, resolving
// variables with env (the process environment when nil).
func ExpandPath(path string, env func(string) string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		path = "$HOME" + path[1:]
	}
	expanded, err := shell.Expand(path, env)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return expanded, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to path, creating its
// directory. An existing file is kept unless force is set; the returned
// bool reports whether the file was written.
func WriteDefault(path string, force bool) (bool, error) {
	if !force && fileExists(path) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := Encode(DefaultConfig())
	if err != nil {
		return false, err
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// Encode renders cfg as a TOML config file.
func Encode(cfg *Config) ([]byte, error) {
	body, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# chef configuration file\n")
	sb.WriteString("# Relative paths are resolved against the directory of this file.\n\n")
	sb.Write(body)
	return []byte(sb.String()), nil
}
