// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultMaxDepth is how deep collections are walked by default.
	DefaultMaxDepth = 10
	// DefaultMaxWorkers bounds the concurrent recipe checks by default.
	DefaultMaxWorkers = 8
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidMaxDepth is returned for negative walk depths.
	ErrInvalidMaxDepth = errors.New("invalid max depth")
	// ErrInvalidMaxWorkers is returned when fewer than one check worker is configured.
	ErrInvalidMaxWorkers = errors.New("invalid max workers")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidMaxDepthError is returned when max_depth is negative.
	InvalidMaxDepthError struct {
		Value int
	}

	// InvalidMaxWorkersError is returned when check.max_workers is below one.
	InvalidMaxWorkersError struct {
		Value int
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DefaultCollection is the recipe directory used when --collection is not given.
		DefaultCollection string `json:"default_collection" yaml:"default_collection" toml:"default_collection,omitempty" mapstructure:"default_collection"`
		// MaxDepth bounds how many directory levels below the collection are searched.
		MaxDepth int `json:"max_depth" yaml:"max_depth" toml:"max_depth" mapstructure:"max_depth"`
		// Units lists extra unit table files, loaded in order after the built-in table.
		Units []string `json:"units" yaml:"units" toml:"units" mapstructure:"units"`
		// UI configures the user interface
		UI UIConfig `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
		// Check configures "chef check"
		Check CheckConfig `json:"check" yaml:"check" toml:"check" mapstructure:"check"`

		// Sources lists the files that were merged, lowest precedence first.
		Sources []string `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
	}

	// CheckConfig configures collection checks.
	CheckConfig struct {
		// MaxWorkers is the number of recipes checked concurrently.
		MaxWorkers int `json:"max_workers" yaml:"max_workers" toml:"max_workers" mapstructure:"max_workers"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidMaxDepthError.
func (e *InvalidMaxDepthError) Error() string {
	return fmt.Sprintf("invalid max depth %d: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidMaxDepth for errors.Is() compatibility.
func (e *InvalidMaxDepthError) Unwrap() error { return ErrInvalidMaxDepth }

// Error implements the error interface for InvalidMaxWorkersError.
func (e *InvalidMaxWorkersError) Error() string {
	return fmt.Sprintf("invalid max workers %d: must be at least 1", e.Value)
}

// Unwrap returns ErrInvalidMaxWorkers for errors.Is() compatibility.
func (e *InvalidMaxWorkersError) Unwrap() error { return ErrInvalidMaxWorkers }

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.MaxDepth < 0 {
		errs = append(errs, &InvalidMaxDepthError{Value: c.MaxDepth})
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Check.MaxWorkers < 1 {
		errs = append(errs, &InvalidMaxWorkersError{Value: c.Check.MaxWorkers})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultCollection: "",
		MaxDepth:          DefaultMaxDepth,
		Units:             []string{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Check: CheckConfig{
			MaxWorkers: DefaultMaxWorkers,
		},
	}
}
