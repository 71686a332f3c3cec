// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// StrategyStatic pre-creates registry members as package-level values.
	StrategyStatic StrategyName = "static"
	// StrategySingleton shares one lazily built registry instance.
	StrategySingleton StrategyName = "singleton"
	// StrategyFactory constructs fresh member instances per accessor call.
	StrategyFactory StrategyName = "factory"
	// StrategyService defers construction to a caller-owned instance.
	StrategyService StrategyName = "service"
)

var (
	// ErrInvalidStrategy is returned when a StrategyName value is not recognized.
	ErrInvalidStrategy = errors.New("invalid generation strategy")
	// ErrInvalidSearchPath is the sentinel error wrapped by InvalidSearchPathError.
	ErrInvalidSearchPath = errors.New("invalid search path")
	// ErrInvalidOutPackage is returned when an OutPackage value is not a Go identifier.
	ErrInvalidOutPackage = errors.New("invalid output package name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// StrategyName selects the default generation strategy for registries
	// whose marker does not pick one.
	StrategyName string

	// InvalidStrategyError is returned when a StrategyName value is not
	// recognized. It wraps ErrInvalidStrategy for errors.Is() compatibility.
	InvalidStrategyError struct {
		Value StrategyName
	}

	// SearchPath is a filesystem path searched for *.registamod directories.
	// A valid path must be non-empty and not whitespace-only.
	SearchPath string

	// InvalidSearchPathError is returned when a SearchPath value is empty
	// or whitespace-only. It wraps ErrInvalidSearchPath for errors.Is().
	InvalidSearchPathError struct {
		Value SearchPath
	}

	// OutPackage is the package name of generated files. The zero value
	// ("") is valid and means "use the default package name".
	OutPackage string

	// InvalidOutPackageError is returned when an OutPackage value is
	// non-empty but not a valid Go package identifier.
	InvalidOutPackageError struct {
		Value OutPackage
	}

	// InvalidConfigError aggregates the first validation failure of a
	// Config. It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Field string
		Cause error
	}

	// Config is the effective regista configuration.
	Config struct {
		// SearchPaths are extra directories scanned for declaration
		// modules, in precedence order after the working directory.
		SearchPaths []SearchPath `mapstructure:"search_paths"`
		// OutDir is where generated files are written.
		OutDir string `mapstructure:"out_dir"`
		// OutPackage is the package name of generated files.
		OutPackage OutPackage `mapstructure:"out_package"`
		// LookupCaseSensitive disables case-insensitive name lookups in
		// generated registries.
		LookupCaseSensitive bool `mapstructure:"lookup_case_sensitive"`
		// DefaultStrategy applies to registries whose marker picks none.
		DefaultStrategy StrategyName `mapstructure:"default_strategy"`
		// Verbose enables debug-level logging.
		Verbose bool `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		SearchPaths:         nil,
		OutDir:              "gen",
		OutPackage:          "registry",
		LookupCaseSensitive: false,
		DefaultStrategy:     StrategyStatic,
		Verbose:             false,
	}
}

// Validate checks that the strategy name is one of the known values.
// The empty string is valid and means "use the built-in default".
func (s StrategyName) Validate() error {
	switch s {
	case "", StrategyStatic, StrategySingleton, StrategyFactory, StrategyService:
		return nil
	default:
		return &InvalidStrategyError{Value: s}
	}
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid generation strategy %q (valid: static, singleton, factory, service)", e.Value)
}

func (e *InvalidStrategyError) Unwrap() error { return ErrInvalidStrategy }

// Validate checks that the search path is non-empty and not whitespace-only.
func (p SearchPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidSearchPathError{Value: p}
	}
	return nil
}

func (e *InvalidSearchPathError) Error() string {
	return fmt.Sprintf("invalid search path %q: must not be empty or whitespace-only", e.Value)
}

func (e *InvalidSearchPathError) Unwrap() error { return ErrInvalidSearchPath }

// Validate checks that a non-empty package name is a valid Go identifier.
func (p OutPackage) Validate() error {
	if p == "" {
		return nil
	}
	for i, r := range string(p) {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return &InvalidOutPackageError{Value: p}
			}
		default:
			return &InvalidOutPackageError{Value: p}
		}
	}
	return nil
}

func (e *InvalidOutPackageError) Error() string {
	return fmt.Sprintf("invalid output package name %q: must be a Go identifier", e.Value)
}

func (e *InvalidOutPackageError) Unwrap() error { return ErrInvalidOutPackage }

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %v", e.Field, e.Cause)
}

// Unwrap exposes both the sentinel and the field cause to errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error { return []error{ErrInvalidConfig, e.Cause} }

// Validate checks every typed field of the configuration.
func (c *Config) Validate() error {
	for i, p := range c.SearchPaths {
		if err := p.Validate(); err != nil {
			return &InvalidConfigError{Field: fmt.Sprintf("search_paths[%d]", i), Cause: err}
		}
	}
	if err := c.OutPackage.Validate(); err != nil {
		return &InvalidConfigError{Field: "out_package", Cause: err}
	}
	if err := c.DefaultStrategy.Validate(); err != nil {
		return &InvalidConfigError{Field: "default_strategy", Cause: err}
	}
	return nil
}
