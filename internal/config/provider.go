// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions selects where generator configuration is loaded from.
// Both fields empty means the standard lookup: the user config directory,
// then the working directory, then built-in defaults.
type LoadOptions struct {
	// ConfigFilePath loads exactly this file; failure to read it is an
	// error rather than a fallback.
	ConfigFilePath string
	// ConfigDirPath replaces the user config directory in the lookup.
	ConfigDirPath string
}

// Provider is the configuration source handed to commands; the indirection
// lets command tests substitute a canned Config.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider returns the file-backed Provider.
func NewProvider() Provider {
	return &fileProvider{}
}

func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWithPath loads configuration and also reports the file it came from;
// an empty path means built-in defaults.
func LoadWithPath(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}
