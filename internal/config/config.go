// Package config loads the optional YAML configuration of mhkc-cli.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/core"
)

// Output encodings understood by the CLI.
const (
	FormatHex    = "hex"
	FormatBase64 = "base64"
	FormatJSON   = "json"
)

// Config represents the mhkc-cli configuration
type Config struct {
	Keys   KeysConfig   `yaml:"keys"`
	Output OutputConfig `yaml:"output"`
}

// KeysConfig contains key generation defaults
type KeysConfig struct {
	Size               string `yaml:"size"`                 // Preset: byte, bmp or unicode
	Bits               int    `yaml:"bits"`                 // Overrides size when non-zero
	Ceiling            int    `yaml:"ceiling"`              // Upper bound of the first private weight
	MaxCoprimeAttempts int    `yaml:"max_coprime_attempts"` // 0 means unbounded
}

// OutputConfig contains output settings
type OutputConfig struct {
	Format string `yaml:"format"` // hex, base64 or json
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Keys: KeysConfig{
			Size:               string(mhkc.Unicode),
			Ceiling:            core.DefaultCeiling,
			MaxCoprimeAttempts: core.DefaultMaxCoprimeAttempts,
		},
		Output: OutputConfig{
			Format: FormatBase64,
		},
	}
}

// Load reads configuration from a file. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Keys.Size == "" && cfg.Keys.Bits == 0 {
		cfg.Keys.Size = string(mhkc.Unicode)
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatBase64
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to a file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatHex, FormatBase64, FormatJSON:
	default:
		return fmt.Errorf("output.format must be one of hex, base64, json (got %q)", c.Output.Format)
	}

	if c.Keys.Bits < 0 {
		return fmt.Errorf("keys.bits cannot be negative")
	}

	if _, err := c.Params(); err != nil {
		return fmt.Errorf("invalid key settings: %w", err)
	}

	return nil
}

// Params resolves the key settings into generation parameters.
func (c *Config) Params() (mhkc.Params, error) {
	var params mhkc.Params
	if c.Keys.Bits > 0 {
		params = core.ParamsForBits(c.Keys.Bits)
	} else {
		p, err := core.GetParams(mhkc.KeySize(c.Keys.Size))
		if err != nil {
			return mhkc.Params{}, err
		}
		params = p
	}
	params.Ceiling = c.Keys.Ceiling
	params.MaxCoprimeAttempts = c.Keys.MaxCoprimeAttempts

	if err := core.ValidateParams(params); err != nil {
		return mhkc.Params{}, err
	}
	return params, nil
}
