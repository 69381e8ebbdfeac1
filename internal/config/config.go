// Package config loads the rflog command-line configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/riverfall/rflog-go/pkg/rflog/record"
)

// Environment variable names.
const (
	EnvConfig = "RFLOG_CONFIG"
	EnvFormat = "RFLOG_FORMAT"
)

// Output formats.
const (
	FormatJSONL   = "jsonl"
	FormatPretty  = "pretty"
	FormatMsgpack = "msgpack"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	FormatJSONL:   true,
	FormatPretty:  true,
	FormatMsgpack: true,
}

// Config is the rflog configuration file.
//
// Example YAML file:
//
//	format: pretty
//	kinds: [err]
//	log_dir: /home/me/.riverfall/logs
//	max_file_size: 134217728
//	follow:
//	  poll: true
type Config struct {
	// Format is the output format: jsonl, pretty or msgpack.
	Format string `yaml:"format"`

	// Kinds limits output to entries of these kinds ("out", "err").
	// Empty means all kinds.
	Kinds []string `yaml:"kinds"`

	// LogDir is the directory searched for the newest log file.
	LogDir string `yaml:"log_dir"`

	// MaxFileSize caps the decompressed size of a parsed file in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`

	Follow FollowConfig `yaml:"follow"`
}

// FollowConfig configures "rflog tail".
type FollowConfig struct {
	// Poll uses stat polling instead of filesystem notifications.
	Poll bool `yaml:"poll"`
}

// DefaultMaxFileSize is the default for Config.MaxFileSize (64MB).
const DefaultMaxFileSize = 64 * 1024 * 1024

// DefaultConfig returns a configuration with defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:      FormatJSONL,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Load reads and validates a configuration file.
// An empty path falls back to RFLOG_CONFIG, and to defaults if that is unset too.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// decode unmarshals YAML into cfg, rejecting unknown keys.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if format := os.Getenv(EnvFormat); format != "" {
		c.Format = format
	}
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if !ValidFormats[cfg.Format] {
		return fmt.Errorf("format: invalid format %q (must be jsonl, pretty, or msgpack)", cfg.Format)
	}

	for i, k := range cfg.Kinds {
		if _, err := record.ParseKind(k); err != nil {
			return fmt.Errorf("kinds[%d]: %w", i, err)
		}
	}

	if cfg.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size: must be non-negative, got %d", cfg.MaxFileSize)
	}

	return nil
}

// KindFilter returns the configured kinds, or nil when all kinds are allowed.
// It assumes cfg has been validated.
func (c *Config) KindFilter() []record.Kind {
	if len(c.Kinds) == 0 {
		return nil
	}
	kinds := make([]record.Kind, 0, len(c.Kinds))
	for _, s := range c.Kinds {
		k, err := record.ParseKind(s)
		if err != nil {
			continue
		}
		kinds = append(kinds, k)
	}
	return kinds
}
