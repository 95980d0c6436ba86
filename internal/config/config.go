// Package config loads the clpmix configuration file.
//
// The file is optional. A missing file yields DefaultConfig; a present
// file overrides only the keys it names and may not contain unknown
// keys.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working
// directory when no explicit path is given.
const FileName = ".clpmix.yaml"

// DBEnv overrides the reference database location.
const DBEnv = "CLPMIX_DB"

// Prompt modes.
const (
	ModeLine = "line"
	ModeTUI  = "tui"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Config is the top-level configuration.
type Config struct {
	Database Database `yaml:"database"`
	Prompt   Prompt   `yaml:"prompt"`
	Output   Output   `yaml:"output"`
}

// Database locates the substance reference store.
type Database struct {
	// Path is the SQLite file. Empty means DefaultDBPath.
	Path string `yaml:"path"`
}

// Prompt controls interactive questioning.
type Prompt struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Mode        string `yaml:"mode"`
}

// Output controls report rendering.
type Output struct {
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Prompt: Prompt{
			MaxAttempts: 3,
			Mode:        ModeLine,
		},
		Output: Output{
			Format: FormatText,
		},
	}
}

// Load reads the configuration at path on top of DefaultConfig. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Prompt.MaxAttempts < 1 {
		return fmt.Errorf("prompt.max_attempts must be at least 1, got %d", c.Prompt.MaxAttempts)
	}
	switch c.Prompt.Mode {
	case ModeLine, ModeTUI:
	default:
		return fmt.Errorf("prompt.mode must be %q or %q, got %q", ModeLine, ModeTUI, c.Prompt.Mode)
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatHTML:
	default:
		return fmt.Errorf("output.format must be one of %q, %q, %q, got %q", FormatText, FormatJSON, FormatHTML, c.Output.Format)
	}
	return nil
}

// DBPath returns the configured database path, falling back to
// DefaultDBPath.
func (c *Config) DBPath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, ensureDir(c.Database.Path)
	}
	return DefaultDBPath()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CLPMIX_DB environment variable
// 2. $XDG_DATA_HOME/clpmix/clpmix.db
// 3. ~/.local/share/clpmix/clpmix.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv(DBEnv); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "clpmix", "clpmix.db")
	return p, ensureDir(p)
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
