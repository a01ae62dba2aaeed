// internal/config/config.go
//
// Optional per-project configuration for logweave, read from
// .logweave.yaml in the working directory (or wherever --config points).
// Every field has a default; the file only exists to override them.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultFileName is the config file looked up when --config is unset.
	DefaultFileName = ".logweave.yaml"

	// DefaultScheme is the built-in filename ordering scheme.
	DefaultScheme = "dot-numeric"

	// DefaultSchemesDir is where naming-scheme plugins are discovered.
	DefaultSchemesDir = ".logweave/schemes"

	// DefaultJournalPath is where the run journal is appended.
	DefaultJournalPath = ".logweave/logweave.log"

	defaultBufferSize = 32 * 1024
	minBufferSize     = 4 * 1024
)

// Duplicate-key policies for the ordering resolver.
const (
	DuplicateFail     = "fail"
	DuplicateKeepLast = "keep-last"
)

// Config models .logweave.yaml.
type Config struct {
	Version     int    `yaml:"version"`
	BufferSize  int    `yaml:"buffer_size"`
	OnDuplicate string `yaml:"on_duplicate"`
	Scheme      string `yaml:"scheme"`
	SchemesDir  string `yaml:"schemes_dir"`
	Quiet       bool   `yaml:"quiet"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Version:     1,
		BufferSize:  defaultBufferSize,
		OnDuplicate: DuplicateFail,
		Scheme:      DefaultScheme,
		SchemesDir:  DefaultSchemesDir,
	}
}

// Load reads the config file at path. A missing file is not an error and
// yields the defaults; a present-but-invalid file is always an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	cfg.normalize(filepath.Dir(path))
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.BufferSize == 0 {
		c.BufferSize = defaultBufferSize
	}
	if strings.TrimSpace(c.OnDuplicate) == "" {
		c.OnDuplicate = DuplicateFail
	}
	if strings.TrimSpace(c.Scheme) == "" {
		c.Scheme = DefaultScheme
	}
	if strings.TrimSpace(c.SchemesDir) == "" {
		c.SchemesDir = DefaultSchemesDir
	}
}

func (c *Config) normalize(base string) {
	c.OnDuplicate = strings.ToLower(strings.TrimSpace(c.OnDuplicate))
	c.Scheme = strings.TrimSpace(c.Scheme)
	c.SchemesDir = resolvePath(base, c.SchemesDir)
}

func (c *Config) validate() error {
	if c.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if c.BufferSize < minBufferSize {
		return fmt.Errorf("buffer_size must be >= %d, got %d", minBufferSize, c.BufferSize)
	}
	switch c.OnDuplicate {
	case DuplicateFail, DuplicateKeepLast:
	default:
		return fmt.Errorf("on_duplicate must be %q or %q", DuplicateFail, DuplicateKeepLast)
	}
	if c.Scheme == "" {
		return fmt.Errorf("scheme is required")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
