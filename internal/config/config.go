// Package config handles slvm.toml run configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slvm/pkg/vm"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "slvm.toml"

// Config represents a slvm.toml configuration.
type Config struct {
	VM     VM     `toml:"vm"`
	Log    Log    `toml:"log"`
	Report Report `toml:"report"`

	// Path is the file the configuration was read from (set at load time).
	Path string `toml:"-"`
}

// VM configures the interpreter.
type VM struct {
	StackSize int    `toml:"stack-size"`
	Overflow  string `toml:"overflow"`
	MaxSteps  int    `toml:"max-steps"`
}

// Log configures the logger.
type Log struct {
	Verbose bool `toml:"verbose"`
	NoColor bool `toml:"no-color"`
}

// Report configures run report output.
type Report struct {
	Format string `toml:"format"`
}

const (
	OverflowAbort  = "abort"
	OverflowRecord = "record"

	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

var (
	ErrStackSize = errors.New("stack-size must be positive")
	ErrMaxSteps  = errors.New("max-steps must not be negative")
	ErrOverflow  = errors.New(`overflow must be "abort" or "record"`)
	ErrFormat    = errors.New(`report format must be "yaml" or "cbor"`)
)

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		VM: VM{
			StackSize: vm.DefaultStackSize,
			Overflow:  OverflowAbort,
		},
		Report: Report{Format: FormatYAML},
	}
}

// Load parses the configuration file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if _, err := toml.Decode(string(data), c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// FindAndLoad walks up from startDir to find a slvm.toml file, then loads
// and returns it. Returns the defaults if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.VM.StackSize <= 0:
		return ErrStackSize
	case c.VM.MaxSteps < 0:
		return ErrMaxSteps
	}

	switch c.VM.Overflow {
	case OverflowAbort, OverflowRecord:
	default:
		return fmt.Errorf("%w, got %q", ErrOverflow, c.VM.Overflow)
	}

	switch c.Report.Format {
	case FormatYAML, FormatCBOR:
	default:
		return fmt.Errorf("%w, got %q", ErrFormat, c.Report.Format)
	}

	return nil
}
