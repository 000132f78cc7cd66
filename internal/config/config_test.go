package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slvm/internal/config"
	"slvm/pkg/vm"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[vm]
stack-size = 4096
overflow = "record"
max-steps = 100

[log]
verbose = true

[report]
format = "cbor"
`)

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.VM.StackSize != 4096 {
		t.Errorf("stack-size: expected 4096, got %d", c.VM.StackSize)
	}
	if c.VM.Overflow != config.OverflowRecord {
		t.Errorf("overflow: expected %q, got %q", config.OverflowRecord, c.VM.Overflow)
	}
	if c.VM.MaxSteps != 100 {
		t.Errorf("max-steps: expected 100, got %d", c.VM.MaxSteps)
	}
	if !c.Log.Verbose || c.Log.NoColor {
		t.Errorf("log: expected verbose with color, got %+v", c.Log)
	}
	if c.Report.Format != config.FormatCBOR {
		t.Errorf("format: expected %q, got %q", config.FormatCBOR, c.Report.Format)
	}
	if c.Path == "" {
		t.Error("expected Path to be set")
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[log]\nno-color = true\n")

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def := config.Default()
	if c.VM != def.VM {
		t.Errorf("vm: expected defaults %+v, got %+v", def.VM, c.VM)
	}
	if c.VM.StackSize != vm.DefaultStackSize {
		t.Errorf("stack-size: expected the VM default %d, got %d", vm.DefaultStackSize, c.VM.StackSize)
	}
	if c.Report.Format != config.FormatYAML {
		t.Errorf("format: expected %q, got %q", config.FormatYAML, c.Report.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected error
	}{
		{"defaults", func(*config.Config) {}, nil},
		{"zero stack", func(c *config.Config) { c.VM.StackSize = 0 }, config.ErrStackSize},
		{"negative steps", func(c *config.Config) { c.VM.MaxSteps = -1 }, config.ErrMaxSteps},
		{"bad overflow", func(c *config.Config) { c.VM.Overflow = "ignore" }, config.ErrOverflow},
		{"bad format", func(c *config.Config) { c.Report.Format = "json" }, config.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			tt.mutate(c)

			err := c.Validate()
			if tt.expected == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[vm]\noverflow = \"ignore\"\n")

	if _, err := config.Load(path); !errors.Is(err, config.ErrOverflow) {
		t.Errorf("expected %v, got %v", config.ErrOverflow, err)
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[vm]\nmax-steps = 7\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	c, err := config.FindAndLoad(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.VM.MaxSteps != 7 {
		t.Errorf("expected max-steps 7 from parent directory, got %d", c.VM.MaxSteps)
	}
}
