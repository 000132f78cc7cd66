package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slvm/internal/config"
	"slvm/internal/logger"
	"slvm/internal/report"
	"slvm/pkg/asm"
	"slvm/pkg/bytecode"
	"slvm/pkg/color"
	"slvm/pkg/lexer"
	"slvm/pkg/parser"
	"slvm/pkg/vm"
	"time"

	"github.com/charmbracelet/log"
)

type Driver struct {
	Help         bool   // Show help message
	Verbose      bool   // Enable verbose output
	NoColor      bool   // Disable colored output
	ShouldRun    bool   // Run the program
	Disassemble  bool   // Print the disassembly
	OutputFile   string // Path of the image to write, empty for none
	ConfigFile   string // Path to slvm.toml, empty to search upwards
	ReportFile   string // Path of the run report, empty for none
	ReportFormat string // Report format, empty for the configured one
	StackSize    int    // Stack capacity in bytes, 0 for the configured one
	Overflow     string // Overflow policy, empty for the configured one
	MaxSteps     int    // Step limit, negative for the configured one
	SourceFile   string // Path to the image, assembly source or .sl program

	Stdout io.Writer // Program output, os.Stdout when nil

	Config *config.Config // Effective configuration, set by Execute
	Result int32          // Result of the last run
	Report *report.Report // Report of the last run
}

// SourceExt marks source programs, compiled rather than assembled.
const SourceExt = ".sl"

// Execute loads the source file, compiling or assembling it unless it
// already is an image, then writes, disassembles and runs it as the
// options ask.
func (d *Driver) Execute() error {
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}

	if err := d.configure(); err != nil {
		return err
	}

	cu, err := d.load()
	if err != nil {
		return err
	}

	if d.OutputFile != "" {
		if err := os.WriteFile(d.OutputFile, cu.Bytes(), 0o644); err != nil {
			return fmt.Errorf("cannot write %s: %w", d.OutputFile, err)
		}
		log.Info("Wrote image", "file", d.OutputFile, "bytes", cu.Len())
	}

	if d.Verbose || d.Disassemble {
		fmt.Fprintln(d.Stdout, color.GreenText("=== Disassembly ==="))
		fmt.Fprint(d.Stdout, bytecode.Disassemble(cu))
	}

	if d.ShouldRun || (!d.Disassemble && d.OutputFile == "") {
		return d.run(cu)
	}

	return nil
}

// configure loads the configuration file and applies flag overrides.
func (d *Driver) configure() error {
	var (
		c   *config.Config
		err error
	)

	if d.ConfigFile != "" {
		c, err = config.Load(d.ConfigFile)
	} else {
		c, err = config.FindAndLoad(filepath.Dir(d.SourceFile))
	}
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	if d.StackSize > 0 {
		c.VM.StackSize = d.StackSize
	}
	if d.Overflow != "" {
		c.VM.Overflow = d.Overflow
	}
	if d.MaxSteps >= 0 {
		c.VM.MaxSteps = d.MaxSteps
	}
	if d.ReportFormat != "" {
		c.Report.Format = d.ReportFormat
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	// the file may ask for more output or less color than the flags did
	if (c.Log.Verbose && !d.Verbose) || (c.Log.NoColor && !d.NoColor) {
		d.Verbose = d.Verbose || c.Log.Verbose
		d.NoColor = d.NoColor || c.Log.NoColor
		logger.Init(d.Verbose, d.NoColor)
		if d.NoColor {
			color.EnableColor(false)
		}
	}

	if c.Path != "" {
		log.Debug("Loaded configuration", "file", c.Path)
	}
	d.Config = c
	return nil
}

// load reads an image, or compiles or assembles source text into one.
func (d *Driver) load() (*bytecode.CodeUnit, error) {
	log.Info("Processing file", "file", d.SourceFile)

	input, err := os.ReadFile(d.SourceFile)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", d.SourceFile, err)
	}

	if bytecode.HasMagic(input) {
		log.Debug("Loaded image", "bytes", len(input))
		return bytecode.NewCodeUnit(input), nil
	}

	if filepath.Ext(d.SourceFile) == SourceExt {
		return d.compile(string(input))
	}

	cu, err := asm.Assemble(string(input))
	if err != nil {
		if list, ok := err.(asm.ErrorList); ok {
			fmt.Fprintln(d.Stdout, color.BrightRedText("=== Assembly Errors ==="))
			for _, e := range list {
				fmt.Fprintln(d.Stdout, e.Pretty())
			}
			return nil, fmt.Errorf("assembly failed with %d errors", len(list))
		}
		return nil, err
	}

	log.Debug("Assembled source", "bytes", cu.Len())
	return cu, nil
}

// compile translates a source program into an image.
func (d *Driver) compile(input string) (*bytecode.CodeUnit, error) {
	p := parser.NewParser(lexer.NewLexer(input))
	p.Parse()

	if syntaxErrors := p.Errors(); len(syntaxErrors) > 0 {
		fmt.Fprintln(d.Stdout, color.BrightRedText("=== Syntax Errors ==="))
		for _, e := range syntaxErrors {
			fmt.Fprintln(d.Stdout, e)
		}
		return nil, fmt.Errorf("parsing failed with %d errors", len(syntaxErrors))
	}

	if semanticErrors := p.GetSemanticErrors(); len(semanticErrors) > 0 {
		fmt.Fprintln(d.Stdout, color.BrightRedText("=== Semantic Errors ==="))
		for _, e := range semanticErrors {
			fmt.Fprintln(d.Stdout, e)
		}
		return nil, fmt.Errorf("semantic analysis failed with %d errors", len(semanticErrors))
	}

	cu := p.CodeUnit()
	log.Debug("Compiled source", "instructions", len(p.GetProgram()), "bytes", cu.Len())
	return cu, nil
}

func (d *Driver) run(cu *bytecode.CodeUnit) error {
	policy := vm.OverflowAbort
	if d.Config.VM.Overflow == config.OverflowRecord {
		policy = vm.OverflowRecord
	}

	m := vm.New(
		vm.WithStackSize(d.Config.VM.StackSize),
		vm.WithOverflowPolicy(policy),
		vm.WithMaxSteps(d.Config.VM.MaxSteps),
	)

	stream := &vm.ErrorStream{}
	rep := report.New(d.SourceFile)
	start := time.Now()

	log.Info("Running image", "file", d.SourceFile, "stack", m.StackSize(), "overflow", policy)
	v, err := m.Run(cu, stream)

	status := vm.StatusOf(err)
	rep.Entry = m.Entry()
	rep.Status = int(status)
	rep.StatusName = status.String()
	rep.Result = v
	rep.Errors = stream.Messages()
	rep.Steps = m.Steps()
	rep.Duration = time.Since(start)

	d.Result = v
	d.Report = rep

	if stream.Len() > 0 {
		fmt.Fprintln(d.Stdout, color.BrightRedText("=== Errors ==="))
		for _, msg := range stream.Messages() {
			fmt.Fprintln(d.Stdout, color.Error(msg))
		}
	}

	if err == nil {
		fmt.Fprintln(d.Stdout, color.GreenText("=== Program Output ==="))
		fmt.Fprintln(d.Stdout, v)
	}
	log.Info("Run finished", "status", status, "steps", rep.Steps, "duration", rep.Duration)

	if d.ReportFile != "" {
		if werr := rep.Write(d.ReportFile, d.Config.Report.Format); werr != nil {
			return werr
		}
		log.Info("Wrote report", "file", d.ReportFile, "format", d.Config.Report.Format)
	}

	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}
