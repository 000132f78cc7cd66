package main

import (
	"flag"
	"fmt"
	"os"
	"slvm/internal/driver"
	"slvm/internal/logger"
	"slvm/pkg/color"
	"slvm/pkg/vm"

	"github.com/charmbracelet/log"
)

// Main entry point for the slvm toolchain.
func main() {
	options := driver.Driver{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.ShouldRun, "r", false, "Run the program (default when neither -d nor -o is given)")
	flag.BoolVar(&options.Disassemble, "d", false, "Print the disassembly")
	flag.StringVar(&options.OutputFile, "o", "", "Write the assembled image to this file")
	flag.StringVar(&options.ConfigFile, "c", "", "Configuration file (default: nearest slvm.toml)")
	flag.StringVar(&options.ReportFile, "report", "", "Write a run report to this file")
	flag.StringVar(&options.ReportFormat, "format", "", "Report format (yaml, cbor)")
	flag.IntVar(&options.StackSize, "stack", 0, "Stack size in bytes")
	flag.StringVar(&options.Overflow, "overflow", "", "Stack overflow policy (abort, record)")
	flag.IntVar(&options.MaxSteps, "max-steps", -1, "Maximum executed instructions (0 = unlimited)")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]

	if err := options.Execute(); err != nil {
		log.Error("Execution failed", "error", err)

		// a VM fault exits with its status code
		if status := vm.StatusOf(err); status > vm.StatusOK {
			os.Exit(int(status))
		}
		os.Exit(1)
	}
}
