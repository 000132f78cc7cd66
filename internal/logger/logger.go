package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// New creates a logger writing to w. Without debug only warnings and
// errors get through.
func New(w io.Writer, debug, noColor bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: false, // runs are short, the report carries the start time
		Prefix:          "SLVM",
	})

	l.SetLevel(log.WarnLevel)
	if debug {
		l.SetLevel(log.DebugLevel)
	}

	l.SetColorProfile(termenv.ANSI256)
	if noColor {
		l.SetColorProfile(termenv.Ascii)
	}

	return l
}

// Init installs the default logger on stderr.
func Init(debug, noColor bool) {
	log.SetDefault(New(os.Stderr, debug, noColor))
}
