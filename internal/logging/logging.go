// Package logging builds the charmbracelet/log logger shared by the window
// manager, the IPC server and the CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Verbosity selects how much is logged.
type Verbosity int

const (
	Normal Verbosity = iota
	Verbose
	Quiet
)

// VerbosityFromFlags maps the -v / -q flags to a Verbosity. The flags are
// mutually exclusive at the CLI level.
func VerbosityFromFlags(verbose, quiet bool) Verbosity {
	switch {
	case quiet:
		return Quiet
	case verbose:
		return Verbose
	default:
		return Normal
	}
}

// New returns a logger writing to w. Quiet discards all output.
func New(w io.Writer, v Verbosity) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	if v == Quiet {
		w = io.Discard
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if v == Verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
