// Package output owns the CLI's terminal surfaces: prompt content goes
// to stdout unformatted, diagnostics go to stderr through a leveled
// logger, and the shared styles color both.
package output

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

// SetupLogging reconfigures the logger for the given verbosity. Verbose
// mode enables debug tracing with timestamps and caller locations.
func SetupLogging(verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
		ReportCaller:    verbose,
	})
}

// Debug traces pipeline steps; silent unless verbose mode is on.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Print writes to stdout verbatim. Generated prompts go through here so
// piped output never picks up log framing.
func Print(msg string) {
	os.Stdout.WriteString(msg)
}

// Println writes a line to stdout.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}
