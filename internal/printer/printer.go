// Package printer writes colored status output for the CLI. Data output
// (CSV, JSON, figures) never goes through here, and warnings go to stderr,
// so piped data stays clean.
package printer

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to a TTY.
	// Users can disable with the NO_COLOR environment variable.
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// Success prints a confirmation line in green with a checkmark prefix.
func Success(format string, a ...any) {
	green.Printf("✓ %s\n", fmt.Sprintf(format, a...))
}

// Info prints an informational line in the default color.
func Info(format string, a ...any) {
	fmt.Printf(format+"\n", a...)
}

// Step prints a progress line for multi-step operations.
func Step(format string, a ...any) {
	cyan.Printf("→ %s\n", fmt.Sprintf(format, a...))
}

// Warning prints a warning line in yellow to stderr.
func Warning(format string, a ...any) {
	yellow.Fprintf(os.Stderr, "⚠ %s\n", fmt.Sprintf(format, a...))
}

// Warnings prints each collected warning, typically the non-fatal notes
// returned by variable selection and flattening.
func Warnings(warnings []string) {
	for _, w := range warnings {
		Warning("%s", w)
	}
}
