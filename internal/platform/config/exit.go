package config

import (
	"fmt"
	"os"
)

// Process exit codes for dice commands.
const (
	// ExitFailure reports a roll that could not be evaluated.
	ExitFailure = 1
	// ExitUsage reports bad flags or configuration.
	ExitUsage = 2
)

// Exitf writes a formatted line to stderr and exits with code.
func Exitf(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}
