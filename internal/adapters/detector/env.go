// Package detector provides environment detection for progress output selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents how operation progress is surfaced.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeProgress records operations on a progress tape.
	ModeProgress
	// ModePlain keeps output to plain logs.
	ModePlain
)

// DetectEnvironment returns the recommended output mode based on the
// environment. It checks if stdout is a TTY and if CI environment variables
// are set.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModePlain
	}
	return ModeProgress
}

// ResolveMode applies a user override to auto-detection.
// override should be one of: "auto", "progress", "plain", "quiet", or empty.
func ResolveMode(autoDetected OutputMode, override string) OutputMode {
	switch override {
	case "progress":
		return ModeProgress
	case "plain", "quiet":
		return ModePlain
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
