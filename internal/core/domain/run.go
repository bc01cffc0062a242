package domain

import "time"

// RunSpec describes one external process invocation.
type RunSpec struct {
	// Path is the executable to run, resolved against PATH when not absolute.
	Path string

	// Args are the arguments, excluding the program name.
	Args []string

	// Dir is the working directory. Empty means the caller's.
	Dir string

	// Env lists extra KEY=VALUE pairs appended to the inherited environment.
	Env []string

	// Timeout caps the run. Zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// RunResult captures the outcome of a completed invocation. A non-zero exit
// code is a result, not an error; the runner reserves errors for failures to
// start or finish the process at all.
type RunResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}
