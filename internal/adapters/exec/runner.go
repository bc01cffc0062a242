// Package exec implements the process runner adapter using os/exec.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	osexec "os/exec"
	"strings"

	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.ProcessRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes the process described by spec and waits for it to finish.
// Stdout and stderr are buffered into the result and streamed line by line
// to the logger; when a telemetry vertex rides on ctx the raw streams are
// mirrored to it as well.
//
// A non-zero exit code is reported through the result. Run returns an error
// only when the process could not be started or was cut short, including
// spec.Timeout expiry (context.DeadlineExceeded).
func (r *Runner) Run(ctx context.Context, spec domain.RunSpec) (domain.RunResult, error) {
	if spec.Path == "" {
		return domain.RunResult{}, zerr.New("no executable specified")
	}

	runCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := osexec.CommandContext(runCtx, spec.Path, spec.Args...) //nolint:gosec // tool path comes from configuration
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)

	stdoutLog := &logWriter{logger: r.logger, level: "info"}
	stderrLog := &logWriter{logger: r.logger, level: "error"}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
	cmd.Stderr = io.MultiWriter(&stderr, stderrLog)
	if v, ok := ports.VertexFromContext(ctx); ok {
		cmd.Stdout = io.MultiWriter(&stdout, stdoutLog, v.Stdout())
		cmd.Stderr = io.MultiWriter(&stderr, stderrLog, v.Stderr())
	}

	err := cmd.Run()
	result := domain.RunResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err == nil {
		return result, nil
	}

	// The context expiring kills the process, which then reports an exit
	// error. The cause the caller needs is the deadline, not the kill.
	if ctxErr := runCtx.Err(); ctxErr != nil {
		return result, zerr.With(zerr.Wrap(ctxErr, "process cut short"), "path", spec.Path)
	}

	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, zerr.With(zerr.Wrap(err, "failed to run process"), "path", spec.Path)
}

// logWriter buffers written bytes and forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

// Close flushes any buffered partial line.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Error(zerr.New(msg))
	}
}
