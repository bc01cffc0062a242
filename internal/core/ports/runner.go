// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/pubkit/internal/core/domain"
)

// ProcessRunner executes external processes.
//
// It exists so that components invoking tools (the package resolver in
// particular) can be tested without a real binary on PATH.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ProcessRunner interface {
	// Run executes the process described by spec and waits for it to finish.
	//
	// A non-zero exit code is reported through RunResult, not as an error.
	// Run returns an error only when the process could not be started or was
	// cut short, including spec.Timeout expiry (context.DeadlineExceeded).
	Run(ctx context.Context, spec domain.RunSpec) (domain.RunResult, error)
}
