package ports

import (
	"context"

	"go.trai.ch/pubkit/internal/core/domain"
)

// PackageResolver resolves bare package names to pinned versions.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type PackageResolver interface {
	// Resolve pins every named package (and its transitive dependencies) to a
	// concrete version.
	//
	// An empty names list yields the empty set without consulting the tool.
	// A resolution failure is always returned as an error, never as an empty
	// set.
	Resolve(ctx context.Context, names []string) (domain.ResolvedSet, error)

	// ToolVersion reports the version of the underlying resolution tool.
	// Failures are expected to be treated as non-fatal by callers.
	ToolVersion(ctx context.Context) (string, error)
}
