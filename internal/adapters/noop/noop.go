// Package noop provides inert resolver and store implementations, wired when
// package support is administratively disabled. Callers observe an empty
// package universe; nothing here performs process, network or disk I/O.
package noop

import (
	"context"

	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
)

var (
	_ ports.PackageResolver = (*Resolver)(nil)
	_ ports.LibraryStore    = (*Store)(nil)
)

// Resolver implements ports.PackageResolver without ever consulting a tool.
type Resolver struct{}

// NewResolver creates a new no-op Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve reports the empty set for any request. Callers must treat this as
// "feature disabled", not as a confirmed empty dependency set.
func (r *Resolver) Resolve(_ context.Context, _ []string) (domain.ResolvedSet, error) {
	return domain.NewResolvedSet(), nil
}

// ToolVersion reports an empty version; there is no tool.
func (r *Resolver) ToolVersion(_ context.Context) (string, error) {
	return "", nil
}

// Store implements ports.LibraryStore for the disabled subsystem.
type Store struct{}

// NewStore creates a new no-op Store.
func NewStore() *Store {
	return &Store{}
}

// EnsureLibDir fails with ErrStoreDisabled. With the no-op resolver in place
// no package ever resolves, so a correct caller cannot reach this; reaching
// it means content was requested for a package the subsystem never admitted.
func (s *Store) EnsureLibDir(_ context.Context, _ domain.PackageRef) (string, error) {
	return "", domain.ErrStoreDisabled
}

// Flush succeeds trivially; there is nothing to delete.
func (s *Store) Flush(_ context.Context) error {
	return nil
}

// Root reports an empty root; the store owns no directory.
func (s *Store) Root() string {
	return ""
}
