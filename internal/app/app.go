// Package app implements the application layer for pubkit.
package app

import (
	"context"
	"sync"

	"go.trai.ch/pubkit/internal/adapters/scan"
	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
	"go.trai.ch/pubkit/internal/engine/catalog"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App orchestrates scanning, resolution and package content access.
type App struct {
	settings  domain.Settings
	logger    ports.Logger
	resolver  ports.PackageResolver
	store     ports.LibraryStore
	telemetry ports.Telemetry

	// catalogs are reused per resolved set so their content caches survive
	// across reads. Flush drops them together with the store root.
	mu       sync.RWMutex
	catalogs map[string]*catalog.Catalog
}

// New creates a new App instance.
func New(
	settings domain.Settings,
	log ports.Logger,
	resolver ports.PackageResolver,
	store ports.LibraryStore,
	telemetry ports.Telemetry,
) *App {
	return &App{
		settings:  settings,
		logger:    log,
		resolver:  resolver,
		store:     store,
		telemetry: telemetry,
		catalogs:  make(map[string]*catalog.Catalog),
	}
}

// Settings returns the loaded subsystem configuration.
func (a *App) Settings() domain.Settings {
	return a.settings
}

// CacheRoot returns the content cache root directory.
func (a *App) CacheRoot() string {
	return a.store.Root()
}

// ScanImports extracts the package names imported by the given source texts,
// filtered to safe bare names. Pure string work; nothing is resolved or
// fetched.
func (a *App) ScanImports(sources []string) []string {
	var uris []string
	for _, src := range sources {
		uris = append(uris, scan.ExtractImports(src)...)
	}
	return scan.FilterSafePackages(uris)
}

// Resolve pins the given package names to exact versions.
func (a *App) Resolve(ctx context.Context, names []string) (domain.ResolvedSet, error) {
	return a.resolver.Resolve(ctx, names)
}

// ResolveImports scans the given source texts and resolves every imported
// package in one request.
func (a *App) ResolveImports(ctx context.Context, sources []string) (domain.ResolvedSet, error) {
	return a.resolver.Resolve(ctx, a.ScanImports(sources))
}

// Warm ensures the lib dir of every entry in set, fetching misses with
// bounded parallelism. The first failure cancels the remaining fetches.
func (a *App) Warm(ctx context.Context, set domain.ResolvedSet) error {
	if set.Len() == 0 {
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.parallelism())

	for _, ref := range set.Refs() {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			_, err := a.store.EnsureLibDir(groupCtx, ref)
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return zerr.Wrap(err, "cache warm-up failed")
	}
	return nil
}

// ReadContent returns the bytes of the file named by a package: reference,
// served from the catalog bound to set.
func (a *App) ReadContent(ctx context.Context, set domain.ResolvedSet, reference string) ([]byte, error) {
	cat, err := a.catalogFor(set)
	if err != nil {
		return nil, err
	}
	return cat.ReadContent(ctx, reference)
}

// Flush clears the package cache and drops every held catalog.
func (a *App) Flush(ctx context.Context) error {
	a.mu.Lock()
	a.catalogs = make(map[string]*catalog.Catalog)
	a.mu.Unlock()

	if err := a.store.Flush(ctx); err != nil {
		return zerr.Wrap(err, "failed to flush package cache")
	}

	a.logger.Info("package cache flushed")
	return nil
}

// ToolVersion reports the external resolution tool's version.
func (a *App) ToolVersion(ctx context.Context) (string, error) {
	return a.resolver.ToolVersion(ctx)
}

// Close flushes and closes the telemetry session.
func (a *App) Close() error {
	return a.telemetry.Close()
}

func (a *App) catalogFor(set domain.ResolvedSet) (*catalog.Catalog, error) {
	key := set.SetKey()

	a.mu.RLock()
	cat, ok := a.catalogs[key]
	a.mu.RUnlock()
	if ok {
		return cat, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if cat, ok := a.catalogs[key]; ok {
		return cat, nil
	}

	cat, err := catalog.New(set, a.store, a.logger)
	if err != nil {
		return nil, err
	}
	a.catalogs[key] = cat
	return cat, nil
}

func (a *App) parallelism() int {
	if a.settings.Parallelism < 1 {
		return 1
	}
	return a.settings.Parallelism
}
