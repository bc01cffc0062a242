// Package catalog binds a resolved package set to the content store and
// serves file reads through package: references.
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
	"go.trai.ch/zerr"
)

// contentCacheSize bounds the per-catalog read cache.
const contentCacheSize = 128

// Catalog serves file contents for one resolved package set. The set is
// immutable for the catalog's lifetime; content reads are cached per
// reference.
type Catalog struct {
	set    domain.ResolvedSet
	store  ports.LibraryStore
	logger ports.Logger

	contents *lru.Cache[string, []byte]
}

// New creates a catalog over set backed by store.
func New(set domain.ResolvedSet, store ports.LibraryStore, log ports.Logger) (*Catalog, error) {
	contents, err := lru.New[string, []byte](contentCacheSize)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create content cache")
	}

	return &Catalog{
		set:      set,
		store:    store,
		logger:   log,
		contents: contents,
	}, nil
}

// HasPackages reports whether the catalog serves any packages.
func (c *Catalog) HasPackages() bool {
	return c.set.Len() > 0
}

// Lookup returns the resolved reference for a package name.
func (c *Catalog) Lookup(name string) (domain.PackageRef, bool) {
	return c.set.Lookup(name)
}

// Set returns the resolved set this catalog serves.
func (c *Catalog) Set() domain.ResolvedSet {
	return c.set
}

// ReadContent returns the bytes of the file named by a
// "package:<name>/<path>" reference.
//
// A malformed reference fails before any filesystem or network access. A
// name outside the set yields ErrPackageNotFound, a missing file inside a
// served package yields ErrFileNotFound.
func (c *Catalog) ReadContent(ctx context.Context, reference string) ([]byte, error) {
	ref, err := domain.ParseReference(reference)
	if err != nil {
		return nil, err
	}

	// Fills happen only after a successful read, so a cached entry implies
	// the package is in the set.
	if data, ok := c.contents.Get(ref.String()); ok {
		return data, nil
	}

	pkg, ok := c.set.Lookup(ref.Package)
	if !ok {
		return nil, zerr.With(domain.ErrPackageNotFound, "package", ref.Package)
	}

	libDir, err := c.store.EnsureLibDir(ctx, pkg)
	if err != nil {
		return nil, err
	}

	target, err := securePath(libDir, ref.Path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		notFound := zerr.With(domain.ErrFileNotFound, "package", ref.Package)
		return nil, zerr.With(notFound, "path", ref.Path)
	}

	data, err := os.ReadFile(target) //nolint:gosec // target is verified to stay under the lib dir
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read package file")
	}

	c.contents.Add(ref.String(), data)
	return data, nil
}

// securePath joins rel under root, rejecting any joined path that leaves
// root. ParseReference already refuses climbing paths; the final platform
// path is re-checked here.
func securePath(root, rel string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(rel))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", zerr.With(domain.ErrInvalidReference, "path", rel)
	}
	return target, nil
}
