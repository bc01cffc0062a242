package ports

import (
	"context"

	"go.trai.ch/pubkit/internal/core/domain"
)

// LibraryStore caches package contents on local disk.
//
// Entries live at {root}/{name}-{version}; the existence of the entry's lib
// directory is the sole cached-or-not signal.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type LibraryStore interface {
	// EnsureLibDir makes the lib directory for ref available locally,
	// fetching and extracting the package archive on a miss, and returns its
	// absolute path.
	EnsureLibDir(ctx context.Context, ref domain.PackageRef) (string, error)

	// Flush removes every cached entry and leaves the store empty. It is the
	// only operation that deletes cached content.
	Flush(ctx context.Context) error

	// Root returns the cache root directory.
	Root() string
}
