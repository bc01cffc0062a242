// Package archive implements the disk-backed package content store. Entries
// live at {root}/{name}-{version} and are created by downloading and
// extracting the package's tar.gz archive; the existence of an entry's lib
// directory is the sole cached-or-not signal.
package archive

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var _ ports.LibraryStore = (*Store)(nil)

// Store implements ports.LibraryStore against a local cache root.
type Store struct {
	settings  domain.Settings
	client    *http.Client
	logger    ports.Logger
	telemetry ports.Telemetry

	root    string
	journal *journal

	// mu makes Flush exclusive with EnsureLibDir; fetchGroup collapses
	// concurrent misses for the same entry into one download.
	mu         sync.RWMutex
	fetchGroup singleflight.Group
}

// NewStore creates a Store rooted at settings.CacheDir, or at a fresh
// process-lifetime temporary directory when no cache dir is configured.
func NewStore(settings domain.Settings, logger ports.Logger, telemetry ports.Telemetry) (*Store, error) {
	root := settings.CacheDir
	if root == "" {
		tmp, err := os.MkdirTemp("", "pubkit-cache-")
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create cache root")
		}
		root = tmp
	} else {
		root = filepath.Clean(root)
		if err := os.MkdirAll(root, dirPerm); err != nil {
			return nil, zerr.Wrap(err, "failed to create cache root")
		}
	}

	j, err := newJournal(filepath.Join(root, journalName))
	if err != nil {
		return nil, err
	}

	return &Store{
		settings:  settings,
		client:    &http.Client{Timeout: settings.HTTPTimeout},
		logger:    logger,
		telemetry: telemetry,
		root:      root,
		journal:   j,
	}, nil
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// EnsureLibDir makes the lib directory for ref available locally and returns
// its absolute path. A hit touches no network. On a miss the archive is
// downloaded and extracted; concurrent misses for the same ref share one
// fetch.
func (s *Store) EnsureLibDir(ctx context.Context, ref domain.PackageRef) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	libDir := filepath.Join(s.root, ref.String(), "lib")
	if dirExists(libDir) {
		_, vertex := s.telemetry.Record(ctx, "fetch: "+ref.String())
		vertex.Cached()
		vertex.Complete(nil)
		return libDir, nil
	}

	_, err, _ := s.fetchGroup.Do(ref.String(), func() (any, error) {
		// A lost race still wins: the flight that got here first may have
		// populated the entry already.
		if dirExists(libDir) {
			return nil, nil
		}
		return nil, s.fetch(ctx, ref)
	})
	if err != nil {
		return "", err
	}
	return libDir, nil
}

// Flush removes the entire cache root and recreates it empty. This is the
// only deletion path; it waits for in-flight extractions to finish and
// blocks new ones while it runs.
func (s *Store) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.root); err != nil {
		return zerr.Wrap(err, "failed to remove cache root")
	}
	if err := os.MkdirAll(s.root, dirPerm); err != nil {
		return zerr.Wrap(err, "failed to recreate cache root")
	}
	s.journal.reset()
	return nil
}

func (s *Store) fetch(ctx context.Context, ref domain.PackageRef) error {
	ctx, vertex := s.telemetry.Record(ctx, "fetch: "+ref.String())

	if err := s.fetchArchive(ctx, vertex, ref); err != nil {
		vertex.Complete(err)
		return err
	}
	vertex.Complete(nil)
	return nil
}

// fetchArchive downloads, verifies and installs one cache entry. Extraction
// happens in a staging directory inside the root so a completed entry
// appears in a single rename.
func (s *Store) fetchArchive(ctx context.Context, vertex ports.Vertex, ref domain.PackageRef) error {
	url := s.settings.ArchiveURL + "/" + ref.ArchiveName()
	vertex.Log(domain.LogLevelInfo, "GET "+url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrFetchFailed, err), "url", url)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrFetchFailed, err), "url", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		fetchErr := zerr.With(domain.ErrFetchFailed, "url", url)
		return zerr.With(fetchErr, "status_code", resp.StatusCode)
	}

	counting := &countingReader{r: resp.Body}
	var body io.Reader = counting

	var rawArchive *os.File
	if s.settings.KeepArchives {
		rawArchive, err = os.CreateTemp(s.root, ".archive-*")
		if err != nil {
			return zerr.Wrap(err, "failed to create archive file")
		}
		defer func() {
			_ = rawArchive.Close()
			_ = os.Remove(rawArchive.Name())
		}()
		body = io.TeeReader(counting, rawArchive)
	}

	staging, err := os.MkdirTemp(s.root, ".staging-")
	if err != nil {
		return zerr.Wrap(err, "failed to create staging dir")
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	if err := extractTarGz(body, staging); err != nil {
		return zerr.With(errors.Join(domain.ErrFetchFailed, err), "url", url)
	}

	// The extracted tree must carry a lib directory; anything else is not a
	// usable package archive.
	if !dirExists(filepath.Join(staging, "lib")) {
		fetchErr := zerr.With(domain.ErrFetchFailed, "url", url)
		return zerr.With(fetchErr, "reason", "archive has no lib directory")
	}

	entryDir := filepath.Join(s.root, ref.String())
	if err := os.Rename(staging, entryDir); err != nil {
		if dirExists(filepath.Join(entryDir, "lib")) {
			return nil // another process installed the entry first
		}
		_ = os.RemoveAll(entryDir) // leftovers of a crashed extraction
		if err := os.Rename(staging, entryDir); err != nil {
			return zerr.Wrap(err, "failed to move entry into place")
		}
	}

	if rawArchive != nil {
		if closeErr := rawArchive.Close(); closeErr == nil {
			if renameErr := os.Rename(rawArchive.Name(), filepath.Join(s.root, ref.ArchiveName())); renameErr != nil {
				s.logger.Warn("failed to keep raw archive: " + renameErr.Error())
			}
		}
	}

	if err := s.journal.record(domain.ArchiveInfo{
		Name:      ref.Name,
		Version:   ref.Version,
		URL:       url,
		Size:      counting.n,
		FetchedAt: time.Now().UTC(),
	}); err != nil {
		// The journal is diagnostics, not correctness.
		s.logger.Warn("failed to record archive journal entry: " + err.Error())
	}

	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// countingReader counts bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
