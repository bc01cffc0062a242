package archive_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/pubkit/internal/adapters/archive"
	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/pubkit/internal/core/ports"
	"go.trai.ch/pubkit/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// buildArchive assembles an in-memory tar.gz. Entry names ending in a slash
// become directory headers.
func buildArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzWriter)

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.HasSuffix(name, "/") {
			require.NoError(t, tarWriter.WriteHeader(&tar.Header{
				Name:     name,
				Typeflag: tar.TypeDir,
				Mode:     0o755,
			}))
			continue
		}
		content := entries[name]
		require.NoError(t, tarWriter.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(content)),
		}))
		_, err := tarWriter.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzWriter.Close())
	return buf.Bytes()
}

// fakeRegistry serves canned archives by URL path and counts requests.
type fakeRegistry struct {
	mu       sync.Mutex
	requests map[string]int
	archives map[string][]byte
	delay    time.Duration
}

func newFakeRegistry(archives map[string][]byte) *fakeRegistry {
	return &fakeRegistry{
		requests: make(map[string]int),
		archives: archives,
	}
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path]++
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	body, ok := f.archives[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_, _ = w.Write(body)
}

func (f *fakeRegistry) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func storeSettings(t *testing.T, archiveURL string) domain.Settings {
	t.Helper()
	return domain.Settings{
		Enabled:     true,
		CacheDir:    t.TempDir(),
		ArchiveURL:  archiveURL,
		HTTPTimeout: 5 * time.Second,
	}
}

// passiveLogger returns a logger mock that tolerates any logging.
func passiveLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

// passiveTelemetry returns a telemetry mock whose vertices accept anything.
func passiveTelemetry(ctrl *gomock.Controller) *mocks.MockTelemetry {
	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Stdout().Return(io.Discard).AnyTimes()
	vertex.EXPECT().Stderr().Return(io.Discard).AnyTimes()
	vertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	vertex.EXPECT().Cached().AnyTimes()

	tel := mocks.NewMockTelemetry(ctrl)
	tel.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
			return ctx, vertex
		}).AnyTimes()
	return tel
}

func newTestStore(t *testing.T, ctrl *gomock.Controller, settings domain.Settings) *archive.Store {
	t.Helper()
	store, err := archive.NewStore(settings, passiveLogger(ctrl), passiveTelemetry(ctrl))
	require.NoError(t, err)
	return store
}

func mustRef(t *testing.T, name, version string) domain.PackageRef {
	t.Helper()
	ref, err := domain.NewPackageRef(name, version)
	require.NoError(t, err)
	return ref
}

func TestStore_EnsureLibDir_FetchesAndExtracts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := newFakeRegistry(map[string][]byte{
		"/collection-1.19.1.tar.gz": buildArchive(t, map[string]string{
			"lib/":                   "",
			"lib/collection.dart":    "library collection;\n",
			"lib/src/":               "",
			"lib/src/iterables.dart": "part of collection;\n",
			"README.md":              "# collection\n",
		}),
	})
	server := httptest.NewServer(registry)
	defer server.Close()

	store := newTestStore(t, ctrl, storeSettings(t, server.URL))
	ref := mustRef(t, "collection", "1.19.1")

	libDir, err := store.EnsureLibDir(context.Background(), ref)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(store.Root(), "collection-1.19.1", "lib"), libDir)

	content, err := os.ReadFile(filepath.Join(libDir, "collection.dart"))
	require.NoError(t, err)
	require.Equal(t, "library collection;\n", string(content))

	nested, err := os.ReadFile(filepath.Join(libDir, "src", "iterables.dart"))
	require.NoError(t, err)
	require.Equal(t, "part of collection;\n", string(nested))

	require.Equal(t, 1, registry.count("/collection-1.19.1.tar.gz"))

	journal, err := os.ReadFile(filepath.Join(store.Root(), "archives.json"))
	require.NoError(t, err)
	require.Contains(t, string(journal), "collection")
}

func TestStore_EnsureLibDir_HitSkipsNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := newFakeRegistry(map[string][]byte{
		"/meta-1.16.0.tar.gz": buildArchive(t, map[string]string{
			"lib/meta.dart": "library meta;\n",
		}),
	})
	server := httptest.NewServer(registry)
	defer server.Close()

	store := newTestStore(t, ctrl, storeSettings(t, server.URL))
	ref := mustRef(t, "meta", "1.16.0")

	first, err := store.EnsureLibDir(context.Background(), ref)
	require.NoError(t, err)

	second, err := store.EnsureLibDir(context.Background(), ref)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, registry.count("/meta-1.16.0.tar.gz"))
}

func TestStore_EnsureLibDir_HitMarksVertexCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := newFakeRegistry(map[string][]byte{
		"/meta-1.16.0.tar.gz": buildArchive(t, map[string]string{
			"lib/meta.dart": "library meta;\n",
		}),
	})
	server := httptest.NewServer(registry)
	defer server.Close()

	fetchVertex := mocks.NewMockVertex(ctrl)
	fetchVertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	fetchVertex.EXPECT().Complete(gomock.Nil()).Times(1)

	hitVertex := mocks.NewMockVertex(ctrl)
	hitVertex.EXPECT().Cached().Times(1)
	hitVertex.EXPECT().Complete(gomock.Nil()).Times(1)

	tel := mocks.NewMockTelemetry(ctrl)
	gomock.InOrder(
		tel.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
				return ctx, fetchVertex
			}),
		tel.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
				return ctx, hitVertex
			}),
	)

	store, err := archive.NewStore(storeSettings(t, server.URL), passiveLogger(ctrl), tel)
	require.NoError(t, err)
	ref := mustRef(t, "meta", "1.16.0")

	_, err = store.EnsureLibDir(context.Background(), ref)
	require.NoError(t, err)
	_, err = store.EnsureLibDir(context.Background(), ref)
	require.NoError(t, err)
}

func TestStore_EnsureLibDir_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(newFakeRegistry(nil))
	defer server.Close()

	store := newTestStore(t, ctrl, storeSettings(t, server.URL))
	ref := mustRef(t, "missing", "1.0.0")

	_, err := store.EnsureLibDir(context.Background(), ref)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrFetchFailed)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	require.Equal(t, http.StatusNotFound, zErr.Metadata()["status_code"])

	_, statErr := os.Stat(filepath.Join(store.Root(), "missing-1.0.0"))
	require.True(t, os.IsNotExist(statErr))
}

func TestStore_EnsureLibDir_MalformedArchive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := newFakeRegistry(map[string][]byte{
		"/nolib-1.0.0.tar.gz": buildArchive(t, map[string]string{
			"README.md": "no lib dir in here\n",
		}),
		"/garbage-1.0.0.tar.gz": []byte("this is not a gzip stream"),
	})
	server := httptest.NewServer(registry)
	defer server.Close()

	store := newTestStore(t, ctrl, storeSettings(t, server.URL))

	_, err := store.EnsureLibDir(context.Background(), mustRef(t, "nolib", "1.0.0"))
	require.ErrorIs(t, err, domain.ErrFetchFailed)

	_, err = store.EnsureLibDir(context.Background(), mustRef(t, "garbage", "1.0.0"))
	require.ErrorIs(t, err, domain.ErrFetchFailed)

	// Neither failure may leave a half-built entry behind.
	_, statErr := os.Stat(filepath.Join(store.Root(), "nolib-1.0.0"))
	require.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(store.Root(), "garbage-1.0.0"))
	require.True(t, os.IsNotExist(statErr))
}

func TestStore_EnsureLibDir_RejectsTraversal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := newFakeRegistry(map[string][]byte{
		"/evil-1.0.0.tar.gz": buildArchive(t, map[string]string{
			"lib/ok.dart":  "library ok;\n",
			"../evil.dart": "library evil;\n",
		}),
	})
	server := httptest.NewServer(registry)
	defer server.Close()

	settings := storeSettings(t, server.URL)
	store := newTestStore(t, ctrl, settings)

	_, err := store.EnsureLibDir(context.Background(), mustRef(t, "evil", "1.0.0"))
	require.ErrorIs(t, err, domain.ErrFetchFailed)

	// Nothing may have escaped the staging dir, and no entry was installed.
	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	for _, entry := range entries {
		require.NotEqual(t, "evil.dart", entry.Name())
		require.NotEqual(t, "evil-1.0.0", entry.Name())
	}
}

func TestStore_Flush_RemovesEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := newFakeRegistry(map[string][]byte{
		"/meta-1.16.0.tar.gz": buildArchive(t, map[string]string{
			"lib/meta.dart": "library meta;\n",
		}),
	})
	server := httptest.NewServer(registry)
	defer server.Close()

	store := newTestStore(t, ctrl, storeSettings(t, server.URL))
	ref := mustRef(t, "meta", "1.16.0")

	libDir, err := store.EnsureLibDir(context.Background(), ref)
	require.NoError(t, err)

	require.NoError(t, store.Flush(context.Background()))

	_, statErr := os.Stat(libDir)
	require.True(t, os.IsNotExist(statErr))
	require.DirExists(t, store.Root())

	// The next request fetches again and starts a fresh journal.
	_, err = store.EnsureLibDir(context.Background(), ref)
	require.NoError(t, err)
	require.Equal(t, 2, registry.count("/meta-1.16.0.tar.gz"))

	data, err := os.ReadFile(filepath.Join(store.Root(), "archives.json"))
	require.NoError(t, err)
	var infos []domain.ArchiveInfo
	require.NoError(t, json.Unmarshal(data, &infos))
	require.Len(t, infos, 1)
}

func TestStore_EnsureLibDir_CoalescesConcurrentFetches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := newFakeRegistry(map[string][]byte{
		"/meta-1.16.0.tar.gz": buildArchive(t, map[string]string{
			"lib/meta.dart": "library meta;\n",
		}),
	})
	registry.delay = 50 * time.Millisecond
	server := httptest.NewServer(registry)
	defer server.Close()

	store := newTestStore(t, ctrl, storeSettings(t, server.URL))
	ref := mustRef(t, "meta", "1.16.0")

	const callers = 8
	paths := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = store.EnsureLibDir(context.Background(), ref)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, paths[0], paths[i])
	}
	require.Equal(t, 1, registry.count("/meta-1.16.0.tar.gz"))
}

func TestStore_KeepArchives(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	archiveBytes := buildArchive(t, map[string]string{
		"lib/meta.dart": "library meta;\n",
	})
	registry := newFakeRegistry(map[string][]byte{
		"/meta-1.16.0.tar.gz": archiveBytes,
	})
	server := httptest.NewServer(registry)
	defer server.Close()

	settings := storeSettings(t, server.URL)
	settings.KeepArchives = true
	store := newTestStore(t, ctrl, settings)

	_, err := store.EnsureLibDir(context.Background(), mustRef(t, "meta", "1.16.0"))
	require.NoError(t, err)

	kept, err := os.ReadFile(filepath.Join(store.Root(), "meta-1.16.0.tar.gz"))
	require.NoError(t, err)
	require.Equal(t, archiveBytes, kept)
}

func TestNewStore_TemporaryRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := domain.Settings{Enabled: true, HTTPTimeout: time.Second}
	store, err := archive.NewStore(settings, passiveLogger(ctrl), passiveTelemetry(ctrl))
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(store.Root()) })

	require.NotEmpty(t, store.Root())
	require.DirExists(t, store.Root())
}
