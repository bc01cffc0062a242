package archive

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/zerr"
)

const journalName = "archives.json"

// journal persists a record of completed downloads beside the cache entries.
// It is diagnostics only and is never consulted to answer cache hits.
type journal struct {
	path    string
	mu      sync.Mutex
	entries []domain.ArchiveInfo
}

func newJournal(path string) (*journal, error) {
	j := &journal{path: filepath.Clean(path)}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *journal) load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read archive journal")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &j.entries); err != nil {
		return zerr.Wrap(err, "failed to unmarshal archive journal")
	}

	return nil
}

func (j *journal) record(info domain.ArchiveInfo) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, info)
	return j.save()
}

// reset drops the in-memory entries. The backing file is gone along with the
// cache root after a flush; the next record rewrites it.
func (j *journal) reset() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = nil
}

func (j *journal) save() error {
	data, err := json.MarshalIndent(j.entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal archive journal")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(j.path, data, filePerm); err != nil {
		return zerr.Wrap(err, "failed to write archive journal")
	}

	return nil
}
