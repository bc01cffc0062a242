package domain

import "time"

// ArchiveInfo records one completed archive download. The store keeps these
// in a journal beside the cache entries for diagnostics; the journal is never
// consulted when deciding whether an entry is cached.
type ArchiveInfo struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Ref returns the package reference the archive belongs to.
func (a ArchiveInfo) Ref() PackageRef {
	return PackageRef{Name: a.Name, Version: a.Version}
}
