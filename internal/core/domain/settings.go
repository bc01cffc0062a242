package domain

import "time"

// Settings carries the subsystem configuration consumed by the adapters.
// The config loader fills absent fields with defaults and validates the rest.
type Settings struct {
	// Enabled selects the real resolver and store. When false the no-op
	// variants are wired instead and package support is absent.
	Enabled bool

	// Tool is the external resolution tool executable (e.g. "pub").
	Tool string

	// CacheDir is the content cache root directory.
	CacheDir string

	// ArchiveURL is the base URL packages archives are fetched from, without
	// a trailing slash.
	ArchiveURL string

	// ResolveTimeout caps a single resolution tool run.
	ResolveTimeout time.Duration

	// HTTPTimeout caps a single archive download.
	HTTPTimeout time.Duration

	// Parallelism bounds concurrent cache fills during warm-up.
	Parallelism int

	// KeepArchives persists raw downloaded archives beside the entry dirs.
	// Their presence is informational only and never consulted as a cache
	// hit signal.
	KeepArchives bool
}
