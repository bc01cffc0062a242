package domain

import (
	"regexp"

	"go.trai.ch/zerr"
)

var (
	nameRe    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	versionRe = regexp.MustCompile(`^[A-Za-z0-9_.+-]+$`)
)

// PackageRef identifies a single package pinned to an exact version.
type PackageRef struct {
	// Name is the bare package name (e.g. "collection").
	Name string

	// Version is the pinned version string (e.g. "1.19.1").
	Version string
}

// NewPackageRef validates name and version and returns the reference.
// Names are restricted to [A-Za-z0-9_], versions to [A-Za-z0-9_.+-];
// neither may be empty, so a constructed reference can never smuggle a
// path separator into the cache layout.
func NewPackageRef(name, version string) (PackageRef, error) {
	if !nameRe.MatchString(name) {
		return PackageRef{}, zerr.With(ErrInvalidName, "name", name)
	}
	if !versionRe.MatchString(version) {
		err := zerr.With(ErrInvalidVersion, "name", name)
		err = zerr.With(err, "version", version)
		return PackageRef{}, err
	}
	return PackageRef{Name: name, Version: version}, nil
}

// String renders the cache entry basename for the reference, "name-version".
func (r PackageRef) String() string {
	return r.Name + "-" + r.Version
}

// ArchiveName returns the upstream archive filename for the reference.
func (r PackageRef) ArchiveName() string {
	return r.String() + ".tar.gz"
}

// Less orders references by name, then by version.
func (r PackageRef) Less(other PackageRef) bool {
	if r.Name != other.Name {
		return r.Name < other.Name
	}
	return r.Version < other.Version
}

// ValidName reports whether s is usable as a bare package name.
func ValidName(s string) bool {
	return nameRe.MatchString(s)
}
