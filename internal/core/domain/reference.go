package domain

import (
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// ReferenceScheme is the prefix of a package file reference.
const ReferenceScheme = "package:"

// Reference names a single file inside a package's lib directory using the
// "package:<name>/<path>" syntax.
type Reference struct {
	// Package is the bare package name.
	Package string

	// Path is the slash-separated file path relative to the lib directory.
	Path string
}

// ParseReference parses s into a Reference.
//
// The string must carry the package: scheme, a valid package name, and a
// non-empty relative path. Paths that climb out of the package or that are
// absolute are rejected here, before any filesystem access happens.
func ParseReference(s string) (Reference, error) {
	rest, ok := strings.CutPrefix(s, ReferenceScheme)
	if !ok {
		return Reference{}, zerr.With(ErrInvalidReference, "reference", s)
	}

	name, file, ok := strings.Cut(rest, "/")
	if !ok || file == "" {
		return Reference{}, zerr.With(zerr.Wrap(ErrInvalidReference, "missing file path"), "reference", s)
	}
	if !nameRe.MatchString(name) {
		return Reference{}, zerr.With(zerr.Wrap(ErrInvalidReference, "bad package name"), "reference", s)
	}

	cleaned := path.Clean(file)
	if path.IsAbs(cleaned) || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return Reference{}, zerr.With(zerr.Wrap(ErrInvalidReference, "path escapes package"), "reference", s)
	}

	return Reference{Package: name, Path: cleaned}, nil
}

// String renders the canonical reference form.
func (r Reference) String() string {
	return ReferenceScheme + r.Package + "/" + r.Path
}
