// Package fs walks directory trees for Dart source files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// Walker yields Dart source files from directory trees.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkSources yields every .dart file under root in lexical order. Hidden
// directories and build output are never descended into, except when root
// itself carries such a name. Walk errors end the sequence; callers treat an
// unreadable subtree as empty.
func (w *Walker) WalkSources(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), ".dart") {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// skipDir reports whether a directory holds no sources worth scanning:
// dot directories (.git, .dart_tool, editor state) and build output.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "build"
}
