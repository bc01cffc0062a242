package domain

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// ResolvedSet is an ordered, duplicate-free collection of resolved package
// references. The zero value is the empty set, which is valid and distinct
// from a failed resolution.
type ResolvedSet struct {
	refs []PackageRef
}

// NewResolvedSet builds a set from refs, ordering by name then version and
// dropping exact duplicates.
func NewResolvedSet(refs ...PackageRef) ResolvedSet {
	sorted := make([]PackageRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	deduped := make([]PackageRef, 0, len(sorted))
	for i, r := range sorted {
		if i > 0 && r == sorted[i-1] {
			continue
		}
		deduped = append(deduped, r)
	}
	return ResolvedSet{refs: deduped}
}

// Len returns the number of references in the set.
func (s ResolvedSet) Len() int {
	return len(s.refs)
}

// Refs returns the references in set order. The returned slice is a copy.
func (s ResolvedSet) Refs() []PackageRef {
	out := make([]PackageRef, len(s.refs))
	copy(out, s.refs)
	return out
}

// Names returns the package names in set order.
func (s ResolvedSet) Names() []string {
	out := make([]string, len(s.refs))
	for i, r := range s.refs {
		out[i] = r.Name
	}
	return out
}

// Lookup scans the set for the first reference with the given name.
func (s ResolvedSet) Lookup(name string) (PackageRef, bool) {
	for _, r := range s.refs {
		if r.Name == name {
			return r, true
		}
	}
	return PackageRef{}, false
}

// SetKey returns a stable 16-hex-digit key over the set contents. Equal sets
// yield equal keys regardless of construction order.
func (s ResolvedSet) SetKey() string {
	h := xxhash.New()
	for _, r := range s.refs {
		_, _ = h.WriteString(r.String())
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
