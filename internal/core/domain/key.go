package domain

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// NamesKey creates a deterministic key from a list of package names for
// request coalescing. Order and duplicates in the input do not affect the key.
func NamesKey(names []string) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	h := xxhash.New()
	for _, name := range sorted {
		_, _ = h.WriteString(name)
		_, _ = h.WriteString(";")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
