package pub

import (
	"errors"
	"os"

	"go.trai.ch/pubkit/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// lockfile mirrors the subset of the tool's lock output we consume: the
// packages mapping with each entry's pinned version.
type lockfile struct {
	Packages map[string]lockedPackage `yaml:"packages"`
}

type lockedPackage struct {
	Version string `yaml:"version"`
}

// parseLockfile reads the lock document at path and converts its packages
// mapping into a ResolvedSet. An entry that fails reference validation fails
// the whole parse: a lockfile naming an invalid package means the tool run
// cannot be trusted.
func parseLockfile(path string) (domain.ResolvedSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is inside our own scratch dir
	if err != nil {
		return domain.ResolvedSet{}, zerr.With(errors.Join(domain.ErrResolutionFailed, err), "lockfile", path)
	}

	var lf lockfile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return domain.ResolvedSet{}, zerr.With(errors.Join(domain.ErrResolutionFailed, err), "lockfile", path)
	}

	refs := make([]domain.PackageRef, 0, len(lf.Packages))
	for name, locked := range lf.Packages {
		ref, err := domain.NewPackageRef(name, locked.Version)
		if err != nil {
			return domain.ResolvedSet{}, errors.Join(domain.ErrResolutionFailed, err)
		}
		refs = append(refs, ref)
	}
	return domain.NewResolvedSet(refs...), nil
}
