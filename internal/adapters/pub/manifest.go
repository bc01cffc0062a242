package pub

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	manifestName = "pubspec.yaml"
	lockfileName = "pubspec.lock"

	// scratchPackage names the synthetic package declared by the generated
	// manifest. The tool requires a name; nothing else ever sees it.
	scratchPackage = "pubkit_scratch"

	// sdkConstraint keeps the generated manifest acceptable to current tool
	// releases, which refuse manifests without an environment stanza.
	sdkConstraint = "^3.0.0"

	filePerm = 0o644
)

// manifest mirrors the subset of the tool's manifest format we generate.
type manifest struct {
	Name         string              `yaml:"name"`
	Environment  manifestEnvironment `yaml:"environment"`
	Dependencies map[string]string   `yaml:"dependencies,omitempty"`
}

type manifestEnvironment struct {
	SDK string `yaml:"sdk"`
}

// writeScratchManifest materializes a minimal manifest in dir declaring every
// requested package with an unconstrained version requirement.
func writeScratchManifest(dir string, names []string) error {
	deps := make(map[string]string, len(names))
	for _, name := range names {
		deps[name] = "any"
	}

	data, err := yaml.Marshal(manifest{
		Name:         scratchPackage,
		Environment:  manifestEnvironment{SDK: sdkConstraint},
		Dependencies: deps,
	})
	if err != nil {
		return zerr.Wrap(err, "failed to marshal scratch manifest")
	}

	if err := os.WriteFile(filepath.Join(dir, manifestName), data, filePerm); err != nil {
		return zerr.Wrap(err, "failed to write scratch manifest")
	}
	return nil
}
