package config

import (
	"os"
	"path/filepath"
)

// manifestName is the dependency manifest every releasable project must carry.
const manifestName = "go.mod"

// CheckProject verifies the project structure preconditions before any
// pipeline job runs: the dependency manifest must exist at the project root,
// and a buildable entrypoint must be present either at the root or under
// cmd/<binary>/.
//
// Returns ErrMissingManifest or ErrMissingEntrypoint on failure. Both are
// fatal at the pipeline level.
func (c *Config) CheckProject() error {
	manifest := filepath.Join(c.ProjectDir, manifestName)
	if _, err := os.Stat(manifest); err != nil {
		return WrapErrorf(ErrMissingManifest, "checked %s", manifest)
	}

	candidates := []string{
		filepath.Join(c.ProjectDir, "main.go"),
		filepath.Join(c.ProjectDir, "cmd", c.BinaryName, "main.go"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return nil
		}
	}

	return WrapErrorf(ErrMissingEntrypoint, "checked %s", candidates)
}

// EntrypointPackage returns the package path passed to the build step,
// relative to the project directory.
func (c *Config) EntrypointPackage() string {
	cmdMain := filepath.Join(c.ProjectDir, "cmd", c.BinaryName, "main.go")
	if _, err := os.Stat(cmdMain); err == nil {
		return "./cmd/" + c.BinaryName
	}
	return "."
}
