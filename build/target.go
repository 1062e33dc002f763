// Package build fans a release build across the configured OS × architecture
// matrix, packages each produced executable into an archive, and aggregates
// the per-target results into a publishable artifact set.
//
// The matrix is fail-isolated: one target's failure is recorded as a result
// and never cancels or blocks sibling targets.
package build

import (
	"fmt"
	"strings"
)

// windowsExecSuffix is the executable suffix appended for windows targets.
const windowsExecSuffix = ".exe"

// Target is one (OS, architecture) pair to compile and package
// independently. Targets have no ordering relationship.
type Target struct {
	OS   string
	Arch string
}

// ParseTarget parses a "<os>/<arch>" pair.
func ParseTarget(s string) (Target, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Target{}, fmt.Errorf("%w: %q (want <os>/<arch>)", ErrInvalidTarget, s)
	}
	return Target{OS: parts[0], Arch: parts[1]}, nil
}

// ParseTargets parses a list of "<os>/<arch>" pairs, rejecting duplicates.
func ParseTargets(specs []string) ([]Target, error) {
	seen := make(map[Target]struct{}, len(specs))
	targets := make([]Target, 0, len(specs))
	for _, s := range specs {
		t, err := ParseTarget(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			return nil, fmt.Errorf("%w: duplicate target %q", ErrInvalidTarget, s)
		}
		seen[t] = struct{}{}
		targets = append(targets, t)
	}
	return targets, nil
}

// String returns the "<os>/<arch>" form of the target.
func (t Target) String() string {
	return t.OS + "/" + t.Arch
}

// ExecutableName returns the platform-specific executable name for the given
// binary base name. Only windows targets carry a suffix.
func (t Target) ExecutableName(base string) string {
	if t.OS == "windows" {
		return base + windowsExecSuffix
	}
	return base
}

// ArchiveName returns the archive file name for this target:
// <binaryName>-<version>-<os>-<arch>.<archiveExt>.
func (t Target) ArchiveName(base, version, ext string) string {
	return fmt.Sprintf("%s-%s-%s-%s.%s", base, version, t.OS, t.Arch, ext)
}
