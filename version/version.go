// Package version derives the release version for a pipeline run from the
// trigger event and the repository's tag history.
//
// Versions follow the vMAJOR.MINOR.PATCH convention. Snapshot versions exist
// only for automatic check runs; they are never persisted as tags. Persisted
// versions strictly increase the patch component relative to the latest
// reachable tag.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrVersionParse is returned when an existing tag cannot be parsed as a
// vMAJOR.MINOR.PATCH version. This is fatal at the pipeline level.
var ErrVersionParse = errors.New("malformed version tag")

// snapshotQualifier marks the non-persisted sentinel version.
const snapshotQualifier = "snapshot"

// Version is an ordered (major, minor, patch) triple. Snapshot versions are
// sentinels for automatic check runs and must never be tagged.
type Version struct {
	Major    uint64
	Minor    uint64
	Patch    uint64
	Snapshot bool
}

// Snapshot returns the fixed non-persisted sentinel version used for
// automatic check runs.
func Snapshot() Version {
	return Version{Snapshot: true}
}

// Parse parses a tag of the form "vMAJOR.MINOR.PATCH" (the leading "v" is
// optional). It returns ErrVersionParse if any component is non-numeric or
// missing.
func Parse(tag string) (Version, error) {
	raw := strings.TrimPrefix(tag, "v")

	sv, err := semver.StrictNewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q: %v", ErrVersionParse, tag, err)
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return Version{}, fmt.Errorf("%w: %q: prerelease or metadata not allowed in tags", ErrVersionParse, tag)
	}

	return Version{Major: sv.Major(), Minor: sv.Minor(), Patch: sv.Patch()}, nil
}

// NextPatch returns the version with the patch component incremented.
func (v Version) NextPatch() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// String formats the version as a tag name, e.g. "v1.2.4" or
// "v0.0.0-snapshot" for the sentinel.
func (v Version) String() string {
	if v.Snapshot {
		return fmt.Sprintf("v%d.%d.%d-%s", v.Major, v.Minor, v.Patch, snapshotQualifier)
	}
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// TagName returns the git tag name for the version. Snapshot versions have
// no tag name; callers must not tag them.
func (v Version) TagName() string {
	return v.String()
}
