// Package trigger defines the events that start a pipeline run.
// A trigger is constructed once per run and is immutable thereafter.
package trigger

// Kind identifies what started the pipeline run.
type Kind int8

const (
	// AutomaticCheck is a validation run for a commit. No tags are created,
	// nothing is published, and the resolved version is a snapshot sentinel.
	AutomaticCheck Kind = iota

	// ManualRelease is an operator-requested release run. It resolves the next
	// version, creates a tag, publishes the container image, and produces a
	// tagged release.
	ManualRelease
)

// String returns a human-readable string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case AutomaticCheck:
		return "automatic-check"
	case ManualRelease:
		return "manual-release"
	default:
		return "unknown"
	}
}

// ReleaseKind selects the release channel for a manual release.
type ReleaseKind int8

const (
	// Beta marks the release as a prerelease and publishes the image under
	// the "beta" moving tag.
	Beta ReleaseKind = iota

	// Stable marks the release as stable and publishes the image under the
	// "latest" moving tag.
	Stable
)

// String returns a human-readable string representation of the ReleaseKind.
func (k ReleaseKind) String() string {
	switch k {
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// ParseReleaseKind parses a release kind from its string form.
// It returns false if the input does not name a known kind.
func ParseReleaseKind(s string) (ReleaseKind, bool) {
	switch s {
	case "beta":
		return Beta, true
	case "stable":
		return Stable, true
	default:
		return 0, false
	}
}

// Event is the trigger input for one pipeline run.
// Release is only meaningful when Kind is ManualRelease.
type Event struct {
	Kind    Kind
	Release ReleaseKind
}

// Prerelease reports whether the run should be marked as a prerelease.
// It is true for every release kind except Stable.
func (e Event) Prerelease() bool {
	return e.Release != Stable
}
