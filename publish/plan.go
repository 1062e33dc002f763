package publish

import "github.com/input-output-hk/catalyst-forge-release/trigger"

// Moving tags applied alongside the version tag, selected by release kind.
const (
	betaTag   = "beta"
	latestTag = "latest"
)

// Plan is the derived set of image tags to push for one manual release.
// Exactly one Plan exists per manual release run.
type Plan struct {
	// Repository is the image repository, e.g. "ghcr.io/acme/forge-release".
	Repository string

	// Tags are the tags applied to the published index: the version tag plus
	// the release kind's moving tag.
	Tags []string
}

// NewPlan derives the publish plan from the release kind and version.
//
//	Beta   -> {version, "beta"}
//	Stable -> {version, "latest"}
func NewPlan(kind trigger.ReleaseKind, version, repository string) Plan {
	moving := betaTag
	if kind == trigger.Stable {
		moving = latestTag
	}
	return Plan{
		Repository: repository,
		Tags:       []string{version, moving},
	}
}

// References returns the fully qualified image references covered by the plan.
func (p Plan) References() []string {
	refs := make([]string, len(p.Tags))
	for i, tag := range p.Tags {
		refs[i] = p.Repository + ":" + tag
	}
	return refs
}
