package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/input-output-hk/catalyst-forge-release/build"
	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

// ReleaseRecord is the durable description of a completed release. It is
// created exactly once per successful manual run, after the build and
// publish jobs have both reached terminal success.
type ReleaseRecord struct {
	// Version is the released version, e.g. "v1.2.4".
	Version string

	// TagName is the git tag created for the release.
	TagName string

	// Artifacts are the successfully built archives, sorted by name.
	Artifacts []build.Artifact

	// Manifest is the rendered checksum manifest.
	Manifest build.Manifest

	// ManifestPath is where the manifest file was written, if anywhere.
	ManifestPath string

	// Notes is the rendered release description.
	Notes string

	// Prerelease marks the release as a prerelease.
	Prerelease bool
}

// Report summarizes one pipeline run: the final state of every job, the
// failure causes, the skip reasons, and the release record when one was
// produced.
type Report struct {
	// RunID uniquely identifies the run across log output and the report.
	RunID string

	// Trigger is the event that started the run.
	Trigger trigger.Event

	// States holds the terminal state of every job.
	States map[JobID]JobState

	// Errors holds the failure cause of every failed job.
	Errors map[JobID]error

	// SkipReasons explains every skipped job.
	SkipReasons map[JobID]string

	// Record is the release record, nil unless the release job succeeded.
	Record *ReleaseRecord
}

// Succeeded reports whether no job failed. Skipped jobs do not count as
// failures; an automatic check run with its publish and release jobs gated
// out still succeeds.
func (r *Report) Succeeded() bool {
	for _, st := range r.States {
		if st == Failed {
			return false
		}
	}
	return true
}

// Err joins the failure causes of all failed jobs, in job-name order, or
// returns nil when the run succeeded.
func (r *Report) Err() error {
	ids := make([]JobID, 0, len(r.Errors))
	for id := range r.Errors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	errs := make([]error, 0, len(ids))
	for _, id := range ids {
		errs = append(errs, fmt.Errorf("job %s: %w", id, r.Errors[id]))
	}
	return errors.Join(errs...)
}
