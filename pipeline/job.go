// Package pipeline is the DAG executor that sequences the release jobs
// under dependency and conditional-gate rules. The scheduler is the only
// component allowed to transition job states.
package pipeline

// JobID identifies one job in the pipeline graph.
type JobID string

// The fixed job set.
const (
	JobVersion JobID = "version"
	JobLint    JobID = "lint"
	JobBuild   JobID = "build"
	JobPublish JobID = "publish"
	JobRelease JobID = "release"
)

// JobState is the lifecycle state of one job.
// Transitions: Pending -> Running -> {Succeeded, Failed}, or
// Pending -> Skipped when the job is gated out or a dependency did not
// succeed. Succeeded, Failed, and Skipped are terminal.
type JobState int8

const (
	// Pending means the job has not started.
	Pending JobState = iota

	// Running means the job is currently executing.
	Running

	// Succeeded means the job completed without error.
	Succeeded

	// Failed means the job returned an error or exceeded its time budget.
	Failed

	// Skipped means the job never ran: either its gate closed it for this
	// trigger, or a dependency failed. A failed dependency produces Skipped,
	// not Failed, so gating and failure propagation stay distinguishable
	// through the recorded skip reason.
	Skipped
)

// String returns a human-readable string representation of the JobState.
func (s JobState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is terminal.
func (s JobState) Terminal() bool {
	return s == Succeeded || s == Failed || s == Skipped
}
