package pipeline

import (
	"fmt"
	"sort"

	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

// Gate decides whether a job participates in the run for the given trigger
// event. Gates are evaluated before dependency states are considered, so a
// gated-out job is Skipped even when all of its dependencies succeed.
type Gate func(ev trigger.Event) bool

// Graph is the static job dependency graph. Edges and gates are fixed at
// construction; the scheduler never mutates the graph.
type Graph struct {
	deps  map[JobID][]JobID
	gates map[JobID]Gate
}

// NewGraph creates a graph from an explicit edge set. Each entry maps a job
// to the jobs it depends on; roots map to an empty slice.
func NewGraph(deps map[JobID][]JobID, gates map[JobID]Gate) *Graph {
	return &Graph{deps: deps, gates: gates}
}

// DefaultGraph returns the release pipeline's job graph.
//
// Version and Lint are roots. Build and Publish each depend on both roots
// but not on each other, so a build failure cannot skip the publish job.
// Release joins everything. Publish and Release only run for manual release
// triggers.
func DefaultGraph() *Graph {
	manualOnly := func(ev trigger.Event) bool {
		return ev.Kind == trigger.ManualRelease
	}

	return NewGraph(
		map[JobID][]JobID{
			JobVersion: {},
			JobLint:    {},
			JobBuild:   {JobVersion, JobLint},
			JobPublish: {JobVersion, JobLint},
			JobRelease: {JobVersion, JobBuild, JobPublish},
		},
		map[JobID]Gate{
			JobPublish: manualOnly,
			JobRelease: manualOnly,
		},
	)
}

// Jobs returns every job in the graph in a stable order.
func (g *Graph) Jobs() []JobID {
	ids := make([]JobID, 0, len(g.deps))
	for id := range g.deps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Deps returns the dependencies of the given job.
func (g *Graph) Deps(id JobID) []JobID {
	return g.deps[id]
}

// Enabled reports whether the job's gate admits it for the given event.
// Jobs without a gate are always enabled.
func (g *Graph) Enabled(id JobID, ev trigger.Event) bool {
	gate, ok := g.gates[id]
	if !ok {
		return true
	}
	return gate(ev)
}

// Validate checks that every edge points at a known job and that the graph
// is acyclic.
func (g *Graph) Validate() error {
	for id, deps := range g.deps {
		for _, dep := range deps {
			if _, ok := g.deps[dep]; !ok {
				return fmt.Errorf("job %s depends on unknown job %s", id, dep)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[JobID]int, len(g.deps))

	var visit func(id JobID) error
	visit = func(id JobID) error {
		switch marks[id] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle through job %s", id)
		}
		marks[id] = visiting
		for _, dep := range g.deps[id] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		marks[id] = done
		return nil
	}

	for _, id := range g.Jobs() {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
