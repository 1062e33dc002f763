package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

// JobFunc is the body of one job. It runs at most once per scheduler run
// and reports success or failure through its error return.
type JobFunc func(ctx context.Context) error

// Scheduler executes a job graph concurrently. Each job starts as soon as
// all of its dependencies are terminal; independent jobs run in parallel.
// The scheduler is the single writer of job states.
type Scheduler struct {
	graph   *Graph
	funcs   map[JobID]JobFunc
	timeout time.Duration
	log     *slog.Logger

	mu          sync.Mutex
	states      map[JobID]JobState
	errs        map[JobID]error
	skipReasons map[JobID]string
}

// NewScheduler creates a scheduler for the given graph and job bodies.
// Every job in the graph must have a body. A non-zero timeout bounds each
// job's execution individually.
func NewScheduler(graph *Graph, funcs map[JobID]JobFunc, timeout time.Duration, log *slog.Logger) (*Scheduler, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	for _, id := range graph.Jobs() {
		if funcs[id] == nil {
			return nil, fmt.Errorf("no body for job %s", id)
		}
	}
	if log == nil {
		log = slog.Default()
	}

	states := make(map[JobID]JobState, len(funcs))
	for _, id := range graph.Jobs() {
		states[id] = Pending
	}

	return &Scheduler{
		graph:       graph,
		funcs:       funcs,
		timeout:     timeout,
		log:         log,
		states:      states,
		errs:        make(map[JobID]error),
		skipReasons: make(map[JobID]string),
	}, nil
}

// Run executes the graph to completion for the given trigger event and
// returns once every job is terminal. A failed or skipped dependency skips
// its dependents; it never cancels jobs on other branches.
func (s *Scheduler) Run(ctx context.Context, ev trigger.Event) {
	done := make(map[JobID]chan struct{}, len(s.states))
	for id := range s.states {
		done[id] = make(chan struct{})
	}

	var wg sync.WaitGroup
	for _, id := range s.graph.Jobs() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(done[id])
			s.runJob(ctx, ev, id, done)
		}()
	}
	wg.Wait()
}

// runJob waits for the job's dependencies and executes it, or marks it
// Skipped when its gate is closed or a dependency did not succeed.
func (s *Scheduler) runJob(ctx context.Context, ev trigger.Event, id JobID, done map[JobID]chan struct{}) {
	for _, dep := range s.graph.Deps(id) {
		<-done[dep]
	}

	if !s.graph.Enabled(id, ev) {
		s.skip(id, fmt.Sprintf("gated out for %s trigger", ev.Kind))
		return
	}

	for _, dep := range s.graph.Deps(id) {
		if st := s.State(dep); st != Succeeded {
			s.skip(id, fmt.Sprintf("dependency %s %s", dep, st))
			return
		}
	}

	s.setState(id, Running)
	s.log.Info("job started", "job", string(id))

	jobCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := s.funcs[id](jobCtx)
	if err == nil && jobCtx.Err() != nil {
		err = jobCtx.Err()
	}

	if err != nil {
		s.fail(id, err)
		s.log.Error("job failed",
			"job", string(id),
			"duration", time.Since(start).String(),
			"error", err)
		return
	}

	s.setState(id, Succeeded)
	s.log.Info("job succeeded",
		"job", string(id),
		"duration", time.Since(start).String())
}

func (s *Scheduler) setState(id JobID, st JobState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = st
}

func (s *Scheduler) fail(id JobID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = Failed
	s.errs[id] = err
}

func (s *Scheduler) skip(id JobID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = Skipped
	s.skipReasons[id] = reason
	s.log.Info("job skipped", "job", string(id), "reason", reason)
}

// State returns the current state of one job.
func (s *Scheduler) State(id JobID) JobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[id]
}

// States returns a copy of all job states.
func (s *Scheduler) States() map[JobID]JobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[JobID]JobState, len(s.states))
	for id, st := range s.states {
		out[id] = st
	}
	return out
}

// Errors returns a copy of the per-job failure causes.
func (s *Scheduler) Errors() map[JobID]error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[JobID]error, len(s.errs))
	for id, err := range s.errs {
		out[id] = err
	}
	return out
}

// SkipReasons returns a copy of the per-job skip reasons.
func (s *Scheduler) SkipReasons() map[JobID]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[JobID]string, len(s.skipReasons))
	for id, r := range s.skipReasons {
		out[id] = r
	}
	return out
}
