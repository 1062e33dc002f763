package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-release/build"
	"github.com/input-output-hk/catalyst-forge-release/config"
	"github.com/input-output-hk/catalyst-forge-release/executor"
	"github.com/input-output-hk/catalyst-forge-release/logger"
	"github.com/input-output-hk/catalyst-forge-release/notes"
	"github.com/input-output-hk/catalyst-forge-release/publish"
	"github.com/input-output-hk/catalyst-forge-release/trigger"
	"github.com/input-output-hk/catalyst-forge-release/version"
)

// ErrPartialBuild is returned by the release job when one or more targets
// in the build matrix failed. The build job itself succeeds as long as the
// fan-out completed; an incomplete artifact set blocks the release instead.
var ErrPartialBuild = errors.New("release blocked: build matrix is incomplete")

// changelogLimit caps how many commit subjects the release notes include.
const changelogLimit = 50

// VersionResolver derives and records the run's version.
type VersionResolver interface {
	Resolve(ctx context.Context, ev trigger.Event) (version.Version, error)
	LatestTag(ctx context.Context) (string, error)
	TagRelease(ctx context.Context, v version.Version) error
}

// MatrixExpander fans the build across the target matrix.
type MatrixExpander interface {
	Expand(ctx context.Context, version string) ([]build.Result, error)
}

// ImagePublisher pushes the multi-arch container image.
type ImagePublisher interface {
	Publish(ctx context.Context, plan publish.Plan, sources []publish.ImageSource) error
}

// ImageSourceBuilder produces the per-architecture layer archives consumed
// by the publisher.
type ImageSourceBuilder interface {
	BuildImageSources(ctx context.Context, version string, arches []string) ([]publish.ImageSource, error)
}

// Changelog reads commit subjects for the release notes.
type Changelog interface {
	CommitSubjectsSince(ctx context.Context, sinceTag string, max int) ([]string, error)
}

// Pipeline wires the release components into the job graph and runs it.
type Pipeline struct {
	cfg       *config.Config
	resolver  VersionResolver
	expander  MatrixExpander
	publisher ImagePublisher
	images    ImageSourceBuilder
	changelog Changelog
	log       *slog.Logger
}

// New creates a pipeline over the given collaborators.
func New(
	cfg *config.Config,
	resolver VersionResolver,
	expander MatrixExpander,
	publisher ImagePublisher,
	images ImageSourceBuilder,
	changelog Changelog,
	log *slog.Logger,
) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		resolver:  resolver,
		expander:  expander,
		publisher: publisher,
		images:    images,
		changelog: changelog,
		log:       log,
	}
}

// Run executes one pipeline run for the given trigger event and returns the
// run report. The returned error joins the failure causes of failed jobs;
// it is nil when every job either succeeded or was skipped.
func (p *Pipeline) Run(ctx context.Context, ev trigger.Event) (*Report, error) {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := p.log.With("run_id", runID, "trigger", ev.Kind.String())

	// Job results cross goroutine boundaries; the graph edges order the
	// writes before the reads, the mutex keeps the accesses clean.
	var (
		mu      sync.Mutex
		ver     version.Version
		prevTag string
		results []build.Result
		record  *ReleaseRecord
	)

	currentVersion := func() version.Version {
		mu.Lock()
		defer mu.Unlock()
		return ver
	}

	funcs := map[JobID]JobFunc{
		JobVersion: func(ctx context.Context) error {
			v, err := p.resolver.Resolve(ctx, ev)
			if err != nil {
				return err
			}

			prev := ""
			if ev.Kind == trigger.ManualRelease {
				if prev, err = p.resolver.LatestTag(ctx); err != nil {
					return err
				}
				if err := p.resolver.TagRelease(ctx, v); err != nil {
					return err
				}
			}

			mu.Lock()
			ver, prevTag = v, prev
			mu.Unlock()
			return nil
		},

		JobLint: func(ctx context.Context) error {
			if err := p.cfg.CheckProject(); err != nil {
				return err
			}
			return p.runLinter(ctx)
		},

		JobBuild: func(ctx context.Context) error {
			rs, err := p.expander.Expand(ctx, currentVersion().String())
			if err != nil {
				return err
			}
			mu.Lock()
			results = rs
			mu.Unlock()
			return nil
		},

		JobPublish: func(ctx context.Context) error {
			v := currentVersion().String()
			sources, err := p.images.BuildImageSources(ctx, v, p.cfg.ImagePlatforms)
			if err != nil {
				return err
			}
			plan := publish.NewPlan(ev.Release, v, p.cfg.ImageRepository)
			return p.publisher.Publish(ctx, plan, sources)
		},

		JobRelease: func(ctx context.Context) error {
			in := releaseInputs{
				version: currentVersion(),
				prevTag: func() string {
					mu.Lock()
					defer mu.Unlock()
					return prevTag
				}(),
				results: func() []build.Result {
					mu.Lock()
					defer mu.Unlock()
					return results
				}(),
			}
			rec, err := p.release(ctx, ev, in)
			if err != nil {
				return err
			}
			mu.Lock()
			record = rec
			mu.Unlock()
			return nil
		},
	}

	sched, err := NewScheduler(DefaultGraph(), funcs, p.cfg.JobTimeout, log)
	if err != nil {
		return nil, err
	}
	sched.Run(ctx, ev)

	report := &Report{
		RunID:       runID,
		Trigger:     ev,
		States:      sched.States(),
		Errors:      sched.Errors(),
		SkipReasons: sched.SkipReasons(),
		Record:      record,
	}

	if report.Succeeded() {
		log.Info("pipeline run finished", "version", currentVersion().String())
	} else {
		log.Error("pipeline run failed", "error", report.Err())
	}
	return report, report.Err()
}

// releaseInputs carries the cross-job values the release job consumes.
type releaseInputs struct {
	version version.Version
	prevTag string
	results []build.Result
}

// runLinter runs the configured external lint command, if any.
func (p *Pipeline) runLinter(ctx context.Context) error {
	if len(p.cfg.LintCommand) == 0 {
		return nil
	}

	cmd := executor.New(p.cfg.LintCommand[0], p.cfg.LintCommand[1:]...)
	res, err := cmd.Execute(ctx,
		executor.WithWorkingDir(p.cfg.ProjectDir),
		executor.WithCapture(false, false, true),
	)
	if err != nil {
		out := ""
		if res != nil {
			out = strings.TrimSpace(res.Combined)
		}
		return fmt.Errorf("lint command failed: %w: %s", err, out)
	}
	return nil
}

// release aggregates the run into a ReleaseRecord: it collects the matrix
// results, refuses a partial artifact set, writes the checksum manifest,
// and renders the release notes.
func (p *Pipeline) release(ctx context.Context, ev trigger.Event, in releaseInputs) (*ReleaseRecord, error) {
	v := in.version
	artifacts, manifest, failures := build.Collect(in.results)

	if len(failures) > 0 {
		names := make([]string, len(failures))
		for i, f := range failures {
			names[i] = f.Target.String()
		}
		return nil, fmt.Errorf("%w: %d of %d targets failed (%s)",
			ErrPartialBuild, len(failures), len(failures)+len(artifacts), strings.Join(names, ", "))
	}

	manifestPath := filepath.Join(p.cfg.OutputDir,
		p.cfg.BinaryName+"-"+v.String()+"-checksums.txt")
	if err := os.WriteFile(manifestPath, []byte(manifest.String()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write checksum manifest: %w", err)
	}

	changes, err := p.changelog.CommitSubjectsSince(ctx, in.prevTag, changelogLimit)
	if err != nil {
		// Notes degrade to no changelog rather than blocking the release.
		p.log.Warn("failed to read changelog", "error", err)
		changes = nil
	}

	targets, err := build.ParseTargets(p.cfg.Targets)
	if err != nil {
		return nil, err
	}

	plan := publish.NewPlan(ev.Release, v.String(), p.cfg.ImageRepository)
	text, err := notes.Render(notes.Input{
		Version:    v.String(),
		Kind:       ev.Release,
		BinaryName: p.cfg.BinaryName,
		Toolchain:  p.cfg.ToolchainVersion,
		Targets:    targets,
		Artifacts:  artifacts,
		PullRefs:   plan.References(),
		Manifest:   manifest.String(),
		Changes:    changes,
	})
	if err != nil {
		return nil, err
	}

	return &ReleaseRecord{
		Version:      v.String(),
		TagName:      v.TagName(),
		Artifacts:    artifacts,
		Manifest:     manifest,
		ManifestPath: manifestPath,
		Notes:        text,
		Prerelease:   ev.Prerelease(),
	}, nil
}
