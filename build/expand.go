package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/catalyst-forge-release/config"
)

// Builder compiles the project for one target, writing the executable to
// outPath with the version string embedded in the build metadata. The
// compiler itself is an external collaborator; the expander only consumes
// this boundary.
type Builder interface {
	Build(ctx context.Context, target Target, version, outPath string) error
}

// Expander fans a build request across the configured target matrix.
type Expander struct {
	cfg     *config.Config
	builder Builder
	log     *slog.Logger
}

// NewExpander creates an Expander using the given builder.
func NewExpander(cfg *config.Config, builder Builder, log *slog.Logger) *Expander {
	if log == nil {
		log = slog.Default()
	}
	return &Expander{cfg: cfg, builder: builder, log: log}
}

// Expand builds, packages, and checksums every configured target for the
// given version, producing exactly one Result per target.
//
// The fan-out is fail-isolated: a failing target yields a Result carrying
// its cause and does not cancel or block siblings. Expand itself only fails
// on malformed configuration; it blocks until every target reaches a
// terminal outcome.
func (e *Expander) Expand(ctx context.Context, version string) ([]Result, error) {
	targets, err := ParseTargets(e.cfg.Targets)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}

	results := make([]Result, len(targets))

	var g errgroup.Group
	if e.cfg.BuildConcurrency > 0 {
		g.SetLimit(e.cfg.BuildConcurrency)
	}

	for i, t := range targets {
		g.Go(func() error {
			results[i] = e.buildTarget(ctx, t, version)
			if results[i].Failed() {
				e.log.Warn("target build failed",
					"target", t.String(),
					"error", results[i].Err)
			} else {
				e.log.Info("target built",
					"target", t.String(),
					"archive", results[i].Artifact.Name)
			}
			// Failures are recorded in the result, never returned: returning
			// an error here would cancel sibling targets.
			return nil
		})
	}

	// The join barrier: every target must reach a terminal outcome before
	// the collector may run.
	_ = g.Wait()

	return results, nil
}

// buildTarget compiles, packages, and checksums a single target.
func (e *Expander) buildTarget(ctx context.Context, t Target, version string) Result {
	workDir := filepath.Join(e.cfg.OutputDir, t.OS+"_"+t.Arch)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Result{Target: t, Err: WrapErrorf(err, "failed to create work dir for %s", t)}
	}

	execName := t.ExecutableName(e.cfg.BinaryName)
	binPath := filepath.Join(workDir, execName)

	if err := e.builder.Build(ctx, t, version, binPath); err != nil {
		return Result{Target: t, Err: WrapErrorf(ErrBuildFailed, "%s: %v", t, err)}
	}

	archiveName := t.ArchiveName(e.cfg.BinaryName, version, e.cfg.ArchiveExt)
	archivePath := filepath.Join(e.cfg.OutputDir, archiveName)
	if err := createArchive(archivePath, binPath, execName); err != nil {
		return Result{Target: t, Err: WrapErrorf(ErrBuildFailed, "%s: %v", t, err)}
	}

	sum, err := checksumFile(archivePath)
	if err != nil {
		return Result{Target: t, Err: WrapErrorf(ErrBuildFailed, "%s: %v", t, err)}
	}

	return Result{
		Target: t,
		Artifact: &Artifact{
			Name:     archiveName,
			Path:     archivePath,
			Checksum: sum,
		},
	}
}
