package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/input-output-hk/catalyst-forge-release/build"
	"github.com/input-output-hk/catalyst-forge-release/config"
	"github.com/input-output-hk/catalyst-forge-release/publish"
)

// ArchiveSourceBuilder produces the per-architecture image layer archives
// for the publish job. The publish job does not depend on the build matrix,
// so it compiles its own linux binaries rather than reusing matrix output.
type ArchiveSourceBuilder struct {
	cfg     *config.Config
	builder build.Builder
	log     *slog.Logger
}

// NewArchiveSourceBuilder creates a source builder using the given compiler.
func NewArchiveSourceBuilder(cfg *config.Config, builder build.Builder, log *slog.Logger) *ArchiveSourceBuilder {
	if log == nil {
		log = slog.Default()
	}
	return &ArchiveSourceBuilder{cfg: cfg, builder: builder, log: log}
}

// BuildImageSources compiles and packages a linux binary for every requested
// architecture. Unlike the release matrix this is all-or-nothing: the image
// covers every architecture or the publish job fails.
func (b *ArchiveSourceBuilder) BuildImageSources(ctx context.Context, version string, arches []string) ([]publish.ImageSource, error) {
	sub := *b.cfg
	sub.Targets = make([]string, len(arches))
	for i, arch := range arches {
		sub.Targets[i] = "linux/" + arch
	}
	sub.OutputDir = filepath.Join(b.cfg.OutputDir, "image")

	results, err := build.NewExpander(&sub, b.builder, b.log).Expand(ctx, version)
	if err != nil {
		return nil, err
	}

	sources := make([]publish.ImageSource, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			return nil, fmt.Errorf("failed to build image layer for %s: %w", r.Target, r.Err)
		}
		sources = append(sources, publish.ImageSource{
			Arch:      r.Target.Arch,
			LayerPath: r.Artifact.Path,
		})
	}
	return sources, nil
}
