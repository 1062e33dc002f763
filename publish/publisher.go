// Package publish selects the container-image tag set for a release and
// performs a single multi-architecture publish through an OCI registry.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// ErrPublishFailed marks a whole-job publish failure. Any architecture's
// sub-build failing fails the entire publish; no partial multi-arch
// manifest is ever tagged.
var ErrPublishFailed = errors.New("publish failed")

// imageOS is the operating system recorded on published image manifests.
// The container image only ships linux variants; other release targets are
// distributed as archives.
const imageOS = "linux"

// ImageSource supplies the packaged content for one architecture of the
// release image. LayerPath points at the gzipped release archive built for
// linux on that architecture.
type ImageSource struct {
	Arch      string
	LayerPath string
}

// Publisher assembles one multi-architecture image index from per-arch
// sources and pushes the plan's tag set.
type Publisher struct {
	reg Registry
	log *slog.Logger
}

// NewPublisher creates a Publisher over the given registry.
func NewPublisher(reg Registry, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{reg: reg, log: log}
}

// Publish builds one image manifest per source architecture, assembles them
// into a single multi-architecture index, pushes the index, and applies all
// of the plan's tags.
//
// The operation is atomic with respect to visibility: every push before the
// final tag step is content-addressed (by digest) and therefore unreachable
// by tag. If any architecture fails, nothing is ever tagged and the job
// fails as a whole with ErrPublishFailed.
func (p *Publisher) Publish(ctx context.Context, plan Plan, sources []ImageSource) error {
	if len(sources) == 0 {
		return fmt.Errorf("%w: no image sources", ErrPublishFailed)
	}

	manifests := make([]ocispec.Descriptor, 0, len(sources))
	for _, src := range sources {
		desc, err := p.pushArchManifest(ctx, src)
		if err != nil {
			return fmt.Errorf("%w: architecture %s: %v", ErrPublishFailed, src.Arch, err)
		}
		manifests = append(manifests, desc)
	}

	index := ocispec.Index{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: ocispec.MediaTypeImageIndex,
		Manifests: manifests,
	}
	raw, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("%w: failed to encode index: %v", ErrPublishFailed, err)
	}

	indexDesc, err := p.reg.PushManifest(ctx, ocispec.MediaTypeImageIndex, raw)
	if err != nil {
		return fmt.Errorf("%w: failed to push index: %v", ErrPublishFailed, err)
	}

	for _, tag := range plan.Tags {
		if err := p.reg.Tag(ctx, indexDesc, tag); err != nil {
			return fmt.Errorf("%w: failed to tag %s: %v", ErrPublishFailed, tag, err)
		}
		p.log.Info("tagged release image", "repository", plan.Repository, "tag", tag)
	}

	return nil
}

// pushArchManifest pushes the config and layer blobs for one architecture
// and returns the pushed image manifest's descriptor, annotated with its
// platform for inclusion in the index.
func (p *Publisher) pushArchManifest(ctx context.Context, src ImageSource) (ocispec.Descriptor, error) {
	layer, err := os.ReadFile(src.LayerPath)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("failed to read layer content: %w", err)
	}

	layerDesc, err := p.reg.PushBlob(ctx, ocispec.MediaTypeImageLayerGzip, layer)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	imgConfig := ocispec.Image{
		Platform: ocispec.Platform{
			OS:           imageOS,
			Architecture: src.Arch,
		},
		RootFS: ocispec.RootFS{
			Type:    "layers",
			DiffIDs: []digest.Digest{digest.FromBytes(layer)},
		},
	}
	cfgRaw, err := json.Marshal(imgConfig)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("failed to encode image config: %w", err)
	}

	cfgDesc, err := p.reg.PushBlob(ctx, ocispec.MediaTypeImageConfig, cfgRaw)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	manifest := ocispec.Manifest{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: ocispec.MediaTypeImageManifest,
		Config:    cfgDesc,
		Layers:    []ocispec.Descriptor{layerDesc},
	}
	raw, err := json.Marshal(manifest)
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("failed to encode manifest: %w", err)
	}

	desc, err := p.reg.PushManifest(ctx, ocispec.MediaTypeImageManifest, raw)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	desc.Platform = &ocispec.Platform{OS: imageOS, Architecture: src.Arch}
	return desc, nil
}
