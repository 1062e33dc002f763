package publish

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oras.land/oras-go/v2/content"

	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

// fakeRegistry records pushes and tags in memory.
type fakeRegistry struct {
	blobs     map[string][]byte
	manifests map[string][]byte
	tags      map[string]ocispec.Descriptor

	failBlobPush bool
	failTag      string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		blobs:     make(map[string][]byte),
		manifests: make(map[string][]byte),
		tags:      make(map[string]ocispec.Descriptor),
	}
}

func (f *fakeRegistry) PushBlob(ctx context.Context, mediaType string, blob []byte) (ocispec.Descriptor, error) {
	if f.failBlobPush {
		return ocispec.Descriptor{}, errors.New("registry unavailable")
	}
	desc := content.NewDescriptorFromBytes(mediaType, blob)
	f.blobs[desc.Digest.String()] = blob
	return desc, nil
}

func (f *fakeRegistry) PushManifest(ctx context.Context, mediaType string, manifest []byte) (ocispec.Descriptor, error) {
	desc := content.NewDescriptorFromBytes(mediaType, manifest)
	f.manifests[desc.Digest.String()] = manifest
	return desc, nil
}

func (f *fakeRegistry) Tag(ctx context.Context, desc ocispec.Descriptor, tag string) error {
	if tag == f.failTag {
		return errors.New("tag rejected")
	}
	f.tags[tag] = desc
	return nil
}

func writeLayer(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("layer content for "+name), 0o600))
	return path
}

func testSources(t *testing.T) []ImageSource {
	t.Helper()
	return []ImageSource{
		{Arch: "amd64", LayerPath: writeLayer(t, "amd64.tar.gz")},
		{Arch: "arm64", LayerPath: writeLayer(t, "arm64.tar.gz")},
	}
}

func TestPublishMultiArch(t *testing.T) {
	reg := newFakeRegistry()
	p := NewPublisher(reg, nil)
	plan := NewPlan(trigger.Stable, "v1.2.4", "ghcr.io/acme/app")

	err := p.Publish(context.Background(), plan, testSources(t))
	require.NoError(t, err)

	// Both tags point at the same index descriptor.
	require.Contains(t, reg.tags, "v1.2.4")
	require.Contains(t, reg.tags, "latest")
	assert.Equal(t, reg.tags["v1.2.4"].Digest, reg.tags["latest"].Digest)

	// The tagged index covers both architectures.
	raw := reg.manifests[reg.tags["v1.2.4"].Digest.String()]
	require.NotNil(t, raw)

	var index ocispec.Index
	require.NoError(t, json.Unmarshal(raw, &index))
	require.Len(t, index.Manifests, 2)

	arches := []string{index.Manifests[0].Platform.Architecture, index.Manifests[1].Platform.Architecture}
	assert.ElementsMatch(t, []string{"amd64", "arm64"}, arches)
	for _, m := range index.Manifests {
		assert.Equal(t, "linux", m.Platform.OS)
	}
}

func TestPublishArchFailureFailsWholeJob(t *testing.T) {
	reg := newFakeRegistry()
	p := NewPublisher(reg, nil)
	plan := NewPlan(trigger.Beta, "v0.0.1", "ghcr.io/acme/app")

	sources := testSources(t)
	sources[1].LayerPath = filepath.Join(t.TempDir(), "missing.tar.gz")

	err := p.Publish(context.Background(), plan, sources)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublishFailed)

	// Nothing may ever become reachable by tag.
	assert.Empty(t, reg.tags)
}

func TestPublishRegistryFailure(t *testing.T) {
	reg := newFakeRegistry()
	reg.failBlobPush = true
	p := NewPublisher(reg, nil)
	plan := NewPlan(trigger.Beta, "v0.0.1", "ghcr.io/acme/app")

	err := p.Publish(context.Background(), plan, testSources(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublishFailed)
	assert.Empty(t, reg.tags)
}

func TestPublishTagFailure(t *testing.T) {
	reg := newFakeRegistry()
	reg.failTag = "latest"
	p := NewPublisher(reg, nil)
	plan := NewPlan(trigger.Stable, "v1.0.0", "ghcr.io/acme/app")

	err := p.Publish(context.Background(), plan, testSources(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublishFailed)
}

func TestPublishNoSources(t *testing.T) {
	p := NewPublisher(newFakeRegistry(), nil)
	err := p.Publish(context.Background(), NewPlan(trigger.Beta, "v0.0.1", "r"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublishFailed)
}
