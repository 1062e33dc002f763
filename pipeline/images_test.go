package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/build"
)

// stubBuilder writes a placeholder executable, optionally failing for one
// architecture.
type stubBuilder struct {
	failArch string
}

func (b stubBuilder) Build(ctx context.Context, target build.Target, version, outPath string) error {
	if target.Arch == b.failArch {
		return errors.New("no compiler for " + target.Arch)
	}
	return os.WriteFile(outPath, []byte("binary "+target.String()+" "+version), 0o755)
}

func TestBuildImageSources(t *testing.T) {
	cfg := testConfig(t)
	b := NewArchiveSourceBuilder(cfg, stubBuilder{}, nil)

	sources, err := b.BuildImageSources(context.Background(), "v1.2.4", []string{"amd64", "arm64"})
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, "amd64", sources[0].Arch)
	assert.Equal(t, "arm64", sources[1].Arch)
	for _, s := range sources {
		info, err := os.Stat(s.LayerPath)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestBuildImageSourcesAllOrNothing(t *testing.T) {
	cfg := testConfig(t)
	b := NewArchiveSourceBuilder(cfg, stubBuilder{failArch: "arm64"}, nil)

	_, err := b.BuildImageSources(context.Background(), "v1.2.4", []string{"amd64", "arm64"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arm64")
}
