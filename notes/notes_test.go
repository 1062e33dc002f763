package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-release/build"
	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

func testInput(kind trigger.ReleaseKind) Input {
	return Input{
		Version:    "v1.2.4",
		Kind:       kind,
		BinaryName: "forge-release",
		Toolchain:  "go1.24.2",
		Targets: []build.Target{
			{OS: "linux", Arch: "amd64"},
			{OS: "windows", Arch: "arm64"},
		},
		PullRefs: []string{
			"ghcr.io/acme/forge-release:v1.2.4",
			"ghcr.io/acme/forge-release:latest",
		},
		Manifest: strings.Repeat("a", 64) + "  forge-release-v1.2.4-linux-amd64.tar.gz\n",
		Changes:  []string{"feat: add freebsd targets", "fix: empty tag history"},
	}
}

func TestRenderStable(t *testing.T) {
	out, err := Render(testInput(trigger.Stable))
	require.NoError(t, err)

	assert.Contains(t, out, "## forge-release v1.2.4")
	assert.Contains(t, out, "Stable release.")
	assert.NotContains(t, out, "prerelease")
	assert.Contains(t, out, "| linux | amd64 |")
	assert.Contains(t, out, "| windows | arm64 |")
	assert.Contains(t, out, "docker pull ghcr.io/acme/forge-release:v1.2.4")
	assert.Contains(t, out, "docker pull ghcr.io/acme/forge-release:latest")
	assert.Contains(t, out, "forge-release-v1.2.4-linux-amd64.tar.gz")
	assert.Contains(t, out, "- feat: add freebsd targets")
	assert.Contains(t, out, "go1.24.2")
}

func TestRenderBeta(t *testing.T) {
	out, err := Render(testInput(trigger.Beta))
	require.NoError(t, err)

	assert.Contains(t, out, "beta prerelease")
	assert.NotContains(t, out, "Stable release.")
}

func TestRenderIsPure(t *testing.T) {
	in := testInput(trigger.Stable)
	first, err := Render(in)
	require.NoError(t, err)
	second, err := Render(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderOmitsEmptySections(t *testing.T) {
	in := testInput(trigger.Stable)
	in.Changes = nil
	in.PullRefs = nil

	out, err := Render(in)
	require.NoError(t, err)
	assert.NotContains(t, out, "### Changes")
	assert.NotContains(t, out, "### Container image")
}

func TestPrerelease(t *testing.T) {
	assert.True(t, testInput(trigger.Beta).Prerelease())
	assert.False(t, testInput(trigger.Stable).Prerelease())
}
