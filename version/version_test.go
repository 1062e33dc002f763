package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    Version
		wantErr bool
	}{
		{name: "with v prefix", tag: "v1.2.3", want: Version{Major: 1, Minor: 2, Patch: 3}},
		{name: "without prefix", tag: "10.0.7", want: Version{Major: 10, Minor: 0, Patch: 7}},
		{name: "zero version", tag: "v0.0.0", want: Version{}},
		{name: "non-numeric patch", tag: "v1.2.x", wantErr: true},
		{name: "non-numeric major", tag: "vabc.2.3", wantErr: true},
		{name: "missing component", tag: "v1.2", wantErr: true},
		{name: "empty", tag: "", wantErr: true},
		{name: "prerelease rejected", tag: "v1.2.3-rc1", wantErr: true},
		{name: "metadata rejected", tag: "v1.2.3+build5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrVersionParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextPatch(t *testing.T) {
	v := Version{Major: 1, Minor: 2, Patch: 3}
	assert.Equal(t, Version{Major: 1, Minor: 2, Patch: 4}, v.NextPatch())

	zero := Version{}
	assert.Equal(t, Version{Patch: 1}, zero.NextPatch())
}

func TestString(t *testing.T) {
	assert.Equal(t, "v1.2.4", Version{Major: 1, Minor: 2, Patch: 4}.String())
	assert.Equal(t, "v0.0.0-snapshot", Snapshot().String())
}

func TestSnapshotSentinel(t *testing.T) {
	s := Snapshot()
	assert.True(t, s.Snapshot)
	assert.Zero(t, s.Major)
	assert.Zero(t, s.Minor)
	assert.Zero(t, s.Patch)
}
