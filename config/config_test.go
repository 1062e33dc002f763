package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FORGE_RELEASE_BINARY_NAME", "forge-release")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "forge-release", cfg.BinaryName)
	assert.Equal(t, DefaultArchiveExt, cfg.ArchiveExt)
	assert.Equal(t, DefaultRemoteName, cfg.RemoteName)
	assert.Equal(t, DefaultJobTimeout, cfg.JobTimeout)
	assert.Len(t, cfg.Targets, 8)
	assert.Equal(t, []string{"amd64", "arm64"}, cfg.ImagePlatforms)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "release.yaml")
	content := `
binary_name: myapp
image_repository: ghcr.io/acme/myapp
archive_ext: tgz
targets:
  - linux/amd64
  - darwin/arm64
job_timeout: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "myapp", cfg.BinaryName)
	assert.Equal(t, "ghcr.io/acme/myapp", cfg.ImageRepository)
	assert.Equal(t, "tgz", cfg.ArchiveExt)
	assert.Equal(t, []string{"linux/amd64", "darwin/arm64"}, cfg.Targets)
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "release.yaml")
	require.NoError(t, os.WriteFile(path, []byte("binary_name: fromfile\n"), 0o600))

	t.Setenv("FORGE_RELEASE_BINARY_NAME", "fromenv")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.BinaryName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing binary name",
			mutate:  func(c *Config) { c.BinaryName = "" },
			wantErr: true,
		},
		{
			name:    "empty archive ext",
			mutate:  func(c *Config) { c.ArchiveExt = "" },
			wantErr: true,
		},
		{
			name:    "no targets",
			mutate:  func(c *Config) { c.Targets = nil },
			wantErr: true,
		},
		{
			name:    "malformed target",
			mutate:  func(c *Config) { c.Targets = []string{"linux-amd64"} },
			wantErr: true,
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.BuildConcurrency = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ProjectDir:     ".",
				BinaryName:     "app",
				ArchiveExt:     DefaultArchiveExt,
				Targets:        []string{"linux/amd64"},
				ImagePlatforms: []string{"amd64"},
				RemoteName:     DefaultRemoteName,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
