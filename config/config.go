// Package config provides loading, validation, and convenient access to the
// pipeline configuration. The configuration is constructed once at pipeline
// start and is immutable thereafter; every component receives the same
// *Config by reference.
//
// Configuration is read from a YAML file (release.yaml by default) with
// FORGE_RELEASE_* environment variables taking precedence. Credentials are
// only ever injected through the environment; they are treated as opaque
// bearer tokens by the rest of the system.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultArchiveExt is the archive extension used when none is configured.
	DefaultArchiveExt = "tar.gz"

	// DefaultRemoteName is the git remote that release tags are pushed to.
	DefaultRemoteName = "origin"

	// DefaultJobTimeout bounds the runtime of a single pipeline job.
	DefaultJobTimeout = 30 * time.Minute

	// envPrefix is the prefix for environment variable overrides.
	envPrefix = "FORGE_RELEASE"
)

// defaultTargets is the fixed OS × architecture cross product built for a
// release when the configuration does not override it.
var defaultTargets = []string{
	"linux/amd64", "linux/arm64",
	"darwin/amd64", "darwin/arm64",
	"windows/amd64", "windows/arm64",
	"freebsd/amd64", "freebsd/arm64",
}

// defaultImagePlatforms are the architectures included in the published
// multi-arch container image.
var defaultImagePlatforms = []string{"amd64", "arm64"}

// Config holds all configuration values for a pipeline run.
type Config struct {
	// ProjectDir is the root of the project being released. It must contain
	// the dependency manifest and a buildable entrypoint.
	ProjectDir string `mapstructure:"project_dir"`

	// BinaryName is the base name of the produced executable.
	BinaryName string `mapstructure:"binary_name"`

	// ToolchainVersion is the expected toolchain version string. It is
	// recorded in release notes and passed to the opaque build step; the
	// orchestrator itself never interprets it.
	ToolchainVersion string `mapstructure:"toolchain_version"`

	// ArchiveExt is the archive extension for packaged artifacts.
	ArchiveExt string `mapstructure:"archive_ext"`

	// Targets is the build matrix as "<os>/<arch>" pairs.
	Targets []string `mapstructure:"targets"`

	// ImageRepository is the container image repository
	// (e.g. "ghcr.io/acme/forge-release").
	ImageRepository string `mapstructure:"image_repository"`

	// ImagePlatforms are the architectures covered by the multi-arch image.
	ImagePlatforms []string `mapstructure:"image_platforms"`

	// RemoteName is the git remote used for tag pushes.
	RemoteName string `mapstructure:"remote_name"`

	// OutputDir is where archives and checksum manifests are written.
	// Defaults to "dist" under the project directory.
	OutputDir string `mapstructure:"output_dir"`

	// BuildConcurrency bounds how many targets build in parallel.
	// Zero means one worker per target.
	BuildConcurrency int `mapstructure:"build_concurrency"`

	// JobTimeout is the external time budget for a single job. A job
	// exceeding it is treated as failed.
	JobTimeout time.Duration `mapstructure:"job_timeout"`

	// LintCommand is the command run by the lint job after the project
	// precondition checks pass. Empty disables the external linter.
	LintCommand []string `mapstructure:"lint_command"`

	// GitToken is the bearer token for tag pushes. Opaque to the
	// orchestration logic; injected at the version resolver boundary.
	GitToken string `mapstructure:"git_token"`

	// RegistryUser and RegistryToken authenticate image publishes. Opaque to
	// the orchestration logic; injected at the publish gate boundary.
	RegistryUser  string `mapstructure:"registry_user"`
	RegistryToken string `mapstructure:"registry_token"`
}

// Load reads configuration from the given file path, applying defaults and
// environment variable overrides. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("project_dir", ".")
	v.SetDefault("archive_ext", DefaultArchiveExt)
	v.SetDefault("targets", defaultTargets)
	v.SetDefault("image_platforms", defaultImagePlatforms)
	v.SetDefault("remote_name", DefaultRemoteName)
	v.SetDefault("output_dir", "dist")
	v.SetDefault("job_timeout", DefaultJobTimeout)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, WrapError(err, "failed to read configuration file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, WrapError(err, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration is complete and well-formed.
// It collects all problems into a single error message.
func (c *Config) Validate() error {
	var problems []string

	if c.BinaryName == "" {
		problems = append(problems, "binary_name is required")
	}
	if c.ArchiveExt == "" {
		problems = append(problems, "archive_ext cannot be empty")
	}
	if len(c.Targets) == 0 {
		problems = append(problems, "targets cannot be empty")
	}
	for _, t := range c.Targets {
		if strings.Count(t, "/") != 1 {
			problems = append(problems, "invalid target "+t+" (want <os>/<arch>)")
		}
	}
	if len(c.ImagePlatforms) == 0 {
		problems = append(problems, "image_platforms cannot be empty")
	}
	if c.BuildConcurrency < 0 {
		problems = append(problems, "build_concurrency cannot be negative")
	}
	if c.JobTimeout < 0 {
		problems = append(problems, "job_timeout cannot be negative")
	}

	if len(problems) > 0 {
		return WrapError(ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
