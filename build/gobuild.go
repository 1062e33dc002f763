package build

import (
	"context"
	"fmt"

	"github.com/input-output-hk/catalyst-forge-release/config"
	"github.com/input-output-hk/catalyst-forge-release/executor"
)

// ToolchainBuilder compiles the project with the Go toolchain, invoked as an
// opaque external step. Cross-compilation is driven entirely through GOOS
// and GOARCH; the version string is embedded via link flags.
type ToolchainBuilder struct {
	cfg  *config.Config
	tool *executor.WrappedExecutor
}

// NewToolchainBuilder creates a builder that shells out to the "go" program.
func NewToolchainBuilder(cfg *config.Config) *ToolchainBuilder {
	return &ToolchainBuilder{
		cfg:  cfg,
		tool: executor.NewWrappedExecutor("go"),
	}
}

// Build implements Builder.
func (b *ToolchainBuilder) Build(ctx context.Context, target Target, version, outPath string) error {
	args := []string{
		"build",
		"-trimpath",
		"-ldflags", fmt.Sprintf("-s -w -X main.version=%s", version),
		"-o", outPath,
		b.cfg.EntrypointPackage(),
	}

	result, err := b.tool.Execute(ctx, args,
		executor.WithWorkingDir(b.cfg.ProjectDir),
		executor.WithEnv(map[string]string{
			"GOOS":        target.OS,
			"GOARCH":      target.Arch,
			"CGO_ENABLED": "0",
		}),
		executor.WithCapture(false, false, true),
	)
	if err != nil {
		if result != nil && result.Combined != "" {
			return fmt.Errorf("toolchain build for %s: %s: %w", target, result.Combined, err)
		}
		return fmt.Errorf("toolchain build for %s: %w", target, err)
	}

	return nil
}
