package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-release/build"
	"github.com/input-output-hk/catalyst-forge-release/config"
	"github.com/input-output-hk/catalyst-forge-release/git"
	"github.com/input-output-hk/catalyst-forge-release/logger"
	"github.com/input-output-hk/catalyst-forge-release/pipeline"
	"github.com/input-output-hk/catalyst-forge-release/publish"
	ver "github.com/input-output-hk/catalyst-forge-release/version"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "forge-release",
	Short:   "Release orchestrator for cross-platform Go projects",
	Version: version,
	Long: `forge-release runs the release pipeline: it derives the next version
from git tag history, builds the full target matrix, publishes a multi-arch
container image, and produces a tagged release with notes and checksums.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the release configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(releaseCmd)
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// newLogger builds the run logger from the verbosity flag.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logger.New(level)
}

// newPipeline loads configuration and wires the pipeline collaborators.
func newPipeline(ctx context.Context, log *slog.Logger) (*pipeline.Pipeline, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	repo, err := git.Open(ctx, git.Options{
		Path:       cfg.ProjectDir,
		RemoteName: cfg.RemoteName,
		Token:      cfg.GitToken,
	})
	if err != nil {
		return nil, nil, err
	}

	registry, err := publish.NewORASRegistry(cfg.ImageRepository,
		publish.WithStaticAuth(cfg.RegistryUser, cfg.RegistryToken))
	if err != nil {
		return nil, nil, err
	}

	builder := build.NewToolchainBuilder(cfg)
	p := pipeline.New(
		cfg,
		ver.NewResolver(repo, repo, log),
		build.NewExpander(cfg, builder, log),
		publish.NewPublisher(registry, log),
		pipeline.NewArchiveSourceBuilder(cfg, builder, log),
		repo,
		log,
	)
	return p, cfg, nil
}
