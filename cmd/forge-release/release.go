package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

var releaseKind string

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Run the full release pipeline",
	Long: `release runs the full pipeline: it resolves and tags the next version,
builds the target matrix, publishes the multi-arch container image, and
writes the release notes and checksum manifest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := trigger.ParseReleaseKind(releaseKind)
		if !ok {
			return fmt.Errorf("invalid release kind %q (want beta or stable)", releaseKind)
		}

		log := newLogger()
		p, cfg, err := newPipeline(cmd.Context(), log)
		if err != nil {
			return err
		}

		report, err := p.Run(cmd.Context(), trigger.Event{
			Kind:    trigger.ManualRelease,
			Release: kind,
		})
		if err != nil {
			return err
		}

		rec := report.Record
		if rec == nil {
			return fmt.Errorf("release job produced no record")
		}

		notesPath := filepath.Join(cfg.OutputDir, rec.TagName+"-notes.md")
		if err := os.WriteFile(notesPath, []byte(rec.Notes), 0o644); err != nil {
			return fmt.Errorf("failed to write release notes: %w", err)
		}

		log.Info("release complete",
			"version", rec.Version,
			"tag", rec.TagName,
			"artifacts", len(rec.Artifacts),
			"prerelease", rec.Prerelease,
			"notes", notesPath,
			"checksums", rec.ManifestPath)
		return nil
	},
}

func init() {
	releaseCmd.Flags().StringVarP(&releaseKind, "kind", "k", "stable", "release kind: beta or stable")
}
