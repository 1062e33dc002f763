package main

import (
	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-release/trigger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the validation pipeline for the current commit",
	Long: `check runs the automatic validation pipeline: lint and the full build
matrix against a snapshot version. No tags are created and nothing is
published.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		p, _, err := newPipeline(cmd.Context(), log)
		if err != nil {
			return err
		}

		_, err = p.Run(cmd.Context(), trigger.Event{Kind: trigger.AutomaticCheck})
		return err
	},
}
