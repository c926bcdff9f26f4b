package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
)

// NewArchiveCommand creates the archive command
func NewArchiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <pipeline>",
		Short: "Archive a pipeline",
		Long: `Archive a pipeline to move it out of active use.

Archived pipelines are moved to the archive directory and won't appear
in normal listings unless specifically requested.

Examples:
  # Archive a pipeline
  opradox archive old-report

  # Archive without confirmation
  opradox archive old-report -y`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := files.ResolvePipelinePath(args[0])
			if !files.PipelineExists(path) {
				return fmt.Errorf("pipeline not found: %s", args[0])
			}

			if !skipConfirm(cmd) {
				confirmed, err := cli.Confirm(fmt.Sprintf("Archive pipeline '%s'?", args[0]), false)
				if err != nil {
					return err
				}
				if !confirmed {
					cli.PrintInfo("Archive cancelled")
					return nil
				}
			}

			if err := files.ArchivePipeline(path); err != nil {
				return fmt.Errorf("failed to archive pipeline: %w", err)
			}
			cli.PrintSuccess("Archived pipeline: %s", args[0])
			return nil
		},
	}

	return cmd
}
