package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
)

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <pipeline>",
		Short: "Delete a pipeline",
		Long: `Permanently delete a pipeline, active or archived.

This action cannot be undone. Consider archiving instead if you
might need the pipeline later.

Examples:
  # Delete a pipeline (with confirmation)
  opradox delete my-pipeline

  # Force delete without confirmation
  opradox delete old-report --force`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			path := files.ResolvePipelinePath(ref)
			archived := false
			if !files.PipelineExists(path) {
				path = archivedName(ref)
				names, _ := files.ListArchivedPipelines()
				if !contains(names, path) {
					return fmt.Errorf("pipeline not found: %s", ref)
				}
				archived = true
			}

			if !archived && !force {
				cli.PrintWarning("Pipeline '%s' is not archived. Consider archiving instead of deleting.", ref)
				cli.PrintInfo("Use 'opradox archive %s' to archive, or --force to delete anyway.", ref)
			}

			if !force && !skipConfirm(cmd) {
				prompt := fmt.Sprintf("Permanently delete pipeline '%s'? This cannot be undone.", ref)
				confirmed, err := cli.Confirm(prompt, false)
				if err != nil {
					return err
				}
				if !confirmed {
					cli.PrintInfo("Deletion cancelled")
					return nil
				}
			}

			var err error
			if archived {
				err = files.DeleteArchivedPipeline(path)
			} else {
				err = files.DeletePipeline(path)
			}
			if err != nil {
				return fmt.Errorf("failed to delete pipeline: %w", err)
			}

			cli.PrintSuccess("Deleted pipeline: %s", ref)
			if archived {
				cli.PrintInfo("Deleted from archive")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force deletion without confirmation")

	return cmd
}
