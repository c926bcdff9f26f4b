package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
)

// NewRestoreCommand creates the restore command
func NewRestoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <pipeline>",
		Short: "Restore an archived pipeline",
		Long: `Move an archived pipeline back into active use.

Examples:
  opradox restore old-report`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := archivedName(args[0])
			if files.PipelineExists(path) {
				return fmt.Errorf("an active pipeline named %s already exists", path)
			}
			if err := files.RestorePipeline(path); err != nil {
				return fmt.Errorf("failed to restore pipeline: %w", err)
			}
			cli.PrintSuccess("Restored pipeline: %s", args[0])
			return nil
		},
	}

	return cmd
}

// archivedName maps a name or file name to the archived file name.
func archivedName(ref string) string {
	names, _ := files.ListArchivedPipelines()
	for _, candidate := range []string{ref, ref + files.PipelineExt, files.PipelineFileName(ref)} {
		if contains(names, candidate) {
			return candidate
		}
	}
	return files.PipelineFileName(ref)
}
