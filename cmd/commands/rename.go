package commands

import (
	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
)

// NewRenameCommand creates the rename command
func NewRenameCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <pipeline> <new name>",
		Short: "Rename a pipeline and its file",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := requireProject(cmd, args); err != nil {
				return err
			}
			return cli.ValidatePipelineName(args[1])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			newPath, err := files.RenamePipeline(files.ResolvePipelinePath(args[0]), args[1])
			if err != nil {
				return err
			}
			cli.PrintSuccess("Renamed to %s (%s)", args[1], newPath)
			return nil
		},
	}

	return cmd
}
