package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/legacy"
	"github.com/opradox/opradox-cli/pkg/validate"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "migrate <legacy.json> [name]",
		Short: "Import a PRO Builder action list as a pipeline",
		Long: `Convert an action list saved by the PRO Builder into a pipeline.

The file may be a bare JSON array of actions or an object with an "actions"
list. Settings the old format did not store get their current defaults.
Actions of unknown type are skipped with a warning.

Examples:
  opradox migrate old-report.json "Monthly Report"`,
		Args:    cobra.RangeArgs(1, 2),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			name := ""
			if len(args) > 1 {
				name = args[1]
			}

			res, err := legacy.Migrate(data, name)
			if err != nil {
				return err
			}
			if err := cli.ValidatePipelineName(res.Pipeline.Name); err != nil {
				return err
			}
			res.Pipeline.Path = files.PipelineFileName(res.Pipeline.Name)
			if files.PipelineExists(res.Pipeline.Path) && !force {
				return fmt.Errorf("pipeline '%s' already exists (use --force to overwrite)", res.Pipeline.Name)
			}

			for _, w := range res.Warnings {
				cli.PrintWarning("%s", w)
			}
			if err := files.WritePipeline(res.Pipeline); err != nil {
				return err
			}

			cli.PrintSuccess("Imported %d steps into %s", len(res.Pipeline.Steps), res.Pipeline.Path)
			if v := validate.Pipeline(blocksOf(res.Pipeline)); !v.Valid {
				cli.PrintWarning("%s", v.Message())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing pipeline")

	return cmd
}
