package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/models"
)

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	var (
		scenario    string
		description string
	)

	cmd := &cobra.Command{
		Use:     "new <name>",
		Aliases: []string{"create"},
		Short:   "Create an empty pipeline",
		Long: `Create an empty pipeline under .opradox/pipelines.

The file name is derived from the name, so "Sales Report" is saved as
sales-report.yaml.

Examples:
  # Create a pipeline
  opradox new "Sales Report"

  # Create a pipeline for a different scenario
  opradox new reconciliation --scenario visual_builder --description "Monthly check"`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := requireProject(cmd, args); err != nil {
				return err
			}
			return cli.ValidatePipelineName(args[0])
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path := files.PipelineFileName(name)
			if files.PipelineExists(path) {
				return fmt.Errorf("pipeline '%s' already exists", name)
			}

			p := &models.Pipeline{
				Name:        name,
				Path:        path,
				Description: description,
				Scenario:    scenario,
			}
			if err := files.WritePipeline(p); err != nil {
				return fmt.Errorf("failed to save pipeline: %w", err)
			}

			cli.PrintSuccess("Created pipeline: %s", name)
			cli.PrintInfo("Add steps with: opradox add %s <type> key=value...", p.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "", "Backend scenario id (defaults to the builder scenario)")
	cmd.Flags().StringVar(&description, "description", "", "Pipeline description")

	return cmd
}
