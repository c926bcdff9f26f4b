package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/export"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/models"
)

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var (
		toFile      string
		toClipboard bool
		compact     bool
		payload     bool
	)

	cmd := &cobra.Command{
		Use:   "export <pipeline>",
		Short: "Print the backend action list of a pipeline",
		Long: `Export a pipeline as the JSON action list the backend runs.

Exporting never talks to the backend and does not require the pipeline to be
valid, so incomplete pipelines can be inspected too.

Examples:
  # Export to stdout
  opradox export sales

  # Export to a file
  opradox export sales --file sales.json

  # Copy the exact request parameter to the clipboard
  opradox export sales --payload --clipboard`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := files.LoadPipeline(args[0])
			if err != nil {
				return err
			}

			data, err := exportBytes(p, compact, payload)
			if err != nil {
				return err
			}

			switch {
			case toFile != "":
				if err := files.WriteFile(toFile, append(data, '\n')); err != nil {
					return err
				}
				cli.PrintSuccess("Exported %s to %s", p.Name, toFile)
			case toClipboard:
				if err := writeClipboard(string(data)); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				cli.PrintSuccess("Actions for '%s' copied to clipboard", p.Name)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&toFile, "file", "f", "", "Export to file instead of stdout")
	cmd.Flags().BoolVarP(&toClipboard, "clipboard", "c", false, "Copy to the clipboard instead of stdout")
	cmd.Flags().BoolVar(&compact, "compact", false, "Single-line JSON")
	cmd.Flags().BoolVar(&payload, "payload", false, "Wrap the list the way it is sent to the scenario")

	return cmd
}

// exportBytes renders the action list of p. The payload form uses the
// actions key from settings.
func exportBytes(p *models.Pipeline, compact, payload bool) ([]byte, error) {
	blocks := blocksOf(p)
	if payload {
		settings := cli.NewCommandContext().LoadSettingsWithDefault()
		return export.Payload(blocks, settings.Builder.ActionsKey)
	}
	if compact {
		return export.JSON(blocks)
	}
	return export.IndentedJSON(blocks)
}
