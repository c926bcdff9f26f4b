package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// NewClipboardCommand creates the clipboard command
func NewClipboardCommand() *cobra.Command {
	var payload bool

	cmd := &cobra.Command{
		Use:   "clipboard <pipeline>",
		Short: "Copy a pipeline's action list to the clipboard",
		Long: `Copy the compact JSON action list of a pipeline to the system clipboard,
ready to be pasted into the web builder or an API client.

Examples:
  opradox clipboard sales
  opradox clip sales --payload`,
		Args:    cobra.ExactArgs(1),
		Aliases: []string{"clip", "copy"},
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := files.LoadPipeline(args[0])
			if err != nil {
				return err
			}
			data, err := exportBytes(p, true, payload)
			if err != nil {
				return err
			}
			if err := writeClipboard(string(data)); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}

			cli.PrintSuccess("Pipeline '%s' copied to clipboard", p.Name)
			cli.PrintInfo("%d actions, %s", len(p.Steps), cli.FormatBytes(int64(len(data))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&payload, "payload", false, "Wrap the list the way it is sent to the scenario")

	return cmd
}
