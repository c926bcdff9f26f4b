package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/validate"
)

// errInvalid makes the process exit non-zero after the report was printed.
var errInvalid = errors.New("pipeline is not valid")

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pipeline>",
		Short: "Check that every step has its required settings",
		Long: `Check every step of a pipeline and report all missing required
settings. Exits with a non-zero status when the pipeline is not valid.

Examples:
  opradox validate sales
  opradox validate sales -o json`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := files.LoadPipeline(args[0])
			if err != nil {
				return err
			}
			res := validate.Pipeline(blocksOf(p))

			format := outputFormat(cmd)
			if cli.IsStructured(format) {
				if err := cli.OutputResults(cmd.OutOrStdout(), format, res); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				if res.Valid {
					fmt.Fprintf(out, "✓ %s\n", res.Message())
				}
				for _, e := range res.Errors {
					fmt.Fprintf(out, "✗ step %d %s: missing %v\n", e.BlockID, e.BlockName, e.MissingFields)
				}
			}

			if !res.Valid {
				cmd.SilenceUsage = true
				return fmt.Errorf("%w: %s", errInvalid, res.Message())
			}
			return nil
		},
	}

	return cmd
}
