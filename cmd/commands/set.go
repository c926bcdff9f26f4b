package commands

import (
	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/validate"
)

// NewSetCommand creates the set command
func NewSetCommand() *cobra.Command {
	var manual bool

	cmd := &cobra.Command{
		Use:   "set <pipeline> <step> key=value...",
		Short: "Change the settings of a step",
		Long: `Change one or more settings of a step. Values are parsed according to
the field: numbers, true/false, comma separated column lists.

Column fields hold either a value picked from the column list or a manually
typed name. Use --manual when the column does not exist yet, for example one
created by an earlier step.

Examples:
  # Change the filter value
  opradox set sales 1 value=East

  # Reference a column produced by an earlier computed step
  opradox set sales 3 column=Revenue --manual`,
		Args:    cobra.MinimumNArgs(3),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := cli.ParseAssignments(args[2:])
			if err != nil {
				return err
			}
			s, err := openSession(args[0])
			if err != nil {
				return err
			}
			id, err := s.blockAt(args[1])
			if err != nil {
				return err
			}
			if err := assign(s.builder, id, pairs, manual); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}

			blk, _ := s.builder.Block(id)
			cli.PrintSuccess("Updated step %s (%s)", args[1], validate.BlockName(blk.Type))
			return nil
		},
	}

	cmd.Flags().BoolVar(&manual, "manual", false, "Treat column values as manually typed references")

	return cmd
}
