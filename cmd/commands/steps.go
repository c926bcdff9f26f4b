package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/builder"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/validate"
)

// NewAddCommand creates the add command
func NewAddCommand() *cobra.Command {
	var manual bool

	cmd := &cobra.Command{
		Use:   "add <pipeline> <type> [key=value...]",
		Short: "Append a step to a pipeline",
		Long: `Append a step of the given type with its default settings, then apply
any key=value overrides in order.

Examples:
  # Add a filter step
  opradox add sales filter column=Region operator=equals value=West

  # Add a lookup against another sheet of the main file
  opradox add sales lookup_join source_type=same_file_sheet source_sheet=Customers \
    main_key=CustomerID source_key=ID fetch_columns=Name,City`,
		Args:    cobra.MinimumNArgs(2),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := cli.ParseBlockType(args[1])
			if err != nil {
				return err
			}
			pairs, err := cli.ParseAssignments(args[2:])
			if err != nil {
				return err
			}

			s, err := openSession(args[0])
			if err != nil {
				return err
			}
			blk := s.builder.AddBlock(t)
			if err := assign(s.builder, blk.ID, pairs, manual); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}

			cli.PrintSuccess("Added %s as step %d of %s", validate.BlockName(t), s.builder.Len(), s.pipeline.Name)
			if blk, ok := s.builder.Block(blk.ID); ok {
				if missing := validate.Block(blk); len(missing) > 0 {
					cli.PrintWarning("Still missing: %s", strings.Join(missing, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&manual, "manual", false, "Treat column values as manually typed references")

	return cmd
}

// NewRemoveCommand creates the remove command
func NewRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <pipeline> <step>",
		Short: "Remove a step from a pipeline",
		Long: `Remove a step by its 1-based position, as shown by 'opradox show'.

Examples:
  opradox remove sales 2`,
		Args:    cobra.ExactArgs(2),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(args[0])
			if err != nil {
				return err
			}
			id, err := s.blockAt(args[1])
			if err != nil {
				return err
			}
			blk, _ := s.builder.Block(id)

			if !skipConfirm(cmd) {
				confirmed, err := cli.Confirm(fmt.Sprintf("Remove step %s (%s)?", args[1], validate.BlockName(blk.Type)), true)
				if err != nil {
					return err
				}
				if !confirmed {
					cli.PrintInfo("Remove cancelled")
					return nil
				}
			}

			s.builder.RemoveBlock(id)
			if err := s.save(); err != nil {
				return err
			}
			cli.PrintSuccess("Removed %s from %s", validate.BlockName(blk.Type), s.pipeline.Name)
			return nil
		},
	}

	return cmd
}

// NewMoveCommand creates the move command
func NewMoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <pipeline> <step> up|down",
		Short: "Move a step one position up or down",
		Long: `Swap a step with its neighbour. Moving the first step up or the last
step down leaves the pipeline unchanged.

Examples:
  opradox move sales 3 up`,
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"up", "down"},
		PreRunE:   requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir int
			switch strings.ToLower(args[2]) {
			case "up":
				dir = builder.Up
			case "down":
				dir = builder.Down
			default:
				return fmt.Errorf("direction must be up or down, got %q", args[2])
			}

			s, err := openSession(args[0])
			if err != nil {
				return err
			}
			id, err := s.blockAt(args[1])
			if err != nil {
				return err
			}
			before := s.builder.Blocks()
			s.builder.MoveBlock(id, dir)
			after := s.builder.Blocks()
			if samePositions(before, after) {
				cli.PrintInfo("Step %s is already at the %s", args[1], map[int]string{builder.Up: "top", builder.Down: "bottom"}[dir])
				return nil
			}

			if err := s.save(); err != nil {
				return err
			}
			cli.PrintSuccess("Moved step %s %s", args[1], strings.ToLower(args[2]))
			return nil
		},
	}

	return cmd
}

func samePositions(a, b []models.Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
