package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
)

// NewValuesCommand creates the values command
func NewValuesCommand() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "values <file> <column>",
		Short: "List the distinct values of a column",
		Long: `Ask the backend for the distinct values of a column, useful when
choosing a filter value.

Examples:
  opradox values orders.xlsx Region
  opradox values orders.xlsx Status --sheet 2024 -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateFilePath(args[0]); err != nil {
				return err
			}
			c, err := cli.NewCommandContext().Client()
			if err != nil {
				return err
			}
			values, err := c.UniqueValues(cmd.Context(), args[0], sheet, args[1])
			if err != nil {
				return err
			}

			format := outputFormat(cmd)
			if cli.IsStructured(format) {
				return cli.OutputResults(cmd.OutOrStdout(), format, values)
			}
			for _, v := range values {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			if len(values) == 0 {
				cli.PrintInfo("Column %s has no values", args[1])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet of the workbook")

	return cmd
}
