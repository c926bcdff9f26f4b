package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/client"
	"github.com/opradox/opradox-cli/pkg/workbook"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	var (
		sheet string
		local bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the sheets and columns of a workbook",
		Long: `Upload a workbook to the backend and list its sheets and columns.

With --local the file is read on this machine instead. The local reader is
also used when the backend cannot be reached.

Examples:
  opradox inspect orders.xlsx
  opradox inspect orders.xlsx --sheet Customers --local`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := cli.ValidateFilePath(path); err != nil {
				return err
			}

			var res *client.InspectResult
			var err error
			if local {
				res, err = workbook.Inspect(path, sheet)
			} else {
				res, err = inspectRemote(cmd, path, sheet)
			}
			if err != nil {
				return err
			}

			format := outputFormat(cmd)
			if cli.IsStructured(format) {
				return cli.OutputResults(cmd.OutOrStdout(), format, res)
			}
			return outputInspectText(cmd, res)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to inspect (defaults to the active sheet)")
	cmd.Flags().BoolVar(&local, "local", false, "Read the file locally instead of using the backend")

	return cmd
}

func inspectRemote(cmd *cobra.Command, path, sheet string) (*client.InspectResult, error) {
	c, err := cli.NewCommandContext().Client()
	if err != nil {
		return nil, err
	}
	res, err := c.Inspect(cmd.Context(), path, sheet)
	if err == nil {
		return res, nil
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return nil, err
	}
	cli.PrintWarning("Backend unreachable, reading the file locally: %v", err)
	return workbook.Inspect(path, sheet)
}

func outputInspectText(cmd *cobra.Command, res *client.InspectResult) error {
	out := cmd.OutOrStdout()
	if len(res.SheetNames) > 0 {
		sheets := make([]string, len(res.SheetNames))
		for i, s := range res.SheetNames {
			sheets[i] = s
			if s == res.ActiveSheet {
				sheets[i] = s + " *"
			}
		}
		fmt.Fprintf(out, "Sheets: %s\n", strings.Join(sheets, ", "))
	}
	fmt.Fprintf(out, "Rows: %d, columns: %d\n\n", res.RowCount, res.ColumnCount)

	table := cli.NewTableFormatter(out)
	table.Header("COL", "NAME")
	for _, name := range res.Columns {
		table.Row(res.ColumnLetters[name], name)
	}
	table.Flush()
	return nil
}
