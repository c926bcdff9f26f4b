package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/client"
	"github.com/opradox/opradox-cli/pkg/runner"
)

// NewScenarioCommand creates the scenario command
func NewScenarioCommand() *cobra.Command {
	var (
		flags      runFlags
		params     string
		fields     []string
		crossSheet bool
	)

	cmd := &cobra.Command{
		Use:   "scenario <id>",
		Short: "Run a backend scenario directly",
		Long: `Run any backend scenario with a parameter blob, without a saved pipeline.

Examples:
  opradox scenario vlookup --file orders.xlsx --second customers.xlsx \
    --params '{"lookup_column": "ID", "return_columns": ["Name"]}'

  opradox scenario duplicates --file data.csv --field column=Email`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			if params != "" && !json.Valid([]byte(params)) {
				return fmt.Errorf("--params must be valid JSON")
			}
			extra, err := cli.ParseAssignments(fields)
			if err != nil {
				return err
			}

			ctx := cli.NewCommandContext()
			settings := ctx.LoadSettingsWithDefault()
			c, err := ctx.Client()
			if err != nil {
				return err
			}

			paramField := settings.Builder.ParamField
			if paramField == "" {
				paramField = runner.DefaultParamField
			}
			req := client.RunRequest{
				File:        flags.file,
				SecondFile:  flags.secondFile,
				Sheet:       flags.sheet,
				SecondSheet: flags.secondSheet,
				CrossSheet:  crossSheet,
				Fields:      map[string]string{},
			}
			if params != "" {
				req.Fields[paramField] = params
			}
			for _, a := range extra {
				req.Fields[a.Key] = a.Value
			}

			res, err := c.RunScenario(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return outputRunResult(cmd, res)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&params, "params", "", "JSON parameters for the scenario")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Extra form field as key=value (repeatable)")
	cmd.Flags().BoolVar(&crossSheet, "crosssheet", false, "Read the second table from --second-sheet of the main file")

	return cmd
}
