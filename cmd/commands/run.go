package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/client"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/runner"
)

// runFlags are the input files shared by run and scenario.
type runFlags struct {
	file        string
	secondFile  string
	sheet       string
	secondSheet string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "Main workbook (.xlsx or .csv)")
	cmd.Flags().StringVar(&f.secondFile, "second", "", "Second workbook for lookups and comparisons")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet of the main workbook")
	cmd.Flags().StringVar(&f.secondSheet, "second-sheet", "", "Sheet of the second workbook")
	cmd.MarkFlagRequired("file")
}

func (f *runFlags) validate() error {
	if err := cli.ValidateFilePath(f.file); err != nil {
		return err
	}
	if f.secondFile != "" {
		return cli.ValidateFilePath(f.secondFile)
	}
	return nil
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var (
		flags     runFlags
		scenario  string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "run <pipeline>",
		Short: "Run a pipeline on the backend",
		Long: `Validate a pipeline and run it against a workbook on the backend.

Nothing is sent when a step is missing a required setting. Every run that
reaches the backend is recorded in the project history.

Examples:
  opradox run sales --file orders.xlsx
  opradox run enrichment --file orders.xlsx --second customers.xlsx --second-sheet Master`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			p, err := files.LoadPipeline(args[0])
			if err != nil {
				return err
			}

			ctx := cli.NewCommandContext()
			settings, err := ctx.LoadSettings()
			if err != nil {
				return err
			}
			c, err := ctx.Client()
			if err != nil {
				return err
			}

			opts := append(runner.FromSettings(settings), runner.WithLogger(ctx.Logger()))
			if !noHistory {
				store, err := ctx.History()
				if err != nil {
					cli.PrintWarning("Run history disabled: %v", err)
				} else {
					defer store.Close()
					opts = append(opts, runner.WithRecorder(store))
				}
			}

			if scenario == "" {
				scenario = p.Scenario
			}
			in := runner.Inputs{
				Pipeline:    p.Name,
				Scenario:    scenario,
				File:        flags.file,
				SecondFile:  flags.secondFile,
				Sheet:       flags.sheet,
				SecondSheet: flags.secondSheet,
			}

			cli.PrintInfo("Running %s (%d steps) on %s...", p.Name, len(p.Steps), c.BaseURL())
			res, err := runner.New(c, opts...).Run(cmd.Context(), blocksOf(p), in)
			if err != nil {
				var verr *runner.ValidationError
				if errors.As(err, &verr) {
					cmd.SilenceUsage = true
				}
				return err
			}
			return outputRunResult(cmd, res)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&scenario, "scenario", "", "Override the scenario id")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run")

	return cmd
}

func outputRunResult(cmd *cobra.Command, res *client.RunResult) error {
	format := outputFormat(cmd)
	if cli.IsStructured(format) {
		return cli.OutputResults(cmd.OutOrStdout(), format, res)
	}

	out := cmd.OutOrStdout()
	cli.PrintSuccess("Run finished")
	if s := strings.TrimSpace(res.Summary); s != "" {
		writeWrapped(out, s)
	}
	if res.RowCount > 0 {
		fmt.Fprintf(out, "Rows: %d\n", res.RowCount)
	}
	if res.ExcelAvailable {
		cli.PrintInfo("Result ready. Fetch it with 'opradox download <scenario>'")
	}
	return nil
}

func writeWrapped(w io.Writer, text string) {
	fmt.Fprintln(w, wordwrap.String(text, 80))
}
