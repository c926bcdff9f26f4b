package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var (
		limit     int
		pruneDays int
	)

	cmd := &cobra.Command{
		Use:   "history [pipeline]",
		Short: "Show recent pipeline runs",
		Long: `Show the most recent runs recorded in .opradox/history.db.

Examples:
  opradox history
  opradox history "Sales Summary" --limit 5
  opradox history --prune 30`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cli.NewCommandContext().History()
			if err != nil {
				return err
			}
			defer store.Close()

			if pruneDays > 0 {
				n, err := store.Prune(cmd.Context(), time.Now().AddDate(0, 0, -pruneDays))
				if err != nil {
					return err
				}
				cli.PrintSuccess("Removed %d runs older than %d days", n, pruneDays)
				return nil
			}

			pipeline := ""
			if len(args) > 0 {
				pipeline = args[0]
			}
			entries, err := store.Recent(cmd.Context(), pipeline, limit)
			if err != nil {
				return err
			}

			format := outputFormat(cmd)
			if cli.IsStructured(format) {
				return cli.OutputResults(cmd.OutOrStdout(), format, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}

			table := cli.NewTableFormatter(cmd.OutOrStdout())
			table.Header("STARTED", "PIPELINE", "STEPS", "DURATION", "STATUS")
			for _, e := range entries {
				status := e.Status
				if e.Status == history.StatusFailed && e.Error != "" {
					status += ": " + cli.TruncateString(e.Error, 50)
				}
				table.Row(e.StartedAt.Local().Format("2006-01-02 15:04"), e.Pipeline, strconv.Itoa(e.Blocks),
					e.Duration.Round(time.Millisecond).String(), status)
			}
			table.Flush()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().IntVar(&pruneDays, "prune", 0, "Delete runs older than this many days")

	return cmd
}
