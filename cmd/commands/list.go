package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/validate"
)

// ListResult represents the output structure for list command
type ListResult struct {
	Items []ListItem `json:"items" yaml:"items"`
	Count int        `json:"count" yaml:"count"`
}

// ListItem represents a single pipeline in the list
type ListItem struct {
	Name        string `json:"name" yaml:"name"`
	Filename    string `json:"filename" yaml:"filename"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Steps       int    `json:"steps" yaml:"steps"`
	Valid       bool   `json:"valid" yaml:"valid"`
	IsArchived  bool   `json:"is_archived,omitempty" yaml:"is_archived,omitempty"`
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	var showArchived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved pipelines",
		Long: `List the pipelines saved in the current project.

Examples:
  # List pipelines
  opradox list

  # List archived pipelines as JSON
  opradox list --archived -o json`,
		Args:    cobra.NoArgs,
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := listPipelines(showArchived)
			if err != nil {
				return fmt.Errorf("failed to list pipelines: %w", err)
			}

			format := outputFormat(cmd)
			if cli.IsStructured(format) {
				return cli.OutputResults(cmd.OutOrStdout(), format, result)
			}
			return outputListText(cmd, result)
		},
	}

	cmd.Flags().BoolVarP(&showArchived, "archived", "a", false, "Show only archived pipelines")

	return cmd
}

func listPipelines(archived bool) (ListResult, error) {
	list, read := files.ListPipelines, files.ReadPipeline
	if archived {
		list, read = files.ListArchivedPipelines, files.ReadArchivedPipeline
	}

	names, err := list()
	if err != nil {
		return ListResult{}, err
	}

	result := ListResult{Items: []ListItem{}}
	for _, name := range names {
		p, err := read(name)
		if err != nil {
			cli.PrintWarning("Failed to load pipeline %s: %v", name, err)
			continue
		}
		result.Items = append(result.Items, ListItem{
			Name:        p.Name,
			Filename:    name,
			Description: p.Description,
			Steps:       len(p.Steps),
			Valid:       validate.Pipeline(blocksOf(p)).Valid,
			IsArchived:  archived,
		})
	}
	result.Count = len(result.Items)
	return result, nil
}

func outputListText(cmd *cobra.Command, result ListResult) error {
	if result.Count == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pipelines found")
		return nil
	}

	table := cli.NewTableFormatter(cmd.OutOrStdout())
	table.Header("NAME", "FILE", "STEPS", "STATUS")
	for _, item := range result.Items {
		status := "valid"
		if !item.Valid {
			status = "incomplete"
		}
		table.Row(cli.TruncateString(item.Name, 40), item.Filename, strconv.Itoa(item.Steps), status)
	}
	table.Flush()
	return nil
}

// blocksOf numbers the steps of p from 1, the ids a fresh builder would give.
func blocksOf(p *models.Pipeline) []models.Block {
	blocks := make([]models.Block, len(p.Steps))
	for i, s := range p.Steps {
		blocks[i] = models.Block{ID: i + 1, Type: s.Type, Config: s.Config}
	}
	return blocks
}
