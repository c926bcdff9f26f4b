package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/export"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/models"
	"github.com/opradox/opradox-cli/pkg/schema"
	"github.com/opradox/opradox-cli/pkg/validate"
)

// ShowResult is the structured form of a pipeline listing.
type ShowResult struct {
	Name        string     `json:"name" yaml:"name"`
	Filename    string     `json:"filename" yaml:"filename"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Scenario    string     `json:"scenario,omitempty" yaml:"scenario,omitempty"`
	Valid       bool       `json:"valid" yaml:"valid"`
	Steps       []ShowStep `json:"steps" yaml:"steps"`
}

// ShowStep is one step with its validation status.
type ShowStep struct {
	Position int            `json:"position" yaml:"position"`
	Type     string         `json:"type" yaml:"type"`
	Name     string         `json:"name" yaml:"name"`
	Action   string         `json:"action" yaml:"action"`
	Missing  []string       `json:"missing,omitempty" yaml:"missing,omitempty"`
	Config   map[string]any `json:"config" yaml:"config"`
}

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <pipeline>",
		Short: "Show the steps of a pipeline",
		Long: `Show each step of a pipeline with its settings and what it still needs.

Examples:
  opradox show sales
  opradox show sales -o yaml`,
		Args:    cobra.ExactArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := files.LoadPipeline(args[0])
			if err != nil {
				return err
			}

			blocks := blocksOf(p)
			result := ShowResult{
				Name:        p.Name,
				Filename:    p.Path,
				Description: p.Description,
				Scenario:    p.Scenario,
				Valid:       validate.Pipeline(blocks).Valid,
				Steps:       []ShowStep{},
			}
			for i, b := range blocks {
				result.Steps = append(result.Steps, ShowStep{
					Position: i + 1,
					Type:     string(b.Type),
					Name:     validate.BlockName(b.Type),
					Action:   schema.DescribeAction(export.Block(b)),
					Missing:  validate.Block(b),
					Config:   b.Config,
				})
			}

			format := outputFormat(cmd)
			if cli.IsStructured(format) {
				return cli.OutputResults(cmd.OutOrStdout(), format, result)
			}
			return outputShowText(cmd, result)
		},
	}

	return cmd
}

func outputShowText(cmd *cobra.Command, result ShowResult) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pipeline: %s (%s)\n", result.Name, result.Filename)
	if result.Description != "" {
		fmt.Fprintf(out, "%s\n", result.Description)
	}
	if len(result.Steps) == 0 {
		fmt.Fprintln(out, "\nNo steps yet")
		return nil
	}

	fmt.Fprintln(out)
	for _, step := range result.Steps {
		mark := "✓"
		if len(step.Missing) > 0 {
			mark = "✗"
		}
		fmt.Fprintf(out, "%s %d. %s [%s]\n", mark, step.Position, step.Name, step.Action)
		keys := make([]string, 0, len(step.Config))
		for k := range step.Config {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := step.Config[k]; !schema.Missing(v) {
				fmt.Fprintf(out, "     %s: %v\n", k, displayValue(v))
			}
		}
		if len(step.Missing) > 0 {
			fmt.Fprintf(out, "     missing: %s\n", strings.Join(step.Missing, ", "))
		}
	}

	if result.Valid {
		fmt.Fprintln(out, "\nPipeline is valid")
	} else {
		fmt.Fprintln(out, "\nPipeline is incomplete")
	}
	return nil
}

func displayValue(v any) any {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = fmt.Sprint(displayValue(item))
		}
		return strings.Join(parts, ", ")
	}
	if ref, ok := models.AsColumnRef(v); ok {
		return fmt.Sprintf("%s (%s)", ref.Value, ref.Source)
	}
	return v
}
