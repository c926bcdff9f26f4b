package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/schema"
)

// TypeInfo describes one block type for the types command.
type TypeInfo struct {
	Type     string   `json:"type" yaml:"type"`
	Label    string   `json:"label" yaml:"label"`
	Category string   `json:"category" yaml:"category"`
	Required []string `json:"required" yaml:"required"`
	Fields   []string `json:"fields" yaml:"fields"`
	Variants []string `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// NewTypesCommand creates the types command
func NewTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the available step types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []TypeInfo
			for _, spec := range schema.Specs() {
				info := TypeInfo{
					Type:     string(spec.Type),
					Label:    spec.Label,
					Category: spec.Category,
					Required: append([]string{}, spec.Required...),
				}
				for _, f := range spec.Fields {
					info.Fields = append(info.Fields, f.Key)
				}
				if spec.Variants != nil {
					info.Variants = spec.Variants.Keys()
				}
				infos = append(infos, info)
			}

			format := outputFormat(cmd)
			if cli.IsStructured(format) {
				return cli.OutputResults(cmd.OutOrStdout(), format, infos)
			}

			table := cli.NewTableFormatter(cmd.OutOrStdout())
			table.Header("TYPE", "NAME", "CATEGORY", "REQUIRED")
			for _, info := range infos {
				table.Row(info.Type, info.Label, info.Category, strings.Join(info.Required, ", "))
			}
			table.Flush()
			return nil
		},
	}

	return cmd
}
