package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/pkg/examples"
)

func NewExamplesCommand() *cobra.Command {
	var category string
	var listOnly bool
	var force bool

	cmd := &cobra.Command{
		Use:   "examples [category]",
		Short: "Add example pipelines to your project",
		Long: `Add example pipelines to your .opradox directory.

Examples show common ways to combine steps. Column names in them are
placeholders for your own workbook's headers; change them with 'opradox set'.

Categories:
  sales        - Regional summaries, rankings and charts
  customers    - Lookups against master data and what-if formulas
  quality      - Validation against reference lists
  all          - Install every category (default)

The pipelines are saved with an 'example-' prefix to distinguish them from
your own.`,
		Example: `  # Add all examples
  opradox examples

  # Add the sales examples
  opradox examples sales

  # List available examples without installing
  opradox examples --list

  # Force overwrite existing examples
  opradox examples quality --force`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: requireProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				category = args[0]
			} else if category == "" {
				category = "all"
			}

			validCategories := append(examples.Categories(), "all")
			if !contains(validCategories, category) {
				return fmt.Errorf("invalid category '%s'. Valid categories: %s",
					category, strings.Join(validCategories, ", "))
			}

			if listOnly {
				return listExamples(cmd, category)
			}
			return installExamples(cmd, category, force)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category of examples to add")
	cmd.Flags().BoolVarP(&listOnly, "list", "l", false, "List available examples without installing")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing example files")

	return cmd
}

func listExamples(cmd *cobra.Command, category string) error {
	out := cmd.OutOrStdout()
	quiet := isQuiet(cmd)

	if !quiet {
		if category == "all" {
			fmt.Fprintf(out, "Available examples (all categories):\n\n")
		} else {
			fmt.Fprintf(out, "Available examples in category '%s':\n\n", category)
		}
	}

	for _, set := range examples.GetExamples(category) {
		if !quiet {
			if category == "all" {
				fmt.Fprintf(out, "📦 [%s] %s\n", set.Category, set.Name)
			} else {
				fmt.Fprintf(out, "📦 %s\n", set.Name)
			}
			fmt.Fprintf(out, "   %s\n\n", set.Description)
		}

		fmt.Fprintf(out, "   Pipelines:\n")
		for _, p := range set.Pipelines {
			fmt.Fprintf(out, "   • %s (%d steps): %s\n", p.Name, len(p.Steps), p.Description)
		}
		fmt.Fprintln(out)
	}

	if !quiet {
		fmt.Fprintf(out, "To install these examples, run: opradox examples %s\n", category)
	}
	return nil
}

func installExamples(cmd *cobra.Command, category string, force bool) error {
	out := cmd.OutOrStdout()
	quiet := isQuiet(cmd)

	if !quiet {
		fmt.Fprintf(out, "Installing %s examples...\n\n", category)
	}

	installed, skipped := 0, 0
	for _, set := range examples.GetExamples(category) {
		if !quiet {
			fmt.Fprintf(out, "📦 Installing %s...\n", set.Name)
		}

		for _, p := range set.Pipelines {
			ok, err := examples.InstallPipeline(p, force)
			if err != nil {
				if !force && strings.Contains(err.Error(), "already exists") {
					skipped++
					if !quiet {
						fmt.Fprintf(out, "   ⚠️  Skipped %s (already exists, use --force to overwrite)\n", p.Name)
					}
					continue
				}
				return fmt.Errorf("failed to install pipeline %s: %w", p.Name, err)
			}
			if ok {
				installed++
				if !quiet {
					fmt.Fprintf(out, "   ✓ Installed pipeline %s\n", p.Filename)
				}
			}
		}

		if !quiet {
			fmt.Fprintln(out)
		}
	}

	if !quiet {
		fmt.Fprintf(out, "✨ Installation complete!\n\n")
		fmt.Fprintf(out, "Installed %d pipelines\n", installed)
		if skipped > 0 {
			fmt.Fprintf(out, "Skipped %d (already exist)\n", skipped)
		}
		fmt.Fprintf(out, "\n💡 Tips:\n")
		fmt.Fprintf(out, "  • Run 'opradox show example-sales-summary' to see the steps\n")
		fmt.Fprintf(out, "  • Point the column settings at your own headers with 'opradox set'\n")
	}
	return nil
}
