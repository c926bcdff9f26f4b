package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/client"
)

// NewDownloadCommand creates the download command
func NewDownloadCommand() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "download <scenario>",
		Short: "Download the last result of a scenario",
		Long: `Download the result of the last run of a scenario.

Examples:
  opradox download visual_builder
  opradox download visual_builder --format csv --out result.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cli.NewCommandContext()
			settings := ctx.LoadSettingsWithDefault()
			if format == "" {
				format = settings.Output.DefaultFormat
			}
			if !contains(client.Formats, format) {
				return fmt.Errorf("unsupported format %q (must be one of %v)", format, client.Formats)
			}
			if out == "" {
				out = filepath.Join(settings.Output.DownloadPath, args[0]+"."+format)
			}

			c, err := ctx.Client()
			if err != nil {
				return err
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}

			n, err := c.Download(cmd.Context(), args[0], format, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(out)
				return err
			}

			cli.PrintSuccess("Saved %s to %s", cli.FormatBytes(n), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "xlsx, csv or json (defaults to output.default_format)")
	cmd.Flags().StringVar(&out, "out", "", "Destination file")

	return cmd
}

// NewShareCommand creates the share command
func NewShareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share <scenario>",
		Short: "Create a share link for the last result of a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cli.NewCommandContext().Client()
			if err != nil {
				return err
			}
			res, err := c.Share(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			format := outputFormat(cmd)
			if cli.IsStructured(format) {
				return cli.OutputResults(cmd.OutOrStdout(), format, res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.URL)
			if res.ExpiresAt != "" {
				cli.PrintInfo("Expires at %s", res.ExpiresAt)
			}
			return nil
		},
	}

	return cmd
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
