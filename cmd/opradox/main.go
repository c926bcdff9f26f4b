package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/opradox/opradox-cli/cmd/commands"
	"github.com/opradox/opradox-cli/internal/cli"
	"github.com/opradox/opradox-cli/pkg/files"
	"github.com/opradox/opradox-cli/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	tuiPipeline   string
	tuiFile       string
	tuiSecondFile string
)

var rootCmd = &cobra.Command{
	Use:   "opradox",
	Short: "Terminal builder for opradox spreadsheet pipelines",
	Long: `Opradox builds spreadsheet processing pipelines step by step, checks them and
runs them on the opradox backend. Pipelines are stored as YAML files under
.opradox/ and can be edited in the TUI or with the subcommands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		noColor, _ := cmd.Flags().GetBool("no-color")
		yes, _ := cmd.Flags().GetBool("yes")
		verbose, _ := cmd.Flags().GetBool("verbose")
		apiURL, _ := cmd.Flags().GetString("api-url")
		output, _ := cmd.Flags().GetString("output")

		cli.SetGlobalFlags(quiet, noColor, yes)
		cli.SetVerbose(verbose)
		cli.SetAPIURL(apiURL)
		return cli.ValidateOutputFormat(output)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(files.OpradoxDir); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: No .opradox directory found in the current directory.\n")
			fmt.Fprintf(os.Stderr, "Please run 'opradox init' first to initialize a new project.\n")
			os.Exit(1)
		}

		ctx := cli.NewCommandContext()
		settings := ctx.LoadSettingsWithDefault()
		c, err := ctx.Client()
		if err != nil {
			return err
		}

		opts := tui.Options{
			Settings:   settings,
			Client:     c,
			Pipeline:   tuiPipeline,
			MainFile:   tuiFile,
			SecondFile: tuiSecondFile,
			Logger:     ctx.Logger(),
		}
		if store, err := ctx.History(); err == nil {
			defer store.Close()
			opts.Recorder = store
		} else {
			ctx.Logger().Warn("run history disabled", "error", err)
		}

		app, err := tui.NewApp(opts)
		if err != nil {
			return err
		}
		p := tea.NewProgram(app, tea.WithAltScreen())
		app.Attach(p)
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to start the terminal user interface: %v\n", err)
			fmt.Fprintf(os.Stderr, "This could be due to terminal compatibility issues. Try running in a different terminal.\n")
			os.Exit(1)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new opradox project",
	Long:  `Creates the .opradox folder structure and a default settings file in the current directory`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to determine current directory: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Initializing opradox project in %s...\n", cwd)

		if err := files.InitProjectStructure(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to initialize project structure: %v\n", err)
			fmt.Fprintf(os.Stderr, "Make sure you have write permissions in the current directory.\n")
			os.Exit(1)
		}

		fmt.Println("✓ Created .opradox folder structure")
		fmt.Println("✓ You can now create pipelines!")
		fmt.Println("\nRun 'opradox' to start the interactive builder, or 'opradox examples' to add examples.")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of opradox",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("opradox version %s\n", version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolP("quiet", "q", false, "Suppress informational output")
	flags.Bool("no-color", false, "Plain text markers instead of symbols")
	flags.BoolP("yes", "y", false, "Answer yes to confirmations")
	flags.BoolP("verbose", "v", false, "Log diagnostics to stderr")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")
	flags.String("api-url", "", "Backend URL (overrides settings and OPRADOX_API_URL)")

	rootCmd.Flags().StringVarP(&tuiPipeline, "pipeline", "p", "", "Open this pipeline in the builder")
	rootCmd.Flags().StringVar(&tuiFile, "file", "", "Main workbook for column lists and runs")
	rootCmd.Flags().StringVar(&tuiSecondFile, "second", "", "Second workbook for lookups")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(
		commands.NewNewCommand(),
		commands.NewAddCommand(),
		commands.NewRemoveCommand(),
		commands.NewMoveCommand(),
		commands.NewSetCommand(),
		commands.NewListCommand(),
		commands.NewShowCommand(),
		commands.NewTypesCommand(),
		commands.NewValidateCommand(),
		commands.NewExportCommand(),
		commands.NewClipboardCommand(),
		commands.NewRunCommand(),
		commands.NewScenarioCommand(),
		commands.NewInspectCommand(),
		commands.NewValuesCommand(),
		commands.NewDownloadCommand(),
		commands.NewShareCommand(),
		commands.NewHistoryCommand(),
		commands.NewExamplesCommand(),
		commands.NewMigrateCommand(),
		commands.NewArchiveCommand(),
		commands.NewRestoreCommand(),
		commands.NewDeleteCommand(),
		commands.NewRenameCommand(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
