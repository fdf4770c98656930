package commands

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ptest/internal/cli"
	"ptest/internal/config"
	"ptest/internal/registry"
	"ptest/internal/storage"
	"ptest/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies. Storage is opened by
// each command once flags are parsed, since flags can pick the backend.
func NewCommands(cfg *config.Config, reg *registry.Registry, out io.Writer) *Commands {
	formatter := ui.NewFormatter(out)
	openStorage := func() (storage.Storage, func() error, error) {
		return storage.Open(cfg)
	}
	newViewer := func(st storage.Storage) ui.Viewer {
		return ui.NewErrorViewer(st, out)
	}

	return &Commands{
		Run:      NewRunCommand(cfg, reg, formatter, openStorage, newViewer, out),
		List:     NewListCommand(cfg, reg, formatter, openStorage),
		Failures: NewFailuresCommand(cfg, openStorage, newViewer, out),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Update config from the environment and then from flags after parsing
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cfg.LoadEnv(flags.EnvFile); err != nil {
			return err
		}
		cfg.Apply(flags.ToConfigFlags())
		if cfg.NoColor {
			color.NoColor = true
		}
		return nil
	}
	rootCmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", config.DefaultEnvFile, "Dotenv file to load before reading PTEST_* variables")
	rootCmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flags.OutputDir, "output-dir", "", "Directory of the saved results file (default \""+config.DefaultOutputJSONDir+"\")")
	rootCmd.PersistentFlags().StringVar(&flags.OutputFile, "output-file", "", "Name of the saved results file (default \""+config.DefaultOutputJSONFile+"\")")
	rootCmd.PersistentFlags().StringVar(&flags.Storage, "storage", "", "Results storage backend: json or mysql")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run all registered tests",
		Long:  "Run every registered test in declaration order and report pass/fail counts. Exits 1 if any test failed.",
		Args:  cobra.NoArgs,
		RunE:  c.Run.Execute,
	}
	rootCmd.AddCommand(runCmd)

	// A bare "ptest" is "ptest run", so the driver always runs the tests
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = c.Run.Execute
	for _, fs := range []*pflag.FlagSet{runCmd.Flags(), rootCmd.Flags()} {
		fs.BoolVar(&flags.Save, "save", false, "Save results for the list and failures commands")
		fs.BoolVar(&flags.Progress, "progress", false, "Show a progress bar instead of one line per test")
		fs.BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures (implies --save)")
	}

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered tests",
		Long:  "List registered tests in declaration order without running them, marking those that failed in the last saved run",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View failures of the last saved run",
		Long:  "Display failures from the last saved test run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Failures.Execute,
	}
	failuresCmd.Flags().BoolVar(&flags.Plain, "plain", false, "Print failures as plain text instead of opening the viewer")
	rootCmd.AddCommand(failuresCmd)
}

// NewRootCommand builds the ptest command tree around reg
func NewRootCommand(reg *registry.Registry, version string, out, errOut io.Writer) (*cobra.Command, *Commands) {
	rootCmd := &cobra.Command{
		Use:           "ptest",
		Short:         "Registered test runner",
		Long:          `Runs every registered test case sequentially, isolating failed assertions to the test that raised them, and reports pass/fail counts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	cmds := NewCommands(cfg, reg, out)
	cmds.Register(rootCmd, &flags, cfg)
	return rootCmd, cmds
}
