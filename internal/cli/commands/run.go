package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ptest/internal/cli"
	"ptest/internal/config"
	"ptest/internal/domain"
	"ptest/internal/registry"
	"ptest/internal/storage"
	"ptest/internal/ui"
)

type storageOpener func() (storage.Storage, func() error, error)

type viewerFactory func(st storage.Storage) ui.Viewer

// RunCommand handles the run command
type RunCommand struct {
	config      *config.Config
	registry    *registry.Registry
	formatter   *ui.Formatter
	openStorage storageOpener
	newViewer   viewerFactory
	out         io.Writer
	now         func() time.Time

	// ExitCode is the process exit code of the last Execute
	ExitCode int
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	reg *registry.Registry,
	formatter *ui.Formatter,
	openStorage storageOpener,
	newViewer viewerFactory,
	out io.Writer,
) *RunCommand {
	return &RunCommand{
		config:      cfg,
		registry:    reg,
		formatter:   formatter,
		openStorage: openStorage,
		newViewer:   newViewer,
		out:         out,
		now:         time.Now,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	logger := cli.NewLogger(rc.config.LogLevel, rc.config.LogFormat, cmd.ErrOrStderr())

	reporter := ui.NewReporter(rc.out)
	if rc.config.Flags.Progress {
		reporter.SetProgress(ui.NewProgressBar(rc.registry.Len(), cmd.ErrOrStderr()))
	}

	result := rc.registry.Run(
		registry.WithReporter(reporter),
		registry.WithLogger(logger),
		registry.WithClock(rc.now),
	)
	rc.ExitCode = registry.ExitCode(result)

	output := domain.NewTestResultsOutput(result, rc.now())
	save := rc.config.Save || rc.config.Flags.OpenFailures

	var st storage.Storage
	if save {
		var closeFn func() error
		var err error
		st, closeFn, err = rc.openStorage()
		if err != nil {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "Warning: results not saved: %v\n", err)
			st = nil
		} else {
			defer closeFn()
			if err := st.Save(cmd.Context(), result, rc.now()); err != nil {
				color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "Warning: failed to save test results: %v\n", err)
				st = nil
			} else {
				logger.Debug("saved results", "storage", rc.config.Storage, "path", rc.config.GetOutputPath())
			}
		}
	}

	// Print stats
	rc.formatter.PrintSummary(output)

	if rc.config.Flags.OpenFailures && !result.OK() && st != nil {
		saved, err := st.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load saved results: %w", err)
		}
		return rc.newViewer(st).View(cmd.Context(), saved)
	}
	return nil
}
