package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ptest/internal/config"
	"ptest/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config      *config.Config
	openStorage storageOpener
	newViewer   viewerFactory
	out         io.Writer
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config, openStorage storageOpener, newViewer viewerFactory, out io.Writer) *FailuresCommand {
	return &FailuresCommand{
		config:      cfg,
		openStorage: openStorage,
		newViewer:   newViewer,
		out:         out,
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	st, closeFn, err := fc.openStorage()
	if err != nil {
		return err
	}
	defer closeFn()

	results, err := st.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("no saved results (run with --save first): %w", err)
	}

	if fc.config.Flags.Plain {
		ui.PrintFailures(fc.out, results)
		return nil
	}
	return fc.newViewer(st).View(cmd.Context(), results)
}
