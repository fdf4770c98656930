package commands

import (
	"github.com/spf13/cobra"

	"ptest/internal/config"
	"ptest/internal/registry"
	"ptest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config      *config.Config
	registry    *registry.Registry
	formatter   *ui.Formatter
	openStorage storageOpener
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	reg *registry.Registry,
	formatter *ui.Formatter,
	openStorage storageOpener,
) *ListCommand {
	return &ListCommand{
		config:      cfg,
		registry:    reg,
		formatter:   formatter,
		openStorage: openStorage,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	// Failure markers are best effort: no saved run just means no markers.
	var failed map[string]struct{}
	if st, closeFn, err := lc.openStorage(); err == nil {
		defer closeFn()
		if last, err := st.Load(cmd.Context()); err == nil {
			failed = last.FailedNames()
		}
	}

	lc.formatter.PrintTestList(lc.registry.Names(), failed)
	return nil
}
