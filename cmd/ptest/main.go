package main

import (
	"fmt"
	"os"

	"ptest/internal/cli/commands"
	"ptest/internal/examples/vector"
	"ptest/internal/registry"
)

var version = "dev"

func main() {
	// Registration pass: every test package declares into the one registry
	// before anything runs.
	reg := registry.Default()
	vector.Register(reg)
	reg.Seal()

	os.Exit(run(reg, os.Args[1:]))
}

// run executes the command line against reg and returns the exit code
func run(reg *registry.Registry, args []string) int {
	rootCmd, cmds := commands.NewRootCommand(reg, version, os.Stdout, os.Stderr)
	rootCmd.SetArgs(args)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return cmds.Run.ExitCode
}
