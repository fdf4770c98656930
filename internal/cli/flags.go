package cli

import "ptest/internal/config"

// Flags holds command-line flags
type Flags struct {
	EnvFile      string
	Save         bool
	NoColor      bool
	Progress     bool
	OutputDir    string
	OutputFile   string
	Storage      string
	LogLevel     string
	OpenFailures bool
	Plain        bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Save:         f.Save,
		NoColor:      f.NoColor,
		Progress:     f.Progress,
		OutputDir:    f.OutputDir,
		OutputFile:   f.OutputFile,
		Storage:      f.Storage,
		LogLevel:     f.LogLevel,
		OpenFailures: f.OpenFailures,
		Plain:        f.Plain,
	}
}
