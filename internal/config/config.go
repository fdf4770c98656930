package config

import (
	"path/filepath"
)

// Config holds all configuration for the application
type Config struct {
	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	Save           bool
	NoColor        bool

	// Logging settings
	LogLevel  string
	LogFormat string

	// Storage settings
	Storage string
	DBDSN   string
	DBTable string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
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

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		Storage:        DefaultStorage,
		DBTable:        DefaultDBTable,
	}
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Apply(flags)
	return cfg
}

// Apply stores flags and lets every set flag override the current value
func (c *Config) Apply(flags Flags) {
	c.Flags = flags

	if flags.Save {
		c.Save = true
	}
	if flags.NoColor {
		c.NoColor = true
	}
	if flags.OutputDir != "" {
		c.OutputJSONDir = flags.OutputDir
	}
	if flags.OutputFile != "" {
		c.OutputJSONFile = flags.OutputFile
	}
	if flags.Storage != "" {
		c.Storage = flags.Storage
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// GetOutputPath returns the full path to the output JSON file. It resolves
// to an absolute path so run, list and failures agree regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// UseMySQL reports whether results go to MySQL instead of the JSON file
func (c *Config) UseMySQL() bool {
	return c.Storage == StorageMySQL
}
