package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv reads envFile (if it exists) into the process environment and
// applies PTEST_* variables on top of the current values. Variables already
// set in the environment win over the file.
func (c *Config) LoadEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(EnvSave); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSave, err)
		}
		c.Save = b
	}
	if v := os.Getenv(EnvNoColor); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvNoColor, err)
		}
		c.NoColor = b
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputJSONDir = v
	}
	if v := os.Getenv(EnvOutputFile); v != "" {
		c.OutputJSONFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		c.Storage = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		c.DBDSN = v
		// A DSN alone selects MySQL unless a backend was named explicitly.
		if os.Getenv(EnvStorage) == "" {
			c.Storage = StorageMySQL
		}
	}
	if v := os.Getenv(EnvDBTable); v != "" {
		c.DBTable = v
	}
	return nil
}
