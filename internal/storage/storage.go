package storage

import (
	"context"
	"fmt"
	"time"

	"ptest/internal/config"
	"ptest/internal/domain"
)

// Storage persists and loads the last run's results (e.g. for the failures viewer).
type Storage interface {
	Save(ctx context.Context, result domain.RunResult, finishedAt time.Time) error
	Load(ctx context.Context) (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after resolving failures in the viewer).
	SaveOutput(ctx context.Context, output *domain.TestResultsOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Open returns the backend selected by cfg. The caller closes it.
func Open(cfg *config.Config) (Storage, func() error, error) {
	if !cfg.UseMySQL() {
		return NewJSONStorage(cfg), func() error { return nil }, nil
	}

	dsn := cfg.DBDSN
	if dsn == "" {
		dsn = DSNFromEnv()
	}
	st, err := NewMySQLStorage(dsn, cfg.DBTable)
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql storage: %w", err)
	}
	return st, st.Close, nil
}
