package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ptest/internal/domain"
)

// Save writes the run's results and failures to the configured JSON output file.
func (s *JSONStorage) Save(ctx context.Context, result domain.RunResult, finishedAt time.Time) error {
	return s.SaveOutput(ctx, domain.NewTestResultsOutput(result, finishedAt))
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load(ctx context.Context) (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(ctx context.Context, output *domain.TestResultsOutput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
