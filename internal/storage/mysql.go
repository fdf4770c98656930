package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"

	"ptest/internal/domain"
)

// ErrNoRuns is returned by Load when nothing has been saved yet
var ErrNoRuns = errors.New("no saved test runs")

var tablePrefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,48}$`)

// MySQLStorage stores each run in <prefix>_runs and its failures in
// <prefix>_failures. Load and SaveOutput work on the most recent run.
type MySQLStorage struct {
	db          *sql.DB
	runs        string
	fails       string
	schemaReady bool
}

// DSNFromEnv builds a DSN from the DB_HOST, DB_PORT, DB_USERNAME,
// DB_PASSWORD and DB_DATABASE variables, with local defaults.
func DSNFromEnv() string {
	host := getenv("DB_HOST", "127.0.0.1")
	port := getenv("DB_PORT", "3306")

	cfg := mysql.NewConfig()
	cfg.User = getenv("DB_USERNAME", "root")
	cfg.Passwd = os.Getenv("DB_PASSWORD")
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = getenv("DB_DATABASE", "ptest")
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewMySQLStorage validates dsn and prefix and opens a connection pool.
// No connection is made until the first query.
func NewMySQLStorage(dsn, prefix string) (*MySQLStorage, error) {
	if !tablePrefixPattern.MatchString(prefix) {
		return nil, fmt.Errorf("invalid table prefix %q", prefix)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, errors.New("invalid dsn: database name is required")
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	return &MySQLStorage{
		db:    sql.OpenDB(connector),
		runs:  prefix + "_runs",
		fails: prefix + "_failures",
	}, nil
}

// Close releases the connection pool
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}

func (s *MySQLStorage) ensureSchema(ctx context.Context) error {
	if s.schemaReady {
		return nil
	}
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	total INT NOT NULL,
	passed INT NOT NULL,
	failed INT NOT NULL,
	duration VARCHAR(64) NOT NULL,
	duration_seconds DOUBLE NOT NULL,
	finished_at DATETIME NOT NULL
)`, s.runs),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id BIGINT NOT NULL,
	position INT NOT NULL,
	test_name VARCHAR(255) NOT NULL,
	expression TEXT,
	message TEXT,
	file VARCHAR(1024),
	line INT,
	stack_trace TEXT,
	panic BOOLEAN NOT NULL DEFAULT FALSE,
	resolved BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (run_id, position)
)`, s.fails),
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	s.schemaReady = true
	return nil
}

// Save inserts the run and its failures in one transaction
func (s *MySQLStorage) Save(ctx context.Context, result domain.RunResult, finishedAt time.Time) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	output := domain.NewTestResultsOutput(result, finishedAt)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (total, passed, failed, duration, duration_seconds, finished_at) VALUES (?, ?, ?, ?, ?, ?)", s.runs),
		output.Meta.TotalTests, output.Meta.PassedTests, output.Meta.FailedTests,
		output.Meta.Duration, output.Meta.DurationSeconds, finishedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read run id: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (run_id, position, test_name, expression, message, file, line, stack_trace, panic, resolved) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.fails)
	for i, f := range output.Details {
		stack, err := json.Marshal(f.StackTrace)
		if err != nil {
			return fmt.Errorf("marshal stack trace: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insert,
			runID, i, f.TestName, f.Expression, f.Message, f.File, f.Line, string(stack), f.Panic, f.Resolved,
		); err != nil {
			return fmt.Errorf("failed to insert failure %s: %w", f.TestName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Load returns the most recent run
func (s *MySQLStorage) Load(ctx context.Context) (*domain.TestResultsOutput, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var (
		runID      int64
		output     domain.TestResultsOutput
		finishedAt time.Time
	)
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT id, total, passed, failed, duration, duration_seconds, finished_at FROM %s ORDER BY id DESC LIMIT 1", s.runs))
	err := row.Scan(&runID, &output.Meta.TotalTests, &output.Meta.PassedTests, &output.Meta.FailedTests,
		&output.Meta.Duration, &output.Meta.DurationSeconds, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	output.Meta.Timestamp = finishedAt.Format(time.RFC3339)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT test_name, expression, message, file, line, stack_trace, panic, resolved FROM %s WHERE run_id = ? ORDER BY position", s.fails), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load failures: %w", err)
	}
	defer rows.Close()

	output.Details = []domain.Failure{}
	for rows.Next() {
		var (
			f                      domain.Failure
			expr, msg, file, stack sql.NullString
			line                   sql.NullInt64
		)
		if err := rows.Scan(&f.TestName, &expr, &msg, &file, &line, &stack, &f.Panic, &f.Resolved); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		f.Expression = expr.String
		f.Message = msg.String
		f.File = file.String
		f.Line = int(line.Int64)
		if stack.Valid && stack.String != "" {
			if err := json.Unmarshal([]byte(stack.String), &f.StackTrace); err != nil {
				return nil, fmt.Errorf("parse stack trace: %w", err)
			}
		}
		output.Details = append(output.Details, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read failures: %w", err)
	}
	return &output, nil
}

// SaveOutput updates the resolved flags of the most recent run's failures
func (s *MySQLStorage) SaveOutput(ctx context.Context, output *domain.TestResultsOutput) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	var runID int64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT id FROM %s ORDER BY id DESC LIMIT 1", s.runs)).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRuns
	}
	if err != nil {
		return fmt.Errorf("failed to find run: %w", err)
	}

	update := fmt.Sprintf("UPDATE %s SET resolved = ? WHERE run_id = ? AND position = ?", s.fails)
	for i, f := range output.Details {
		if _, err := s.db.ExecContext(ctx, update, f.Resolved, runID, i); err != nil {
			return fmt.Errorf("failed to update failure %s: %w", f.TestName, err)
		}
	}
	return nil
}
