package registry

import (
	"io"
	"log/slog"
	"time"

	"ptest/internal/domain"
)

// Reporter is notified as a run progresses
type Reporter interface {
	TestStarted(index, total int, name string)
	TestFinished(index, total int, outcome domain.Outcome)
	RunFinished(result domain.RunResult)
}

type nopReporter struct{}

func (nopReporter) TestStarted(int, int, string) {}
func (nopReporter) TestFinished(int, int, domain.Outcome) {}
func (nopReporter) RunFinished(domain.RunResult) {}

type runOptions struct {
	reporter Reporter
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a run
type Option func(*runOptions)

// WithReporter sets the reporter notified during the run
func WithReporter(rep Reporter) Option {
	return func(o *runOptions) {
		if rep != nil {
			o.reporter = rep
		}
	}
}

// WithLogger sets the logger used for run diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now for timing the run and its cases
func WithClock(now func() time.Time) Option {
	return func(o *runOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// Run seals the registry and executes every case in declaration order.
// A failing case never stops the run.
func (r *Registry) Run(opts ...Option) domain.RunResult {
	o := runOptions{
		reporter: nopReporter{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r.Seal()
	cases := r.Cases()
	total := len(cases)

	o.logger.Debug("starting run", "tests", total)
	start := o.now()

	var result domain.RunResult
	for i, c := range cases {
		o.reporter.TestStarted(i, total, c.Name())
		out := c.RunWithClock(o.now)
		result.Record(out)

		if out.Passed() {
			o.logger.Debug("test passed", "test", c.Name(), "duration", out.Duration)
		} else {
			o.logger.Debug("test failed", "test", c.Name(), "location", out.Failure.Location(), "message", out.Failure.Message)
		}
		o.reporter.TestFinished(i, total, out)
	}
	result.Duration = o.now().Sub(start)

	o.logger.Info("run finished", "total", result.Total, "passed", result.Passed, "failed", result.Failed, "duration", result.Duration)
	o.reporter.RunFinished(result)
	return result
}

// RunAll runs every case and returns the process exit code
func (r *Registry) RunAll(opts ...Option) int {
	return ExitCode(r.Run(opts...))
}

// ExitCode is 0 when no test failed and 1 otherwise
func ExitCode(result domain.RunResult) int {
	if result.OK() {
		return 0
	}
	return 1
}
