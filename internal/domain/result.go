package domain

import "time"

// RunResult is the aggregate of a full registry run
type RunResult struct {
	Total    int
	Passed   int
	Failed   int
	Failures []Failure // In registration order
	Outcomes []Outcome // In registration order
	Duration time.Duration
}

// Record adds a finished outcome to the aggregate
func (r *RunResult) Record(o Outcome) {
	r.Total++
	r.Outcomes = append(r.Outcomes, o)
	if o.Passed() {
		r.Passed++
		return
	}
	r.Failed++
	if o.Failure != nil {
		r.Failures = append(r.Failures, *o.Failure)
	}
}

// OK reports whether no test failed
func (r RunResult) OK() bool {
	return r.Failed == 0
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete persisted structure for a test run
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []Failure       `json:"details"`
}

// NewTestResultsOutput builds the persisted document for a run finished at ts
func NewTestResultsOutput(r RunResult, ts time.Time) *TestResultsOutput {
	details := r.Failures
	if details == nil {
		details = []Failure{}
	}
	return &TestResultsOutput{
		Meta: TestResultsMeta{
			TotalTests:      r.Total,
			PassedTests:     r.Passed,
			FailedTests:     r.Failed,
			Duration:        r.Duration.String(),
			DurationSeconds: r.Duration.Seconds(),
			Timestamp:       ts.Format(time.RFC3339),
		},
		Details: details,
	}
}

// FailedNames returns the set of test names that failed
func (o *TestResultsOutput) FailedNames() map[string]struct{} {
	names := make(map[string]struct{}, len(o.Details))
	for _, d := range o.Details {
		names[d.TestName] = struct{}{}
	}
	return names
}
