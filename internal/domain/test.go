package domain

import "time"

// Status is the lifecycle state of a single test case execution:
// NotRun, then Running, then Passed or Failed.
type Status int

const (
	NotRun Status = iota
	Running
	Passed
	Failed
)

func (s Status) String() string {
	switch s {
	case NotRun:
		return "not run"
	case Running:
		return "running"
	case Passed:
		return "pass"
	case Failed:
		return "fail"
	}
	return "unknown"
}

// Outcome is the result of executing one test case
type Outcome struct {
	Name     string        // Test case name
	Status   Status        // Passed or Failed once the case has run
	Failure  *Failure      // Set when Status is Failed
	Duration time.Duration // Time spent in the test body
}

// Passed reports whether the outcome is a pass
func (o Outcome) Passed() bool {
	return o.Status == Passed
}
