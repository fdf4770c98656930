// Package testcase holds a single named test body and the assertion
// primitive used inside it. A failed assertion unwinds only the body that
// raised it; Run recovers it and turns it into a Failed outcome.
package testcase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ptest/internal/domain"
)

var (
	// ErrEmptyName is returned when a test case is declared without a name
	ErrEmptyName = errors.New("test case name must not be empty")
	// ErrNilBody is returned when a test case is declared without a body
	ErrNilBody = errors.New("test case body must not be nil")
)

// Body is the code of a test case
type Body func(t *T)

// Case is a named test body. It is immutable after New.
type Case struct {
	name string
	body Body
}

// New creates a test case, validating its name and body
func New(name string, body Body) (*Case, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if body == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNilBody)
	}
	return &Case{name: name, body: body}, nil
}

// Name returns the test case name
func (c *Case) Name() string {
	return c.name
}

// Run executes the body and returns its outcome. It never panics: assertion
// failures and any other fault inside the body become a Failed outcome.
func (c *Case) Run() domain.Outcome {
	return c.RunWithClock(time.Now)
}

// RunWithClock is Run with a caller supplied clock used to time the body
func (c *Case) RunWithClock(now func() time.Time) domain.Outcome {
	done := make(chan domain.Outcome, 1)

	// The body gets its own goroutine so that a runtime.Goexit inside it ends
	// only the body. Run still blocks until the body is done.
	go func() {
		out := domain.Outcome{Name: c.name, Status: domain.NotRun}
		t := &T{name: c.name}
		var startedAt time.Time
		finished := false

		defer func() {
			out.Duration = now().Sub(startedAt)
			r := recover()
			switch {
			case t.failure != nil:
				// The first failed assertion decides the outcome, even if
				// the body recovered its panic and carried on.
				out.Status = domain.Failed
				out.Failure = t.failure.toFailure(c.name)
			case r != nil:
				out.Status = domain.Failed
				out.Failure = failureFromPanic(c.name, r)
			case !finished:
				out.Status = domain.Failed
				out.Failure = &domain.Failure{
					TestName: c.name,
					Message:  "test body exited without returning",
				}
			default:
				out.Status = domain.Passed
			}
			done <- out
		}()

		startedAt = now()
		out.Status = domain.Running
		c.body(t)
		finished = true
	}()

	return <-done
}

func failureFromPanic(name string, r any) *domain.Failure {
	var af *AssertionFailure
	if err, ok := r.(error); ok && errors.As(err, &af) {
		return af.toFailure(name)
	}

	stack := panicStack()
	f := &domain.Failure{
		TestName:   name,
		Message:    fmt.Sprintf("panic: %v", r),
		StackTrace: stack.lines(),
		Panic:      true,
	}
	if frame, ok := stack.origin(); ok {
		f.File = frame.File
		f.Line = frame.Line
	}
	return f
}
