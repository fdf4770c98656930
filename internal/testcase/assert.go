package testcase

import (
	"fmt"
	"runtime"
	"strings"

	"ptest/internal/domain"
	"ptest/internal/source"
)

// unknownExpression is reported when the asserted source text cannot be read
const unknownExpression = "<condition>"

// AssertionFailure is raised by a false assertion. It carries the literal
// expression text and the position of the assertion.
type AssertionFailure struct {
	Expression string
	Message    string
	File       string
	Line       int
}

func (e *AssertionFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "assertion failed: %s", e.Expression)
	if e.Message != "" {
		fmt.Fprintf(&b, " (%s)", e.Message)
	}
	if e.File != "" {
		fmt.Fprintf(&b, " at %s:%d", e.File, e.Line)
	}
	return b.String()
}

// T is handed to every test body
type T struct {
	name    string
	failure *AssertionFailure // First failed assertion, kept even if the body recovers
}

// Name returns the running test case name
func (t *T) Name() string {
	return t.name
}

// Assert aborts the current test body when cond is false. The optional
// msgAndArgs is either a single value or a format string followed by its
// arguments.
func (t *T) Assert(cond bool, msgAndArgs ...any) {
	if cond {
		return
	}

	af := &AssertionFailure{
		Expression: unknownExpression,
		Message:    formatMessage(msgAndArgs),
	}
	if _, file, line, ok := runtime.Caller(1); ok {
		af.File = file
		af.Line = line
		if expr, ok := source.FirstArg(file, line, "Assert"); ok {
			af.Expression = expr
		}
	}
	if t.failure == nil {
		t.failure = af
	}
	panic(af)
}

func (e *AssertionFailure) toFailure(testName string) *domain.Failure {
	return &domain.Failure{
		TestName:   testName,
		Expression: e.Expression,
		Message:    e.Error(),
		File:       e.File,
		Line:       e.Line,
	}
}

func formatMessage(msgAndArgs []any) string {
	switch len(msgAndArgs) {
	case 0:
		return ""
	case 1:
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
