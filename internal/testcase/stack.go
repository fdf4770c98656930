package testcase

import (
	"fmt"
	"runtime"
	"strings"
)

// stack is the call stack captured while a panic is being recovered
type stack []runtime.Frame

// panicStack captures the stack from inside a deferred recover. Frames
// belonging to the runtime and to this package are dropped.
func panicStack() stack {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var s stack
	for {
		frame, more := frames.Next()
		if !internalFrame(frame) {
			s = append(s, frame)
		}
		if !more {
			break
		}
	}
	return s
}

// origin returns the innermost frame of test code, which is where the panic
// was raised.
func (s stack) origin() (runtime.Frame, bool) {
	if len(s) == 0 {
		return runtime.Frame{}, false
	}
	return s[0], true
}

func (s stack) lines() []string {
	out := make([]string, 0, len(s))
	for _, f := range s {
		out = append(out, fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line))
	}
	return out
}

func internalFrame(f runtime.Frame) bool {
	return strings.HasPrefix(f.Function, "runtime.") ||
		strings.HasPrefix(f.Function, "ptest/internal/testcase.")
}
