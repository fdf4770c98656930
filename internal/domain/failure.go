package domain

import "fmt"

// Failure describes why a test case failed
type Failure struct {
	TestName   string   `json:"test_name"`
	Expression string   `json:"expression,omitempty"`
	Message    string   `json:"message"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	StackTrace []string `json:"stack_trace,omitempty"`
	Panic      bool     `json:"panic,omitempty"`    // Failure came from a non-assertion fault
	Resolved   bool     `json:"resolved,omitempty"` // Marked as resolved in the failures viewer
}

// Location returns the "file:line" position of the failure, or "" when unknown
func (f Failure) Location() string {
	if f.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}
