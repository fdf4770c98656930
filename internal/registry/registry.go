// Package registry collects declared test cases in declaration order and
// runs them one after another, isolating each failure so the run always
// produces a complete summary.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"ptest/internal/testcase"
)

var (
	// ErrDuplicateName is returned when a name is declared twice
	ErrDuplicateName = errors.New("duplicate test case name")
	// ErrSealed is returned when declaring into a registry that has started running
	ErrSealed = errors.New("registry is sealed")
)

// Registry is an ordered collection of uniquely named test cases
type Registry struct {
	mu     sync.Mutex
	cases  []*testcase.Case
	index  map[string]int
	sealed bool
}

// New creates an empty registry
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// Declare registers a test case. Cases run in the order they are declared.
func (r *Registry) Declare(name string, body testcase.Body) error {
	c, err := testcase.New(name, body)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("declare %q: %w", name, ErrSealed)
	}
	if _, ok := r.index[name]; ok {
		return fmt.Errorf("declare %q: %w", name, ErrDuplicateName)
	}
	r.index[name] = len(r.cases)
	r.cases = append(r.cases, c)
	return nil
}

// MustDeclare is Declare for the registration pass: any error panics
func (r *Registry) MustDeclare(name string, body testcase.Body) {
	if err := r.Declare(name, body); err != nil {
		panic(err)
	}
}

// Seal ends the registration pass. It is safe to call more than once.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

// Len returns the number of declared cases
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cases)
}

// Cases returns the declared cases in declaration order
func (r *Registry) Cases() []*testcase.Case {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*testcase.Case, len(r.cases))
	copy(out, r.cases)
	return out
}

// Names returns the declared case names in declaration order
func (r *Registry) Names() []string {
	cases := r.Cases()
	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Name()
	}
	return names
}

// Lookup finds a declared case by name
func (r *Registry) Lookup(name string) (*testcase.Case, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.cases[i], true
}
