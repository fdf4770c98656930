// Package vector declares example test cases exercising slices used as
// growable vectors. CanAddToVector fails on purpose to show that a failed
// assertion stops only its own test.
package vector

import (
	"ptest/internal/registry"
	"ptest/internal/testcase"
)

// Unreachable counts how often code after the deliberately failing
// assertion in CanAddToVector ran. It stays zero.
var Unreachable int

// Register declares the package's test cases into reg
func Register(reg *registry.Registry) {
	reg.MustDeclare("CanAddToVector", canAddToVector)
	reg.MustDeclare("CanReserveVector", canReserveVector)
	reg.MustDeclare("CanInsertVector", canInsertVector)
}

func canAddToVector(t *testcase.T) {
	var vec []int
	vec = append(vec, 3)
	t.Assert(len(vec) == 1)
	vec = append(vec, 5)
	t.Assert(len(vec) == 2)
	vec = append(vec, 4)
	t.Assert(len(vec) == 3)
	vec = vec[:0]

	// Fails: the slice was just cleared.
	t.Assert(len(vec) != 0)

	Unreachable++
	vec = append(vec, 4)
	t.Assert(len(vec) == 3)
}

func canReserveVector(t *testcase.T) {
	vec := make([]int, 0, 10)

	t.Assert(cap(vec) >= 10)
	t.Assert(len(vec) == 0)

	for i := 0; i < 11; i++ {
		vec = append(vec, 3)
	}

	t.Assert(cap(vec) > 10)
}

func canInsertVector(t *testcase.T) {
	var vec []int

	for i := 0; i < 10; i++ {
		vec = append(vec, i)
	}

	for i := 0; i < 10; i++ {
		t.Assert(vec[i] == i)
	}
}
