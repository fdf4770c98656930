package testcase_test

import (
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptest/internal/domain"
	"ptest/internal/testcase"
)

func mustCase(t *testing.T, name string, body testcase.Body) *testcase.Case {
	t.Helper()
	c, err := testcase.New(name, body)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		caseID  string
		body    testcase.Body
		wantErr error
	}{
		{name: "valid case", caseID: "CanAdd", body: func(*testcase.T) {}},
		{name: "empty name", caseID: "", body: func(*testcase.T) {}, wantErr: testcase.ErrEmptyName},
		{name: "blank name", caseID: "   ", body: func(*testcase.T) {}, wantErr: testcase.ErrEmptyName},
		{name: "nil body", caseID: "NoBody", body: nil, wantErr: testcase.ErrNilBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := testcase.New(tt.caseID, tt.body)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.caseID, c.Name())
		})
	}
}

func TestRun_AllAssertionsHold(t *testing.T) {
	var seen string
	c := mustCase(t, "Passes", func(t *testcase.T) {
		seen = t.Name()
		t.Assert(1+1 == 2)
		t.Assert(true, "never shown")
	})

	out := c.Run()

	assert.Equal(t, domain.Passed, out.Status)
	assert.True(t, out.Passed())
	assert.Nil(t, out.Failure)
	assert.Equal(t, "Passes", out.Name)
	assert.Equal(t, "Passes", seen)
}

func TestRun_FailedAssertionStopsBody(t *testing.T) {
	sentinel := 0
	c := mustCase(t, "StopsEarly", func(t *testcase.T) {
		vec := []int{1, 2, 3}
		vec = vec[:0]
		t.Assert(len(vec) != 0)
		sentinel++
	})

	out := c.Run()

	require.Equal(t, domain.Failed, out.Status)
	require.NotNil(t, out.Failure)
	assert.Equal(t, 0, sentinel)
	assert.Equal(t, "len(vec) != 0", out.Failure.Expression)
	assert.Equal(t, "StopsEarly", out.Failure.TestName)
	assert.True(t, strings.HasSuffix(out.Failure.File, "testcase_test.go"))
	assert.Positive(t, out.Failure.Line)
	assert.False(t, out.Failure.Panic)
	assert.Contains(t, out.Failure.Message, "assertion failed: len(vec) != 0")
}

func TestRun_RecoveredAssertionStillFails(t *testing.T) {
	after := 0
	c := mustCase(t, "SwallowsPanic", func(t *testcase.T) {
		func() {
			defer func() { recover() }()
			t.Assert(1 == 2)
		}()
		after++
		t.Assert(true)
	})

	out := c.Run()

	require.Equal(t, domain.Failed, out.Status)
	require.NotNil(t, out.Failure)
	assert.Equal(t, 1, after)
	assert.Equal(t, "1 == 2", out.Failure.Expression)
	assert.False(t, out.Failure.Panic)
}

func TestRun_FirstRecoveredAssertionWins(t *testing.T) {
	c := mustCase(t, "TwoFailures", func(t *testcase.T) {
		func() {
			defer func() { recover() }()
			t.Assert(len("a") == 2)
		}()
		t.Assert(len("b") == 3)
	})

	out := c.Run()

	require.NotNil(t, out.Failure)
	assert.Equal(t, `len("a") == 2`, out.Failure.Expression)
}

func TestRun_AssertionMessage(t *testing.T) {
	c := mustCase(t, "WithMessage", func(t *testcase.T) {
		got := 3
		t.Assert(got == 4, "got %d", got)
	})

	out := c.Run()

	require.NotNil(t, out.Failure)
	assert.Contains(t, out.Failure.Message, "(got 3)")
}

func TestRun_PanicBecomesFailure(t *testing.T) {
	c := mustCase(t, "Panics", func(t *testcase.T) {
		var m map[string]int
		m["boom"] = 1
	})

	out := c.Run()

	require.Equal(t, domain.Failed, out.Status)
	require.NotNil(t, out.Failure)
	assert.True(t, out.Failure.Panic)
	assert.True(t, strings.HasPrefix(out.Failure.Message, "panic: "))
	assert.NotEmpty(t, out.Failure.StackTrace)
	assert.True(t, strings.HasSuffix(out.Failure.File, "testcase_test.go"))
}

func TestRun_PanicWithError(t *testing.T) {
	c := mustCase(t, "PanicsWithError", func(t *testcase.T) {
		panic(errors.New("disk on fire"))
	})

	out := c.Run()

	require.NotNil(t, out.Failure)
	assert.Equal(t, "panic: disk on fire", out.Failure.Message)
}

func TestRun_GoexitBecomesFailure(t *testing.T) {
	c := mustCase(t, "Exits", func(t *testcase.T) {
		runtime.Goexit()
	})

	out := c.Run()

	require.Equal(t, domain.Failed, out.Status)
	require.NotNil(t, out.Failure)
	assert.Equal(t, "test body exited without returning", out.Failure.Message)
}

func TestRunWithClock_RecordsDuration(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 250 * time.Millisecond)
	}
	c := mustCase(t, "Timed", func(*testcase.T) {})

	out := c.RunWithClock(clock)

	assert.Equal(t, 250*time.Millisecond, out.Duration)
}

func TestAssertionFailure_Error(t *testing.T) {
	tests := []struct {
		name string
		af   testcase.AssertionFailure
		want string
	}{
		{
			name: "expression only",
			af:   testcase.AssertionFailure{Expression: "x > 0"},
			want: "assertion failed: x > 0",
		},
		{
			name: "with message and location",
			af:   testcase.AssertionFailure{Expression: "x > 0", Message: "x was -1", File: "a.go", Line: 7},
			want: "assertion failed: x > 0 (x was -1) at a.go:7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.af.Error())
		})
	}
}
