package registry

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptest/internal/domain"
	"ptest/internal/testcase"
)

type recordingReporter struct {
	events []string
	result *domain.RunResult
}

func (r *recordingReporter) TestStarted(index, total int, name string) {
	r.events = append(r.events, "start "+name)
}

func (r *recordingReporter) TestFinished(index, total int, out domain.Outcome) {
	r.events = append(r.events, out.Status.String()+" "+out.Name)
}

func (r *recordingReporter) RunFinished(result domain.RunResult) {
	r.result = &result
}

func TestRun_EveryTestRunsAfterFailure(t *testing.T) {
	var ran []string
	r := New()
	r.MustDeclare("First", func(t *testcase.T) {
		ran = append(ran, "First")
		t.Assert(false)
		ran = append(ran, "First after assert")
	})
	r.MustDeclare("Second", func(t *testcase.T) {
		ran = append(ran, "Second")
		panic("unexpected")
	})
	r.MustDeclare("Third", func(t *testcase.T) {
		ran = append(ran, "Third")
		t.Assert(true)
	})

	rep := &recordingReporter{}
	result := r.Run(WithReporter(rep))

	if diff := cmp.Diff([]string{"First", "Second", "Third"}, ran); diff != "" {
		t.Errorf("execution mismatch (-want +got):\n%s", diff)
	}
	wantEvents := []string{
		"start First", "fail First",
		"start Second", "fail Second",
		"start Third", "pass Third",
	}
	if diff := cmp.Diff(wantEvents, rep.events); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "First", result.Failures[0].TestName)
	assert.Equal(t, "false", result.Failures[0].Expression)
	assert.Equal(t, "Second", result.Failures[1].TestName)
	assert.True(t, result.Failures[1].Panic)
	require.NotNil(t, rep.result)
	assert.Equal(t, result.Total, rep.result.Total)
}

func TestRun_SealsRegistry(t *testing.T) {
	r := New()
	r.MustDeclare("Only", noop)
	r.Run()

	assert.True(t, r.Sealed())
	assert.ErrorIs(t, r.Declare("Late", noop), ErrSealed)
}

func TestRunAll_ExitCode(t *testing.T) {
	tests := []struct {
		name   string
		bodies []testcase.Body
		want   int
	}{
		{name: "no tests", want: 0},
		{name: "all pass", bodies: []testcase.Body{noop, noop}, want: 0},
		{name: "one failure", bodies: []testcase.Body{noop, func(t *testcase.T) { t.Assert(1 > 2) }}, want: 1},
		{name: "panic counts as failure", bodies: []testcase.Body{func(*testcase.T) { panic(1) }}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			for i, b := range tt.bodies {
				r.MustDeclare(string(rune('A'+i)), b)
			}
			assert.Equal(t, tt.want, r.RunAll())
		})
	}
}

func TestRun_WithClockAndLogger(t *testing.T) {
	base := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	ticks := 0
	clock := func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * time.Second)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := New()
	r.MustDeclare("Timed", noop)
	result := r.Run(WithClock(clock), WithLogger(logger))

	// run start, case start, case end, run end
	assert.Equal(t, 4, ticks)
	assert.Equal(t, 3*time.Second, result.Duration)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, time.Second, result.Outcomes[0].Duration)
	assert.Contains(t, logs.String(), "run finished")
	assert.Contains(t, logs.String(), "test=Timed")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(domain.RunResult{Total: 2, Passed: 2}))
	assert.Equal(t, 1, ExitCode(domain.RunResult{Total: 2, Passed: 1, Failed: 1}))
}
