package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptest/internal/config"
	"ptest/internal/domain"
	"ptest/internal/examples/vector"
	"ptest/internal/registry"
	"ptest/internal/storage"
	"ptest/internal/testcase"
	"ptest/internal/ui"
)

func init() {
	color.NoColor = true
}

type harness struct {
	reg    *registry.Registry
	out    bytes.Buffer
	errOut bytes.Buffer
	dir    string
	viewer *recordingViewer
}

type recordingViewer struct {
	calls   int
	results *domain.TestResultsOutput
}

func (v *recordingViewer) View(ctx context.Context, results *domain.TestResultsOutput) error {
	v.calls++
	v.results = results
	return nil
}

func newHarness(t *testing.T, register func(*registry.Registry)) *harness {
	t.Helper()
	h := &harness{reg: registry.New(), dir: t.TempDir(), viewer: &recordingViewer{}}
	register(h.reg)
	return h
}

func (h *harness) execute(t *testing.T, args ...string) (*Commands, error) {
	t.Helper()
	h.out.Reset()
	h.errOut.Reset()
	root, cmds := NewRootCommand(h.reg, "test", &h.out, &h.errOut)
	cmds.Run.now = func() time.Time { return time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC) }
	useViewer := func(storage.Storage) ui.Viewer { return h.viewer }
	cmds.Run.newViewer = useViewer
	cmds.Failures.newViewer = useViewer
	base := []string{"--env-file", filepath.Join(h.dir, "missing.env"), "--output-dir", h.dir}
	root.SetArgs(append(args, base...))
	return cmds, root.Execute()
}

func TestRun_VectorScenario(t *testing.T) {
	h := newHarness(t, vector.Register)

	cmds, err := h.execute(t, "run")
	require.NoError(t, err)

	assert.Equal(t, 1, cmds.Run.ExitCode)
	out := h.out.String()
	assert.Contains(t, out, "[1/3] CanAddToVector ... FAIL")
	assert.Contains(t, out, "assertion failed: len(vec) != 0")
	assert.Contains(t, out, "[2/3] CanReserveVector ... PASS")
	assert.Contains(t, out, "[3/3] CanInsertVector ... PASS")
	assert.Contains(t, out, "total=3 passed=2 failed=1")
	assert.Contains(t, out, "✗ 1 test(s) failed")

	// Nothing is saved without --save.
	_, statErr := os.Stat(filepath.Join(h.dir, "test-results.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_AllPassExitZero(t *testing.T) {
	h := newHarness(t, func(r *registry.Registry) {
		r.MustDeclare("Fine", func(t *testcase.T) { t.Assert(true) })
	})

	cmds, err := h.execute(t, "run")
	require.NoError(t, err)
	assert.Equal(t, 0, cmds.Run.ExitCode)
	assert.Contains(t, h.out.String(), "total=1 passed=1 failed=0")
	assert.Contains(t, h.out.String(), "✓ All tests passed!")
}

func TestRun_SaveThenListAndFailures(t *testing.T) {
	h := newHarness(t, vector.Register)

	_, err := h.execute(t, "run", "--save")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(h.dir, "test-results.json"))

	_, err = h.execute(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "Found 3 test(s):\n├── CanAddToVector [F]\n├── CanReserveVector\n└── CanInsertVector\n", h.out.String())

	_, err = h.execute(t, "failures", "--plain")
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "CanAddToVector")
	assert.Contains(t, h.out.String(), "len(vec) != 0")
}

func TestList_WithoutSavedRun(t *testing.T) {
	h := newHarness(t, vector.Register)

	_, err := h.execute(t, "list")
	require.NoError(t, err)
	assert.NotContains(t, h.out.String(), "[F]")
	assert.Contains(t, h.out.String(), "Found 3 test(s)")
}

func TestFailures_WithoutSavedRun(t *testing.T) {
	h := newHarness(t, vector.Register)

	_, err := h.execute(t, "failures", "--plain")
	assert.ErrorContains(t, err, "no saved results")
}

func TestRun_SaveErrorKeepsExitCode(t *testing.T) {
	t.Setenv(config.EnvDBTable, "not a valid prefix")
	h := newHarness(t, vector.Register)

	cmds, err := h.execute(t, "run", "--save", "--storage", "mysql")
	require.NoError(t, err)
	assert.Equal(t, 1, cmds.Run.ExitCode)
	assert.Contains(t, h.errOut.String(), "Warning:")
}

func passingRegistry(r *registry.Registry) {
	r.MustDeclare("Fine", func(t *testcase.T) { t.Assert(true) })
	r.MustDeclare("AlsoFine", func(t *testcase.T) { t.Assert(1 < 2) })
}

func TestRun_ProgressReplacesStatusLines(t *testing.T) {
	h := newHarness(t, vector.Register)

	cmds, err := h.execute(t, "run", "--progress")
	require.NoError(t, err)

	assert.Equal(t, 1, cmds.Run.ExitCode)
	out := h.out.String()
	assert.NotContains(t, out, "[1/3]")
	assert.NotContains(t, out, "CanReserveVector ... PASS")
	assert.Contains(t, out, "total=3 passed=2 failed=1")
	assert.Contains(t, h.errOut.String(), "Running tests:")
}

func TestRun_BareCommandRunsTests(t *testing.T) {
	h := newHarness(t, vector.Register)

	cmds, err := h.execute(t, "--save")
	require.NoError(t, err)

	assert.Equal(t, 1, cmds.Run.ExitCode)
	assert.Contains(t, h.out.String(), "total=3 passed=2 failed=1")
	assert.FileExists(t, filepath.Join(h.dir, "test-results.json"))
}

func TestRun_OpenFailures(t *testing.T) {
	t.Run("all passing does not open the viewer", func(t *testing.T) {
		h := newHarness(t, passingRegistry)

		cmds, err := h.execute(t, "run", "--open-failures")
		require.NoError(t, err)

		assert.Equal(t, 0, cmds.Run.ExitCode)
		assert.Equal(t, 0, h.viewer.calls)
		assert.FileExists(t, filepath.Join(h.dir, "test-results.json"))
	})

	t.Run("failures open the viewer with the saved run", func(t *testing.T) {
		h := newHarness(t, vector.Register)

		cmds, err := h.execute(t, "run", "--open-failures")
		require.NoError(t, err)

		assert.Equal(t, 1, cmds.Run.ExitCode)
		require.Equal(t, 1, h.viewer.calls)
		require.Len(t, h.viewer.results.Details, 1)
		assert.Equal(t, "CanAddToVector", h.viewer.results.Details[0].TestName)
	})
}

func TestFailures_OpensViewer(t *testing.T) {
	h := newHarness(t, vector.Register)

	_, err := h.execute(t, "run", "--save")
	require.NoError(t, err)

	_, err = h.execute(t, "failures")
	require.NoError(t, err)
	require.Equal(t, 1, h.viewer.calls)
	assert.Equal(t, 1, h.viewer.results.Meta.FailedTests)
}
