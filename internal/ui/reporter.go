package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"ptest/internal/domain"
)

var (
	passLabel = color.New(color.FgGreen, color.Bold)
	failLabel = color.New(color.FgRed, color.Bold)
	dimText   = color.New(color.Faint)
)

// Reporter prints one status line per test and a final summary line. When
// a progress bar is attached the per-test lines are replaced by the bar.
type Reporter struct {
	out      io.Writer
	progress *ProgressBar
	passed   int
	failed   int
}

// NewReporter creates a Reporter writing to out
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// SetProgress attaches a progress bar
func (r *Reporter) SetProgress(p *ProgressBar) {
	r.progress = p
}

// TestStarted is called before a test body runs
func (r *Reporter) TestStarted(index, total int, name string) {}

// TestFinished prints the test's status line and failure detail
func (r *Reporter) TestFinished(index, total int, out domain.Outcome) {
	if out.Passed() {
		r.passed++
	} else {
		r.failed++
	}

	if r.progress != nil {
		r.progress.Update(r.passed, r.failed)
		return
	}

	counter := dimText.Sprintf("[%d/%d]", index+1, total)
	if out.Passed() {
		fmt.Fprintf(r.out, "%s %s ... %s\n", counter, out.Name, passLabel.Sprint("PASS"))
		return
	}
	fmt.Fprintf(r.out, "%s %s ... %s\n", counter, out.Name, failLabel.Sprint("FAIL"))
	if out.Failure != nil {
		fmt.Fprintf(r.out, "    %s\n", FailureDetail(*out.Failure))
	}
}

// RunFinished prints the summary line
func (r *Reporter) RunFinished(result domain.RunResult) {
	if r.progress != nil {
		r.progress.Finish()
	}
	line := fmt.Sprintf("total=%d passed=%d failed=%d", result.Total, result.Passed, result.Failed)
	if result.OK() {
		fmt.Fprintln(r.out, passLabel.Sprint(line))
		return
	}
	fmt.Fprintln(r.out, failLabel.Sprint(line))
}

// FailureDetail renders a failure as "file:line: message"
func FailureDetail(f domain.Failure) string {
	if loc := f.Location(); loc != "" {
		return loc + ": " + f.Message
	}
	return f.Message
}
