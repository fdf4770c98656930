package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

const progressWidth = 50

var progressTheme = progressbar.Theme{
	Saucer:        color.CyanString("█"),
	SaucerHead:    color.CyanString("█"),
	SaucerPadding: "░",
	BarStart:      "│",
	BarEnd:        "│",
}

// ProgressBar stands in for the per-test status lines during `run --progress`.
// Each finished test advances it by one and refreshes the pass/fail tally.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar sizes a bar for count tests. It draws on w, usually stderr,
// so the summary on stdout stays clean.
func NewProgressBar(count int, w io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(progressWidth),
		progressbar.OptionSetTheme(progressTheme),
		progressbar.OptionEnableColorCodes(!color.NoColor),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetDescription(tally(0, 0)),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
	return &ProgressBar{bar: bar}
}

// Update moves the bar to passed+failed and shows both counts
func (p *ProgressBar) Update(passed, failed int) {
	p.bar.Describe(tally(passed, failed))
	_ = p.bar.Set(passed + failed)
}

// Finish fills the bar and ends its line
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

func tally(passed, failed int) string {
	return fmt.Sprintf("%s %s | %s",
		color.CyanString("Running tests:"),
		color.GreenString("[passed: %d", passed),
		color.RedString("failed: %d]", failed))
}
