package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"ptest/internal/domain"
	"ptest/internal/storage"
)

// maxStackLines is how many stack frames the details pane shows
const maxStackLines = 10

// Viewer displays saved failures
type Viewer interface {
	View(ctx context.Context, results *domain.TestResultsOutput) error
}

// ErrorViewer displays test failures in an interactive TUI. Toggling a
// failure's resolved flag is written back through the storage.
type ErrorViewer struct {
	storage storage.Storage
	out     io.Writer // Messages printed instead of opening the TUI
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(st storage.Storage, out io.Writer) *ErrorViewer {
	return &ErrorViewer{storage: st, out: out}
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(ctx context.Context, results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		green.Fprintln(ev.out, "✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i, failure := range results.Details {
		list.AddItem(listItemText(i, failure), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(headerText(results.Details))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(results.Details) {
			return
		}
		failure := results.Details[index]
		statsView.SetText(failureStats(failure))
		detailsView.SetText(failureDetails(failure))
	}

	var saveErr error
	toggleResolved := func(index int) {
		results.Details[index].Resolved = !results.Details[index].Resolved
		list.SetItemText(index, listItemText(index, results.Details[index]), "")
		updateHeader()
		updateDetails()
		if err := ev.storage.SaveOutput(ctx, results); err != nil {
			saveErr = err
			app.Stop()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'r', 'R':
				if index := list.GetCurrentItem(); index >= 0 && index < len(results.Details) {
					toggleResolved(index)
				}
				return nil
			case 'q', 'Q':
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

func listItemText(index int, failure domain.Failure) string {
	name := failure.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

func headerText(failures []domain.Failure) string {
	unresolved := 0
	for _, f := range failures {
		if !f.Resolved {
			unresolved++
		}
	}
	return fmt.Sprintf(" Test Failures (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, [yellow]Q[white] quit ",
		len(failures), unresolved)
}

func failureStats(failure domain.Failure) string {
	loc := failure.Location()
	if loc == "" {
		loc = "unknown location"
	}
	return fmt.Sprintf("[cyan]test:[white] [yellow]%s[white]  [cyan]at:[white] [yellow]%s[white]\n", failure.TestName, loc)
}

// failureDetails formats a failure using tview color tags
func failureDetails(failure domain.Failure) string {
	var b strings.Builder
	writeFailure(&b, failure, true)
	return b.String()
}

// writeFailure writes a failure's details to w. tags selects tview color
// tags; without them the output is plain text.
func writeFailure(w io.Writer, failure domain.Failure, tags bool) {
	tag := func(name string) string {
		if !tags {
			return ""
		}
		return "[" + name + "]"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s✗ Test:\t%s%s\n", tag("red"), failure.TestName, tag("white"))
	if loc := failure.Location(); loc != "" {
		fmt.Fprintf(tw, "%sLocation:\t%s%s\n", tag("cyan"), loc, tag("white"))
	}
	if failure.Expression != "" {
		fmt.Fprintf(tw, "%sExpression:\t%s%s\n", tag("cyan"), failure.Expression, tag("white"))
	}
	if failure.Resolved {
		fmt.Fprintf(tw, "%sStatus:\tresolved%s\n", tag("gray"), tag("white"))
	}
	tw.Flush()

	if failure.Message != "" {
		fmt.Fprintf(w, "\n%sMessage:%s\n%s\n", tag("yellow"), tag("white"), failure.Message)
	}

	if len(failure.StackTrace) > 0 {
		fmt.Fprintf(w, "\n%sStack Trace:%s\n", tag("yellow"), tag("white"))
		for i, frame := range failure.StackTrace {
			if i == maxStackLines {
				fmt.Fprintf(w, "  %s... and %d more lines%s\n", tag("gray"), len(failure.StackTrace)-maxStackLines, tag("white"))
				break
			}
			fmt.Fprintf(w, "  %s\n", frame)
		}
	}
}

// PrintFailures writes every saved failure as plain text, for terminals
// where the TUI is not wanted
func PrintFailures(w io.Writer, results *domain.TestResultsOutput) {
	if len(results.Details) == 0 {
		green.Fprintln(w, "✓ No test failures found!")
		return
	}
	for i, failure := range results.Details {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeFailure(w, failure, false)
	}
}
