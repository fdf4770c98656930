package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"ptest/internal/domain"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Formatter formats and displays run summaries and test lists
type Formatter struct {
	out  io.Writer
	base string // Failure files are shown relative to this directory
}

// NewFormatter creates a new Formatter writing to out. Paths are shown
// relative to the current working directory when possible.
func NewFormatter(out io.Writer) *Formatter {
	base, _ := os.Getwd()
	return &Formatter{out: out, base: base}
}

// SetBase changes the directory failure paths are shown relative to
func (f *Formatter) SetBase(dir string) {
	f.base = dir
}

const (
	tableTop    = "┌─────────────────────────────────┬─────────────────────────────┐"
	tableMiddle = "├─────────────────────────────────┼─────────────────────────────┤"
	tableBottom = "└─────────────────────────────────┴─────────────────────────────┘"
)

func (f *Formatter) row(label string, c *color.Color, value string) {
	fmt.Fprintf(f.out, "│ %-31s │ ", label)
	c.Fprintf(f.out, "%-27s", value)
	fmt.Fprintln(f.out, " │")
}

// PrintSummary displays the run statistics table followed by a tree of
// failures grouped by source file
func (f *Formatter) PrintSummary(output *domain.TestResultsOutput) {
	meta := output.Meta

	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	fmt.Fprintln(f.out, tableTop)
	f.row("Total Tests", white, fmt.Sprint(meta.TotalTests))
	fmt.Fprintln(f.out, tableMiddle)
	f.row("Passed Tests", green, fmt.Sprint(meta.PassedTests))
	fmt.Fprintln(f.out, tableMiddle)
	f.row("Failed Tests", red, fmt.Sprint(meta.FailedTests))
	fmt.Fprintln(f.out, tableMiddle)
	f.row("Duration", white, fmt.Sprintf("%.2fs", meta.DurationSeconds))
	if meta.Timestamp != "" {
		fmt.Fprintln(f.out, tableMiddle)
		f.row("Timestamp", white, meta.Timestamp)
	}
	fmt.Fprintln(f.out, tableBottom)

	fmt.Fprintln(f.out)
	if meta.FailedTests == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
		return
	}
	red.Fprintf(f.out, "✗ %d test(s) failed\n", meta.FailedTests)
	fmt.Fprintln(f.out)
	f.printFailedTestsTree(output.Details)
}

// TreeNode represents a node in the file tree structure
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.Failure
	IsFile   bool
}

func (f *Formatter) displayPath(path string) string {
	if path == "" {
		return "(unknown location)"
	}
	if f.base != "" {
		if rel, err := filepath.Rel(f.base, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

// printFailedTestsTree prints failures as a directory tree with the failing
// tests under the file that raised the failure
func (f *Formatter) printFailedTestsTree(failures []domain.Failure) {
	if len(failures) == 0 {
		return
	}

	root := &TreeNode{Children: make(map[string]*TreeNode)}
	for _, failure := range failures {
		parts := strings.Split(strings.TrimPrefix(f.displayPath(failure.File), "/"), "/")
		current := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
			}
			current = current.Children[part]
		}
		current.Failures = append(current.Failures, failure)
	}

	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	keys := make([]string, 0, len(node.Children))
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1

		connector, childPrefix := "├── ", "│   "
		if last {
			connector, childPrefix = "└── ", "    "
		}

		if child.IsFile {
			yellow.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		} else {
			cyan.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		}

		for j, failure := range child.Failures {
			caseConnector := "├── "
			if j == len(child.Failures)-1 && len(child.Children) == 0 {
				caseConnector = "└── "
			}
			red.Fprintf(f.out, "%s%s%s", prefix+childPrefix, caseConnector, failure.TestName)
			if failure.Line > 0 {
				fmt.Fprintf(f.out, " (line %d)", failure.Line)
			}
			fmt.Fprintf(f.out, ": %s\n", failure.Message)
		}

		f.printTreeNode(child, prefix+childPrefix)
	}
}

// PrintTestList prints registered test names in declaration order.
// failed is optional; names in it are marked with [F] (from the last saved run).
func (f *Formatter) PrintTestList(names []string, failed map[string]struct{}) {
	if len(names) == 0 {
		yellow.Fprintln(f.out, "No tests registered")
		return
	}

	green.Fprintf(f.out, "Found %d test(s):\n", len(names))
	for i, name := range names {
		marker := ""
		if _, ok := failed[name]; ok {
			marker = " " + red.Sprint("[F]")
		}
		connector := "├── "
		if i == len(names)-1 {
			connector = "└── "
		}
		cyan.Fprintf(f.out, "%s%s", connector, name)
		fmt.Fprintf(f.out, "%s\n", marker)
	}
}
