// Package source recovers the literal text of call arguments from Go source
// files, so a failed assertion can report the expression that was asserted.
package source

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"
	"sync"
)

// Reader parses and caches source files by path
type Reader struct {
	mu    sync.Mutex
	files map[string]*parsedFile
}

type parsedFile struct {
	fset *token.FileSet
	file *ast.File
}

// NewReader creates a new Reader with an empty cache
func NewReader() *Reader {
	return &Reader{files: make(map[string]*parsedFile)}
}

var defaultReader = NewReader()

// FirstArg returns the text of the first argument of the call to fn made on
// the given line of file. fn is matched as a selector (x.fn) or as a plain
// identifier. ok is false when the file cannot be parsed, when no such call
// is on the line, or when more than one is and the caller cannot be told
// apart. Comments inside the argument are dropped.
func FirstArg(file string, line int, fn string) (string, bool) {
	return defaultReader.FirstArg(file, line, fn)
}

// FirstArg is the Reader form of the package-level FirstArg
func (r *Reader) FirstArg(file string, line int, fn string) (string, bool) {
	pf, err := r.parse(file)
	if err != nil || line < 1 {
		return "", false
	}

	call, ok := pf.callOn(line, fn)
	if !ok || len(call.Args) == 0 {
		return "", false
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, pf.fset, call.Args[0]); err != nil {
		return "", false
	}
	expr := normalize(buf.String())
	if expr == "" {
		return "", false
	}
	return expr, true
}

func (r *Reader) parse(file string) (*parsedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pf, ok := r.files[file]; ok {
		return pf, nil
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	pf := &parsedFile{fset: fset, file: f}
	r.files[file] = pf
	return pf, nil
}

// callOn finds the single call to fn whose opening parenthesis is on line.
// Failing that it falls back to the single call whose extent covers line,
// which is where the runtime may place a call split across lines.
func (pf *parsedFile) callOn(line int, fn string) (*ast.CallExpr, bool) {
	var opening, covering []*ast.CallExpr
	ast.Inspect(pf.file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || calleeName(call) != fn {
			return true
		}
		if pf.fset.Position(call.Lparen).Line == line {
			opening = append(opening, call)
		}
		if pf.fset.Position(call.Pos()).Line <= line && line <= pf.fset.Position(call.Rparen).Line {
			covering = append(covering, call)
		}
		return true
	})

	switch {
	case len(opening) == 1:
		return opening[0], true
	case len(opening) == 0 && len(covering) == 1:
		return covering[0], true
	}
	return nil, false
}

func calleeName(call *ast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *ast.SelectorExpr:
		return fun.Sel.Name
	case *ast.Ident:
		return fun.Name
	}
	return ""
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
