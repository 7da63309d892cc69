// Package scan locates generated client operation calls in Go source and
// compiles each call site into its GraphQL document ahead of execution.
package scan

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/seleq-dev/seleq/compiler"
	"github.com/seleq-dev/seleq/selector"
	"github.com/seleq-dev/seleq/typemodel"
)

// CallSite is one operation invocation found in the scanned package.
type CallSite struct {
	Key       string
	Operation string
	Mutation  bool
	Document  string
	Variables []compiler.Variable
	Pos       token.Position
}

// Result holds everything collected from one package scan. Sites appear in
// file name and position order.
type Result struct {
	Package     string
	Sites       []*CallSite
	Diagnostics []compiler.Diagnostic
}

// Failed reports whether any error diagnostic was recorded.
func (r *Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == compiler.SeverityError {
			return true
		}
	}
	return false
}

// Key returns the call site key for a source position: the last two path
// segments and the line number. It matches the key the runtime derives from
// its caller, so registered documents resolve at execution time.
func Key(pos token.Position) string {
	dir := filepath.Base(filepath.Dir(pos.Filename))
	return fmt.Sprintf("%s/%s:%d", dir, filepath.Base(pos.Filename), pos.Line)
}

// operation is one root field reachable as a generated client method.
type operation struct {
	prop     *typemodel.FieldDefinition
	mutation bool
}

// Dir parses all Go source files in the package directory at dir, compiles
// every operation call site found, and returns the collected documents and
// diagnostics. Previously generated files are excluded from the scan.
func Dir(dir string, m *typemodel.Model) (*Result, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, abs, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), ".gen.go")
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("parsing package at %s: %w", dir, err)
	}

	names := make([]string, 0, len(pkgs))
	for name := range pkgs {
		if strings.HasSuffix(name, "_test") {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no Go package found in %s", dir)
	}
	sort.Strings(names)
	pkg := pkgs[names[0]]

	s := &scanner{
		fset:  fset,
		model: m,
		ops:   operations(m),
		out:   &Result{Package: pkg.Name},
		seen:  make(map[string]bool),
	}
	files := make([]string, 0, len(pkg.Files))
	for name := range pkg.Files {
		files = append(files, name)
	}
	sort.Strings(files)
	for _, name := range files {
		ast.Inspect(pkg.Files[name], func(n ast.Node) bool {
			if call, ok := n.(*ast.CallExpr); ok {
				s.call(call)
			}
			return true
		})
	}
	return s.out, nil
}

// operations indexes the root fields by generated method name. The query
// root wins on a name shared with the mutation root; the emitter refuses to
// generate a client for such a schema before scanning ever runs.
func operations(m *typemodel.Model) map[string]operation {
	ops := make(map[string]operation)
	index := func(root string, mutation bool) {
		class := m.Class(root)
		if class == nil {
			return
		}
		for _, p := range class.Properties {
			if _, ok := ops[p.Name]; ok {
				continue
			}
			ops[p.Name] = operation{prop: p, mutation: mutation}
		}
	}
	index(m.QueryType, false)
	index(m.MutationType, true)
	return ops
}

type scanner struct {
	fset  *token.FileSet
	model *typemodel.Model
	ops   map[string]operation
	out   *Result
	seen  map[string]bool
}

// call compiles one candidate call expression. Calls whose name or arity do
// not match a generated method are some other method and are skipped. A
// matching call must pass its selector as an inline func literal; nothing can
// be compiled ahead of execution for a selector held in a variable.
func (s *scanner) call(call *ast.CallExpr) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}
	op, ok := s.ops[sel.Sel.Name]
	if !ok {
		return
	}
	prop := op.prop
	want := 1 + len(prop.Arguments)
	if typemodel.RequireSelector(prop.Type) {
		want++
	}
	if len(call.Args) != want {
		return
	}
	argEnd := len(call.Args)
	var projector *selector.Lambda
	if typemodel.RequireSelector(prop.Type) {
		fn, ok := call.Args[argEnd-1].(*ast.FuncLit)
		if !ok {
			s.report(compiler.Diagnostic{
				Code:     compiler.CodeUnsupportedSelectorExpression,
				Severity: compiler.SeverityError,
				Message:  fmt.Sprintf("selector for %s must be an inline func literal", sel.Sel.Name),
				Pos:      s.fset.Position(call.Args[argEnd-1].Pos()),
			})
			return
		}
		projector = selector.FromFuncLit(s.fset, fn)
		argEnd--
	}
	args := make([]selector.Node, 0, argEnd-1)
	for _, a := range call.Args[1:argEnd] {
		args = append(args, selector.Convert(s.fset, a))
	}

	pos := s.fset.Position(call.Pos())
	key := Key(pos)
	if s.seen[key] {
		s.report(compiler.Diagnostic{
			Code:     compiler.CodeUnsupportedSelectorExpression,
			Severity: compiler.SeverityError,
			Message:  fmt.Sprintf("call sites share the key %s; put each operation call on its own line", key),
			Pos:      pos,
		})
		return
	}
	s.seen[key] = true

	comp := compiler.CompileOperation(s.model, prop.Name, args, projector, compiler.Options{Mutation: op.mutation})
	s.out.Diagnostics = append(s.out.Diagnostics, comp.Diagnostics...)
	if comp.Failed() {
		return
	}
	s.out.Sites = append(s.out.Sites, &CallSite{
		Key:       key,
		Operation: prop.Name,
		Mutation:  op.mutation,
		Document:  comp.Document,
		Variables: comp.Variables,
		Pos:       pos,
	})
}

func (s *scanner) report(d compiler.Diagnostic) {
	s.out.Diagnostics = append(s.out.Diagnostics, d)
}
