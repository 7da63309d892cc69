package compiler

import (
	"fmt"
	"go/token"

	"github.com/seleq-dev/seleq/selector"
	"github.com/seleq-dev/seleq/typemodel"
)

// Options configure one compilation.
type Options struct {
	// Mutation compiles against the schema's mutation root.
	Mutation bool
}

// Variable is one promoted document variable declaration.
type Variable struct {
	Name string
	Type string
}

// Compilation is the outcome of compiling one selector. Document is empty
// when an error diagnostic withheld it.
type Compilation struct {
	Document    string
	Variables   []Variable
	Diagnostics []Diagnostic
}

// Failed reports whether any error diagnostic was recorded.
func (c *Compilation) Failed() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns the first error diagnostic, or nil.
func (c *Compilation) Err() error {
	for _, d := range c.Diagnostics {
		if d.Severity == SeverityError {
			return d
		}
	}
	return nil
}

// compiler carries the state of one compilation.
type compiler struct {
	model *typemodel.Model
	opts  Options
	out   *Compilation
	vars  map[string]bool
}

// scope is one lambda's parameter scope. The chain root is the outermost
// selector lambda.
type scope struct {
	parent *scope
	lambda *selector.Lambda
	class  string // class selected through the lambda's query parameter
}

// binding returns the innermost scope that binds name, or nil.
func (s *scope) binding(name string) *scope {
	for cur := s; cur != nil; cur = cur.parent {
		for _, p := range cur.lambda.Params {
			if p == name {
				return cur
			}
		}
	}
	return nil
}

// Compile compiles a root selector lambda into a GraphQL document. The
// lambda's last parameter selects over the query root, or the mutation root
// with opts.Mutation; a leading parameter binds document variables.
func Compile(m *typemodel.Model, root *selector.Lambda, opts Options) *Compilation {
	c := newCompiler(m, opts)
	className, ok := c.rootClass(root.Pos)
	if !ok {
		return c.out
	}
	if len(root.Params) == 0 || len(root.Params) > 2 {
		c.report(errorf(CodeUnsupportedSelectorExpression, root.Pos,
			"selector must take one parameter, or a variables parameter and a query parameter"))
		return c.out
	}
	c.checkStatic(root, nil)
	c.checkOpen(root)
	c.checkScope(root, nil)
	if c.out.Failed() {
		return c.out
	}
	fields := c.serializeBody(root, className, nil)
	if c.out.Failed() {
		return c.out
	}
	c.out.Document = renderDocument(c.opts.Mutation, c.out.Variables, fields)
	return c.out
}

// CompileOperation compiles a single root field invocation as written at a
// generated client call site: the field's caller supplied arguments plus an
// optional projector over the field's element type. Arguments that are not
// literals or enum constants are promoted to document variables named after
// the schema argument and bound by the client at execution time.
func CompileOperation(m *typemodel.Model, fieldName string, args []selector.Node, projector *selector.Lambda, opts Options) *Compilation {
	c := newCompiler(m, opts)
	var pos token.Position
	if projector != nil {
		pos = projector.Pos
	} else if len(args) > 0 {
		pos = selector.Pos(args[0])
	}
	className, ok := c.rootClass(pos)
	if !ok {
		return c.out
	}
	prop := c.model.Class(className).Property(fieldName)
	if prop == nil {
		c.report(errorf(CodeUnsupportedSelectorExpression, pos, "%s has no field %s", className, fieldName))
		return c.out
	}
	if projector != nil {
		c.checkStatic(projector, nil)
		c.checkOpen(projector)
		c.checkScope(projector, nil)
	}
	if c.out.Failed() {
		return c.out
	}
	f, ok := c.serializeOperation(prop, args, projector)
	if !ok || c.out.Failed() {
		return c.out
	}
	c.out.Document = renderDocument(c.opts.Mutation, c.out.Variables, []field{f})
	return c.out
}

func newCompiler(m *typemodel.Model, opts Options) *compiler {
	return &compiler{
		model: m,
		opts:  opts,
		out:   &Compilation{},
		vars:  make(map[string]bool),
	}
}

func (c *compiler) rootClass(pos token.Position) (string, bool) {
	className := c.model.QueryType
	kind := "query"
	if c.opts.Mutation {
		className = c.model.MutationType
		kind = "mutation"
	}
	if className == "" || c.model.Class(className) == nil {
		c.report(errorf(CodeUnsupportedSelectorExpression, pos, "schema has no %s root", kind))
		return "", false
	}
	return className, true
}

func (c *compiler) report(d Diagnostic) {
	c.out.Diagnostics = append(c.out.Diagnostics, d)
}

// checkStatic reports identifiers that are not bound by an enclosing
// selector parameter and are not literals or generated enum constants.
// Selectors never capture enclosing state.
func (c *compiler) checkStatic(n selector.Node, sc *scope) {
	switch v := n.(type) {
	case *selector.Lambda:
		c.checkStatic(v.Body, &scope{parent: sc, lambda: v})
	case selector.Ident:
		if sc.binding(v.Name) != nil {
			return
		}
		if _, _, ok := c.model.EnumValue(v.Name); ok {
			return
		}
		c.report(errorf(CodeOnlyStaticLambda, v.Pos,
			"selector uses %s from the enclosing scope; selectors must not capture state", v.Name))
	case selector.Member:
		if c.enumMember(v, sc) {
			return
		}
		c.checkStatic(v.X, sc)
	case selector.Call:
		c.checkStatic(v.X, sc)
		for _, a := range v.Args {
			c.checkStatic(a, sc)
		}
		if v.Projector != nil {
			c.checkStatic(v.Projector, sc)
		}
	case selector.Record:
		for _, f := range v.Fields {
			c.checkStatic(f.Value, sc)
		}
	case selector.ListLit:
		for _, e := range v.Elems {
			c.checkStatic(e, sc)
		}
	case selector.Guard:
		c.checkStatic(v.X, sc)
	case selector.Lit, selector.Unsupported:
	default:
		panic(fmt.Sprintf("unsupported node %T", n))
	}
}

// checkOpen reports selectors whose body returns their own parameter.
func (c *compiler) checkOpen(n selector.Node) {
	switch v := n.(type) {
	case *selector.Lambda:
		if id, ok := unwrapGuard(v.Body).(selector.Ident); ok && id.Name == v.QueryParam() {
			c.report(errorf(CodeOpenLambdaIsNotAllowed, v.Pos,
				"open selector returns its parameter unmodified; select at least one member"))
		}
		c.checkOpen(v.Body)
	case selector.Member:
		c.checkOpen(v.X)
	case selector.Call:
		c.checkOpen(v.X)
		for _, a := range v.Args {
			c.checkOpen(a)
		}
		if v.Projector != nil {
			c.checkOpen(v.Projector)
		}
	case selector.Record:
		for _, f := range v.Fields {
			c.checkOpen(f.Value)
		}
	case selector.ListLit:
		for _, e := range v.Elems {
			c.checkOpen(e)
		}
	case selector.Guard:
		c.checkOpen(v.X)
	}
}

// checkScope reports identifiers bound by an intermediate selector scope.
// An inner selector may use its own parameters, the outermost selector's
// parameters, and constants; parameters of sibling or ancestor selectors in
// between are out of scope.
func (c *compiler) checkScope(n selector.Node, sc *scope) {
	switch v := n.(type) {
	case *selector.Lambda:
		c.checkScope(v.Body, &scope{parent: sc, lambda: v})
	case selector.Ident:
		bind := sc.binding(v.Name)
		if bind == nil || bind == sc || bind.parent == nil {
			return
		}
		c.report(errorf(CodeDontUseOutScopeValues, v.Pos,
			"%s is bound by another selector; use this selector's parameters or the outermost selector's parameters", v.Name))
	case selector.Member:
		c.checkScope(v.X, sc)
	case selector.Call:
		c.checkScope(v.X, sc)
		for _, a := range v.Args {
			c.checkScope(a, sc)
		}
		if v.Projector != nil {
			c.checkScope(v.Projector, sc)
		}
	case selector.Record:
		for _, f := range v.Fields {
			c.checkScope(f.Value, sc)
		}
	case selector.ListLit:
		for _, e := range v.Elems {
			c.checkScope(e, sc)
		}
	case selector.Guard:
		c.checkScope(v.X, sc)
	}
}

// enumMember reports whether m is a package qualified enum constant such as
// api.RoleAdmin.
func (c *compiler) enumMember(m selector.Member, sc *scope) bool {
	id, ok := unwrapGuard(m.X).(selector.Ident)
	if !ok || sc.binding(id.Name) != nil {
		return false
	}
	_, _, ok = c.model.EnumValue(m.Name)
	return ok
}

func unwrapGuard(n selector.Node) selector.Node {
	for {
		g, ok := n.(selector.Guard)
		if !ok {
			return n
		}
		n = g.X
	}
}
