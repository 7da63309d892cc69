package selector

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
)

// Parse parses selector source text, which must be a Go func literal, into
// its expression tree.
func Parse(source string) (*Lambda, error) {
	fset := token.NewFileSet()
	expr, err := parser.ParseExprFrom(fset, "selector.go", source, 0)
	if err != nil {
		return nil, fmt.Errorf("parse selector: %w", err)
	}
	fn, ok := expr.(*ast.FuncLit)
	if !ok {
		return nil, fmt.Errorf("selector must be a func literal, got %T", expr)
	}
	return FromFuncLit(fset, fn), nil
}

// FromFuncLit converts an already parsed func literal into its expression
// tree. It is used when selectors are collected from full source files.
func FromFuncLit(fset *token.FileSet, fn *ast.FuncLit) *Lambda {
	l := &Lambda{Pos: position(fset, fn)}
	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			for _, name := range field.Names {
				l.Params = append(l.Params, name.Name)
			}
		}
	}
	l.Body = lambdaBody(fset, fn.Body)
	return l
}

// Convert converts a parsed Go expression into a selector tree node. The
// conversion is total: shapes outside the closed set become Unsupported
// nodes and are diagnosed during compilation.
func Convert(fset *token.FileSet, expr ast.Expr) Node {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return Convert(fset, e.X)

	case *ast.Ident:
		pos := position(fset, e)
		switch e.Name {
		case "true", "false":
			return Lit{Kind: LitBool, Text: e.Name, Pos: pos}
		case "nil":
			return Lit{Kind: LitNull, Text: "null", Pos: pos}
		}
		return Ident{Name: e.Name, Pos: pos}

	case *ast.SelectorExpr:
		return Member{X: Convert(fset, e.X), Name: e.Sel.Name, Pos: position(fset, e)}

	case *ast.CallExpr:
		return convertCall(fset, e)

	case *ast.BasicLit:
		return convertBasicLit(fset, e)

	case *ast.UnaryExpr:
		return convertUnary(fset, e)

	case *ast.StarExpr:
		return Guard{X: Convert(fset, e.X), Pos: position(fset, e)}

	case *ast.TypeAssertExpr:
		if e.Type == nil {
			return Unsupported{Reason: "type switch assertion", Pos: position(fset, e)}
		}
		return Guard{X: Convert(fset, e.X), Pos: position(fset, e)}

	case *ast.CompositeLit:
		return convertComposite(fset, e)

	case *ast.FuncLit:
		return FromFuncLit(fset, e)

	default:
		return Unsupported{
			Reason: fmt.Sprintf("unsupported expression %T", expr),
			Pos:    position(fset, expr),
		}
	}
}

func lambdaBody(fset *token.FileSet, block *ast.BlockStmt) Node {
	pos := position(fset, block)
	if len(block.List) != 1 {
		return Unsupported{Reason: "selector body must be a single return statement", Pos: pos}
	}
	ret, ok := block.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return Unsupported{Reason: "selector body must be a single return statement", Pos: pos}
	}
	return Convert(fset, ret.Results[0])
}

func convertCall(fset *token.FileSet, call *ast.CallExpr) Node {
	pos := position(fset, call)
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return Unsupported{Reason: "call target must be a selector method", Pos: pos}
	}
	out := Call{X: Convert(fset, sel.X), Name: sel.Sel.Name, Pos: pos}
	for _, arg := range call.Args {
		if fn, ok := arg.(*ast.FuncLit); ok {
			if out.Projector != nil {
				return Unsupported{Reason: "more than one projector argument", Pos: pos}
			}
			out.Projector = FromFuncLit(fset, fn)
			continue
		}
		out.Args = append(out.Args, Convert(fset, arg))
	}
	return out
}

func convertBasicLit(fset *token.FileSet, lit *ast.BasicLit) Node {
	pos := position(fset, lit)
	switch lit.Kind {
	case token.INT:
		return Lit{Kind: LitInt, Text: lit.Value, Pos: pos}
	case token.FLOAT:
		return Lit{Kind: LitFloat, Text: lit.Value, Pos: pos}
	case token.STRING:
		return Lit{Kind: LitString, Text: lit.Value, Pos: pos}
	default:
		return Unsupported{Reason: fmt.Sprintf("unsupported literal %s", lit.Kind), Pos: pos}
	}
}

func convertUnary(fset *token.FileSet, e *ast.UnaryExpr) Node {
	pos := position(fset, e)
	switch e.Op {
	case token.SUB:
		lit, ok := e.X.(*ast.BasicLit)
		if !ok {
			return Unsupported{Reason: "unsupported negation", Pos: pos}
		}
		n := convertBasicLit(fset, lit)
		if l, ok := n.(Lit); ok && (l.Kind == LitInt || l.Kind == LitFloat) {
			l.Text = "-" + l.Text
			l.Pos = pos
			return l
		}
		return Unsupported{Reason: "unsupported negation", Pos: pos}
	case token.AND:
		return Guard{X: Convert(fset, e.X), Pos: pos}
	default:
		return Unsupported{Reason: fmt.Sprintf("unsupported operator %s", e.Op), Pos: pos}
	}
}

func convertComposite(fset *token.FileSet, lit *ast.CompositeLit) Node {
	pos := position(fset, lit)
	switch t := lit.Type.(type) {
	case *ast.ArrayType:
		elems := make([]Node, len(lit.Elts))
		for i, el := range lit.Elts {
			elems[i] = Convert(fset, el)
		}
		return ListLit{Elems: elems, Pos: pos}

	case *ast.Ident:
		return convertRecord(fset, lit, t.Name, pos)

	case *ast.SelectorExpr:
		return convertRecord(fset, lit, t.Sel.Name, pos)

	case *ast.StructType, *ast.MapType, nil:
		return convertRecord(fset, lit, "", pos)

	default:
		return Unsupported{Reason: fmt.Sprintf("unsupported composite literal type %T", lit.Type), Pos: pos}
	}
}

func convertRecord(fset *token.FileSet, lit *ast.CompositeLit, typeName string, pos token.Position) Node {
	fields := make([]RecordField, len(lit.Elts))
	for i, el := range lit.Elts {
		kv, ok := el.(*ast.KeyValueExpr)
		if !ok {
			fields[i] = RecordField{Value: Convert(fset, el)}
			continue
		}
		var name string
		switch key := kv.Key.(type) {
		case *ast.Ident:
			name = key.Name
		case *ast.BasicLit:
			if key.Kind == token.STRING {
				if unquoted, err := strconv.Unquote(key.Value); err == nil {
					name = unquoted
				}
			}
		}
		fields[i] = RecordField{Name: name, Value: Convert(fset, kv.Value)}
	}
	return Record{TypeName: typeName, Fields: fields, Pos: pos}
}

func position(fset *token.FileSet, n ast.Node) token.Position {
	return fset.Position(n.Pos())
}
