package compiler

import (
	"encoding/json"
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"github.com/seleq-dev/seleq/selector"
	"github.com/seleq-dev/seleq/typemodel"
)

// field is one selection of the document being assembled.
type field struct {
	name      string
	arguments []argument
	children  []field
}

type argument struct {
	name  string
	value string
}

// serializeBody serializes a lambda body selecting over class into its
// selection set. A composite body selects several members at once; any other
// body contributes a single selection.
func (c *compiler) serializeBody(l *selector.Lambda, class string, parent *scope) []field {
	sc := &scope{parent: parent, lambda: l, class: class}
	body := unwrapGuard(l.Body)
	switch v := body.(type) {
	case selector.Record:
		if len(v.Fields) == 0 {
			c.report(errorf(CodeUnsupportedSelectorExpression, v.Pos, "selector selects no members"))
			return nil
		}
		fields := make([]field, 0, len(v.Fields))
		for _, rf := range v.Fields {
			if f, ok := c.serializeSelection(rf.Value, sc); ok {
				fields = append(fields, f)
			}
		}
		return fields
	case selector.ListLit:
		if len(v.Elems) == 0 {
			c.report(errorf(CodeUnsupportedSelectorExpression, v.Pos, "selector selects no members"))
			return nil
		}
		fields := make([]field, 0, len(v.Elems))
		for _, e := range v.Elems {
			if f, ok := c.serializeSelection(e, sc); ok {
				fields = append(fields, f)
			}
		}
		return fields
	default:
		f, ok := c.serializeSelection(body, sc)
		if !ok {
			return nil
		}
		return []field{f}
	}
}

// serializeSelection serializes one selected member: a leaf for scalar and
// enum members, a nested selection set for object members.
func (c *compiler) serializeSelection(n selector.Node, sc *scope) (field, bool) {
	switch v := unwrapGuard(n).(type) {
	case selector.Member:
		prop, ok := c.resolveProperty(v.X, v.Name, v.Pos, sc)
		if !ok {
			return field{}, false
		}
		if typemodel.RequireSelector(prop.Type) {
			c.report(errorf(CodeUnsupportedSelectorExpression, v.Pos, "%s selects an object and requires a projector", v.Name))
			return field{}, false
		}
		return field{name: typemodel.LowerFirst(prop.Name)}, true

	case selector.Call:
		return c.serializeCall(v, sc)

	case selector.Unsupported:
		c.report(errorf(CodeUnsupportedSelectorExpression, v.Pos, "%s", v.Reason))
		return field{}, false

	default:
		c.report(errorf(CodeUnsupportedSelectorExpression, selector.Pos(n), "selector must choose a member"))
		return field{}, false
	}
}

func (c *compiler) serializeCall(call selector.Call, sc *scope) (field, bool) {
	prop, ok := c.resolveProperty(call.X, call.Name, call.Pos, sc)
	if !ok {
		return field{}, false
	}
	if len(call.Args) != len(prop.Arguments) {
		c.report(errorf(CodeUnsupportedSelectorExpression, call.Pos,
			"wrong number of arguments for %s: want %d, got %d", call.Name, len(prop.Arguments), len(call.Args)))
		return field{}, false
	}
	f := field{name: typemodel.LowerFirst(prop.Name)}
	ok = true
	for i, a := range call.Args {
		arg := prop.Arguments[i]
		val, valOK := c.renderValue(a, sc, arg)
		if !valOK {
			ok = false
			continue
		}
		f.arguments = append(f.arguments, argument{name: arg.Name, value: val})
	}
	if !ok {
		return field{}, false
	}
	return c.serializeProjector(f, prop, call.Projector, call.Pos, call.Name, sc)
}

// serializeOperation serializes a generated client call site: one root field
// with caller supplied arguments and an optional projector.
func (c *compiler) serializeOperation(prop *typemodel.FieldDefinition, args []selector.Node, projector *selector.Lambda) (field, bool) {
	var pos token.Position
	if projector != nil {
		pos = projector.Pos
	} else if len(args) > 0 {
		pos = selector.Pos(args[0])
	}
	if len(args) != len(prop.Arguments) {
		c.report(errorf(CodeUnsupportedSelectorExpression, pos,
			"wrong number of arguments for %s: want %d, got %d", prop.Name, len(prop.Arguments), len(args)))
		return field{}, false
	}
	f := field{name: typemodel.LowerFirst(prop.Name)}
	ok := true
	for i, a := range args {
		arg := prop.Arguments[i]
		if !c.isStaticValue(a) {
			// Runtime values flow through a document variable named after
			// the schema argument, bound by the client per request.
			c.declareVariable(arg.Name, forceNonNull(arg.TypeName))
			f.arguments = append(f.arguments, argument{name: arg.Name, value: "$" + arg.Name})
			continue
		}
		val, valOK := c.renderValue(a, nil, arg)
		if !valOK {
			ok = false
			continue
		}
		f.arguments = append(f.arguments, argument{name: arg.Name, value: val})
	}
	if !ok {
		return field{}, false
	}
	return c.serializeProjector(f, prop, projector, pos, prop.Name, nil)
}

func (c *compiler) serializeProjector(f field, prop *typemodel.FieldDefinition, projector *selector.Lambda, pos token.Position, name string, sc *scope) (field, bool) {
	if !typemodel.RequireSelector(prop.Type) {
		if projector != nil {
			c.report(errorf(CodeUnsupportedSelectorExpression, pos, "%s selects a leaf and takes no projector", name))
			return field{}, false
		}
		return f, true
	}
	if projector == nil {
		c.report(errorf(CodeUnsupportedSelectorExpression, pos, "%s selects an object and requires a projector", name))
		return field{}, false
	}
	f.children = c.serializeBody(projector, typemodel.NamedType(prop.Type), sc)
	if len(f.children) == 0 {
		return field{}, false
	}
	return f, true
}

// resolveProperty resolves a member or call receiver to a property of the
// class selected by the receiver's parameter.
func (c *compiler) resolveProperty(x selector.Node, name string, pos token.Position, sc *scope) (*typemodel.FieldDefinition, bool) {
	root, ok := unwrapGuard(x).(selector.Ident)
	if !ok {
		c.report(errorf(CodeUnsupportedSelectorExpression, pos, "selection must start from a selector parameter"))
		return nil, false
	}
	bind := sc.binding(root.Name)
	if bind == nil || root.Name != bind.lambda.QueryParam() {
		c.report(errorf(CodeUnsupportedSelectorExpression, pos, "selection must start from a selector parameter"))
		return nil, false
	}
	if bind != sc {
		// checkScope admits outermost parameters so they can feed argument
		// values; as a selection receiver the field would land in the wrong
		// selection set.
		c.report(errorf(CodeUnsupportedSelectorExpression, pos,
			"%s is a parameter of an enclosing selector; selections must start from this selector's parameter", root.Name))
		return nil, false
	}
	class := c.model.Class(bind.class)
	if class == nil {
		panic(fmt.Sprintf("internal: no class for %q", bind.class))
	}
	prop := class.Property(name)
	if prop == nil {
		c.report(errorf(CodeUnsupportedSelectorExpression, pos, "%s has no member %s", class.Name, name))
		return nil, false
	}
	return prop, true
}

// renderValue renders one argument value. arg carries the schema argument
// when n sits in top level argument position; nested values pass nil and
// may not bind document variables.
func (c *compiler) renderValue(n selector.Node, sc *scope, arg *typemodel.ArgumentDefinition) (string, bool) {
	switch v := unwrapGuard(n).(type) {
	case selector.Lit:
		return c.renderLit(v)

	case selector.Ident:
		if _, value, ok := c.model.EnumValue(v.Name); ok {
			return value, true
		}
		c.report(badArgument(v.Pos))
		return "", false

	case selector.Member:
		if path, ok := c.varsPath(v, sc); ok {
			if arg == nil {
				c.report(errorf(CodeUnsupportedSelectorExpression, v.Pos, "variables must bind a whole argument"))
				return "", false
			}
			name := typemodel.LowerFirst(path[len(path)-1])
			c.declareVariable(name, forceNonNull(arg.TypeName))
			return "$" + name, true
		}
		if c.enumMember(v, sc) {
			_, value, _ := c.model.EnumValue(v.Name)
			return value, true
		}
		c.report(badArgument(v.Pos))
		return "", false

	case selector.Record:
		return c.renderInputLit(v, sc)

	case selector.ListLit:
		parts := make([]string, 0, len(v.Elems))
		ok := true
		for _, e := range v.Elems {
			s, elemOK := c.renderValue(e, sc, nil)
			if !elemOK {
				ok = false
				continue
			}
			parts = append(parts, s)
		}
		if !ok {
			return "", false
		}
		return "[" + strings.Join(parts, ", ") + "]", true

	case selector.Unsupported:
		c.report(errorf(CodeUnsupportedSelectorExpression, v.Pos, "%s", v.Reason))
		return "", false

	default:
		c.report(badArgument(selector.Pos(n)))
		return "", false
	}
}

func badArgument(pos token.Position) Diagnostic {
	return errorf(CodeUnsupportedSelectorExpression, pos,
		"argument must be a literal, enum constant, variables path, or input literal")
}

func (c *compiler) renderLit(l selector.Lit) (string, bool) {
	switch l.Kind {
	case selector.LitInt:
		i, err := strconv.ParseInt(l.Text, 0, 64)
		if err != nil {
			c.report(errorf(CodeUnsupportedSelectorExpression, l.Pos, "invalid integer literal %s", l.Text))
			return "", false
		}
		return strconv.FormatInt(i, 10), true
	case selector.LitFloat:
		f, err := strconv.ParseFloat(l.Text, 64)
		if err != nil {
			c.report(errorf(CodeUnsupportedSelectorExpression, l.Pos, "invalid float literal %s", l.Text))
			return "", false
		}
		return strconv.FormatFloat(f, 'g', -1, 64), true
	case selector.LitString:
		s, err := strconv.Unquote(l.Text)
		if err != nil {
			c.report(errorf(CodeUnsupportedSelectorExpression, l.Pos, "invalid string literal %s", l.Text))
			return "", false
		}
		data, _ := json.Marshal(s)
		return string(data), true
	case selector.LitBool:
		return l.Text, true
	case selector.LitNull:
		return "null", true
	default:
		panic(fmt.Sprintf("unsupported literal kind %d", l.Kind))
	}
}

// renderInputLit renders an input object literal such as
// UserFilterInput{Name: "bob"} into {name: "bob"}.
func (c *compiler) renderInputLit(r selector.Record, sc *scope) (string, bool) {
	parts := make([]string, 0, len(r.Fields))
	ok := true
	for _, f := range r.Fields {
		if f.Name == "" {
			c.report(errorf(CodeUnsupportedSelectorExpression, r.Pos, "input literal fields must be named"))
			ok = false
			continue
		}
		val, fieldOK := c.renderValue(f.Value, sc, nil)
		if !fieldOK {
			ok = false
			continue
		}
		parts = append(parts, typemodel.LowerFirst(f.Name)+": "+val)
	}
	if !ok {
		return "", false
	}
	return "{" + strings.Join(parts, ", ") + "}", true
}

// varsPath returns the member path when m is rooted at the outermost
// lambda's variables parameter.
func (c *compiler) varsPath(m selector.Member, sc *scope) ([]string, bool) {
	var path []string
	cur := selector.Node(m)
	for {
		switch v := unwrapGuard(cur).(type) {
		case selector.Member:
			path = append([]string{v.Name}, path...)
			cur = v.X
		case selector.Ident:
			bind := sc.binding(v.Name)
			if bind == nil || bind.parent != nil {
				return nil, false
			}
			vars, ok := bind.lambda.VarsParam()
			if !ok || v.Name != vars {
				return nil, false
			}
			return path, true
		default:
			return nil, false
		}
	}
}

// isStaticValue reports whether n renders as an inline literal: every leaf
// is a literal or a generated enum constant.
func (c *compiler) isStaticValue(n selector.Node) bool {
	switch v := n.(type) {
	case selector.Lit:
		return true
	case selector.Guard:
		return c.isStaticValue(v.X)
	case selector.Ident:
		_, _, ok := c.model.EnumValue(v.Name)
		return ok
	case selector.Member:
		_, _, ok := c.model.EnumValue(v.Name)
		return ok
	case selector.Record:
		for _, f := range v.Fields {
			if !c.isStaticValue(f.Value) {
				return false
			}
		}
		return true
	case selector.ListLit:
		for _, e := range v.Elems {
			if !c.isStaticValue(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// declareVariable records a document variable declaration exactly once per
// name. The first declared type wins on repeated use.
func (c *compiler) declareVariable(name, typeName string) {
	if c.vars[name] {
		return
	}
	c.vars[name] = true
	c.out.Variables = append(c.out.Variables, Variable{Name: name, Type: typeName})
}

func forceNonNull(typeName string) string {
	if strings.HasSuffix(typeName, "!") {
		return typeName
	}
	return typeName + "!"
}

// renderDocument renders the document text: a bare selection set when no
// field carries arguments and no variables were declared, otherwise the
// operation keyword, the variable declarations, and the selection set.
func renderDocument(mutation bool, vars []Variable, fields []field) string {
	var b strings.Builder
	switch {
	case mutation:
		b.WriteString("mutation ")
	case len(vars) > 0 || anyArguments(fields):
		b.WriteString("query ")
	}
	if len(vars) > 0 {
		b.WriteString("(")
		for i, v := range vars {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("$" + v.Name + ": " + v.Type)
		}
		b.WriteString(") ")
	}
	writeSet(&b, fields)
	return b.String()
}

func anyArguments(fields []field) bool {
	for _, f := range fields {
		if len(f.arguments) > 0 || anyArguments(f.children) {
			return true
		}
	}
	return false
}

func writeSet(b *strings.Builder, fields []field) {
	b.WriteString("{ ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(" ")
		}
		writeField(b, f)
	}
	b.WriteString(" }")
}

func writeField(b *strings.Builder, f field) {
	b.WriteString(f.name)
	if len(f.arguments) > 0 {
		b.WriteString("(")
		for i, a := range f.arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.name + ": " + a.value)
		}
		b.WriteString(")")
	}
	if len(f.children) > 0 {
		b.WriteString(" ")
		writeSet(b, f.children)
	}
}
