package typemodel

import "fmt"

// TypeDefinition is the closed set of resolved schema type shapes.
// Nullability and list wrapping nest recursively.
type TypeDefinition interface {
	typeDefinition()
}

// Scalar is a leaf value type such as Int, Float, String, Boolean, or ID.
type Scalar struct {
	Name     string
	Nullable bool
}

// Enum is a named set of declared values.
type Enum struct {
	Name     string
	Nullable bool
}

// Object is a composite type selected through a projector.
type Object struct {
	Name     string
	Nullable bool
}

// InputObject is a composite argument type with no sub-selection.
type InputObject struct {
	Name     string
	Nullable bool
}

// List wraps an element type.
type List struct {
	Elem     TypeDefinition
	Nullable bool
}

func (Scalar) typeDefinition()      {}
func (Enum) typeDefinition()        {}
func (Object) typeDefinition()      {}
func (InputObject) typeDefinition() {}
func (List) typeDefinition()        {}

// Render returns the canonical GraphQL rendering of t, e.g. "Int!" or "[User!]".
func Render(t TypeDefinition) string {
	switch v := t.(type) {
	case Scalar:
		return renderName(v.Name, v.Nullable)
	case Enum:
		return renderName(v.Name, v.Nullable)
	case Object:
		return renderName(v.Name, v.Nullable)
	case InputObject:
		return renderName(v.Name, v.Nullable)
	case List:
		return renderName("["+Render(v.Elem)+"]", v.Nullable)
	default:
		panic(fmt.Sprintf("unsupported type definition %T", t))
	}
}

func renderName(name string, nullable bool) string {
	if nullable {
		return name
	}
	return name + "!"
}

// RequireSelector reports whether a field of type t is selected through a
// projector over its element fields. Objects are, scalar and enum leaves are
// not, and lists follow their element type.
func RequireSelector(t TypeDefinition) bool {
	switch v := t.(type) {
	case Object:
		return true
	case List:
		return RequireSelector(v.Elem)
	case Scalar, Enum, InputObject:
		return false
	default:
		panic(fmt.Sprintf("unsupported type definition %T", t))
	}
}

// Nullable reports whether t may be absent.
func Nullable(t TypeDefinition) bool {
	switch v := t.(type) {
	case Scalar:
		return v.Nullable
	case Enum:
		return v.Nullable
	case Object:
		return v.Nullable
	case InputObject:
		return v.Nullable
	case List:
		return v.Nullable
	default:
		panic(fmt.Sprintf("unsupported type definition %T", t))
	}
}

// Elem returns the ultimate element type of t, unwrapping any list nesting.
func Elem(t TypeDefinition) TypeDefinition {
	if l, ok := t.(List); ok {
		return Elem(l.Elem)
	}
	return t
}

// NamedType returns the innermost named type of t.
func NamedType(t TypeDefinition) string {
	switch v := Elem(t).(type) {
	case Scalar:
		return v.Name
	case Enum:
		return v.Name
	case Object:
		return v.Name
	case InputObject:
		return v.Name
	default:
		panic(fmt.Sprintf("unsupported type definition %T", t))
	}
}
