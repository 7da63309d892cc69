package typemodel

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/seleq-dev/seleq/schema"
)

// builtinScalars are the scalar types every schema carries.
var builtinScalars = []string{"Int", "Float", "String", "Boolean", "ID"}

type kind int

const (
	kindUnknown kind = iota
	kindScalar
	kindEnum
	kindObject
	kindInput
)

// ClassDefinition describes one generated data type and its ordered properties.
// Property order matches schema declaration order.
type ClassDefinition struct {
	Name       string
	Input      bool
	Properties []*FieldDefinition
}

// Property returns the property with the given generated name or nil.
func (c *ClassDefinition) Property(name string) *FieldDefinition {
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FieldDefinition describes one generated property or selector method.
type FieldDefinition struct {
	// Name is the generated name, the UpperFirst of the schema field name.
	Name      string
	Type      TypeDefinition
	Arguments []*ArgumentDefinition
}

// ArgumentDefinition describes one schema field argument.
type ArgumentDefinition struct {
	Name     string // schema argument name
	TypeName string // canonical rendering of Type
	Type     TypeDefinition
}

// EnumDefinition describes one generated enum and its ordered values.
type EnumDefinition struct {
	Name   string
	Values []EnumValue
}

// EnumValue pairs a schema enum value with its generated constant name.
type EnumValue struct {
	Name  string // schema value, e.g. ADMIN
	Const string // generated constant name, e.g. RoleAdmin
}

type enumConst struct {
	enum  string
	value string
}

// Model is the resolved type model for one schema compile. It is immutable
// once built and safe for concurrent readers.
type Model struct {
	Classes []*ClassDefinition // object types in declaration order
	Inputs  []*ClassDefinition // input types in declaration order
	Enums   []*EnumDefinition  // enum types in declaration order
	Scalars []string           // custom scalar names in declaration order

	QueryType    string
	MutationType string

	kinds   map[string]kind
	classes map[string]*ClassDefinition
	enums   map[string]*EnumDefinition
	consts  map[string]enumConst
}

// Build resolves every definition of the parsed schema into a Model.
func Build(s *ast.Schema) (*Model, error) {
	m := &Model{
		kinds:   make(map[string]kind),
		classes: make(map[string]*ClassDefinition),
		enums:   make(map[string]*EnumDefinition),
		consts:  make(map[string]enumConst),
	}
	for _, n := range builtinScalars {
		m.kinds[n] = kindScalar
	}
	defs := schema.Definitions(s)
	for _, d := range defs {
		switch d.Kind {
		case ast.Scalar:
			m.kinds[d.Name] = kindScalar
			m.Scalars = append(m.Scalars, d.Name)
		case ast.Enum:
			m.kinds[d.Name] = kindEnum
		case ast.Object:
			m.kinds[d.Name] = kindObject
		case ast.InputObject:
			m.kinds[d.Name] = kindInput
		default:
			return nil, schema.Errorf("unsupported kind %s for type %q", d.Kind, d.Name)
		}
	}
	for _, d := range defs {
		switch d.Kind {
		case ast.Enum:
			m.addEnum(d)
		case ast.Object, ast.InputObject:
			if err := m.addClass(d); err != nil {
				return nil, err
			}
		}
	}
	if s.Query != nil {
		m.QueryType = s.Query.Name
	}
	if s.Mutation != nil {
		m.MutationType = s.Mutation.Name
	}
	return m, nil
}

// Resolve recursively unwraps list and non-null wrappers from the type
// reference and looks up the innermost named type.
func (m *Model) Resolve(t *ast.Type) (TypeDefinition, error) {
	if t.Elem != nil {
		elem, err := m.Resolve(t.Elem)
		if err != nil {
			return nil, err
		}
		return List{Elem: elem, Nullable: !t.NonNull}, nil
	}
	nullable := !t.NonNull
	switch m.kinds[t.NamedType] {
	case kindScalar:
		return Scalar{Name: t.NamedType, Nullable: nullable}, nil
	case kindEnum:
		return Enum{Name: t.NamedType, Nullable: nullable}, nil
	case kindObject:
		return Object{Name: t.NamedType, Nullable: nullable}, nil
	case kindInput:
		return InputObject{Name: t.NamedType, Nullable: nullable}, nil
	default:
		return nil, schema.Errorf("unknown type %q", t.NamedType)
	}
}

// Class returns the class with the given type name or nil.
func (m *Model) Class(name string) *ClassDefinition {
	return m.classes[name]
}

// Enum returns the enum with the given type name or nil.
func (m *Model) Enum(name string) *EnumDefinition {
	return m.enums[name]
}

// EnumValue returns the enum type and schema value behind a generated
// constant name.
func (m *Model) EnumValue(constName string) (enum string, value string, ok bool) {
	c, ok := m.consts[constName]
	return c.enum, c.value, ok
}

func (m *Model) addEnum(d *ast.Definition) {
	enum := &EnumDefinition{Name: d.Name}
	seen := make(map[string]bool)
	for _, v := range d.EnumValues {
		name := constName(d.Name, v.Name)
		if seen[name] {
			name = fallbackConstName(d.Name, v.Name)
		}
		seen[name] = true
		enum.Values = append(enum.Values, EnumValue{Name: v.Name, Const: name})
		m.consts[name] = enumConst{enum: d.Name, value: v.Name}
	}
	m.Enums = append(m.Enums, enum)
	m.enums[d.Name] = enum
}

func (m *Model) addClass(d *ast.Definition) error {
	class := &ClassDefinition{Name: d.Name, Input: d.Kind == ast.InputObject}
	seen := make(map[string]string)
	for _, f := range d.Fields {
		// LoadSchema injects introspection fields into the query root.
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		t, err := m.Resolve(f.Type)
		if err != nil {
			return err
		}
		name := UpperFirst(f.Name)
		// Field names are case sensitive in the schema but share one property
		// namespace here.
		if prev, ok := seen[name]; ok {
			return schema.Errorf("fields %q and %q of %s map to the same property %s; rename one of the fields",
				prev, f.Name, d.Name, name)
		}
		seen[name] = f.Name
		field := &FieldDefinition{Name: name, Type: t}
		for _, a := range f.Arguments {
			at, err := m.Resolve(a.Type)
			if err != nil {
				return err
			}
			field.Arguments = append(field.Arguments, &ArgumentDefinition{
				Name:     a.Name,
				TypeName: Render(at),
				Type:     at,
			})
		}
		class.Properties = append(class.Properties, field)
	}
	if class.Input {
		m.Inputs = append(m.Inputs, class)
	} else {
		m.Classes = append(m.Classes, class)
	}
	m.classes[d.Name] = class
	return nil
}
