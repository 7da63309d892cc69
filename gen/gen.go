// Package gen emits Go client source from a resolved type model.
package gen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/seleq-dev/seleq/typemodel"
)

// runtimePkg is the import path of the runtime package generated clients wrap.
const runtimePkg = "github.com/seleq-dev/seleq/runtime"

// Options configure one emission.
type Options struct {
	// Package is the package name of the emitted file.
	Package string
	// Client is the name of the emitted client type.
	Client string
	// Scalars maps custom scalar names to Go types, either bare names or
	// import qualified like "time.Time". Unmapped custom scalars become
	// string.
	Scalars map[string]string
}

// Emitter turns a type model into Go client source. Emission is
// deterministic: the same model and options produce byte identical output.
type Emitter struct {
	model *typemodel.Model
	opts  Options
}

func New(model *typemodel.Model, opts Options) *Emitter {
	if opts.Package == "" {
		opts.Package = "api"
	}
	if opts.Client == "" {
		opts.Client = "Client"
	}
	return &Emitter{model: model, opts: opts}
}

// Source renders the generated file.
func (e *Emitter) Source() ([]byte, error) {
	f, err := e.file()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render generated source: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Emitter) file() (*jen.File, error) {
	if err := e.checkClientName(); err != nil {
		return nil, err
	}
	f := jen.NewFile(e.opts.Package)
	f.HeaderComment("Code generated by seleq. DO NOT EDIT.")
	for _, enum := range e.model.Enums {
		e.emitEnum(f, enum)
	}
	for _, input := range e.model.Inputs {
		e.emitInput(f, input)
	}
	for _, class := range e.model.Classes {
		e.emitObject(f, class)
	}
	if err := e.emitClient(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (e *Emitter) checkClientName() error {
	name := e.opts.Client
	if e.model.Class(name) != nil || e.model.Enum(name) != nil {
		return fmt.Errorf("client name %q collides with a schema type", name)
	}
	return nil
}

func (e *Emitter) emitEnum(f *jen.File, enum *typemodel.EnumDefinition) {
	f.Commentf("%s matches the schema enum of the same name.", enum.Name)
	f.Type().Id(enum.Name).String()
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, v := range enum.Values {
			g.Id(v.Const).Id(enum.Name).Op("=").Lit(v.Name)
		}
	})
}

func (e *Emitter) emitInput(f *jen.File, class *typemodel.ClassDefinition) {
	fields := make([]jen.Code, 0, len(class.Properties))
	for _, p := range class.Properties {
		tag := typemodel.LowerFirst(p.Name)
		if typemodel.Nullable(p.Type) {
			tag += ",omitempty"
		}
		fields = append(fields, jen.Id(p.Name).Add(e.goType(p.Type)).Tag(map[string]string{"json": tag}))
	}
	f.Commentf("%s mirrors the schema input type.", class.Name)
	f.Type().Id(class.Name).Struct(fields...)
}

// goType maps a resolved type onto its Go surface type: nullable leaves are
// pointers, lists are slices with nullability carried by the element.
func (e *Emitter) goType(t typemodel.TypeDefinition) *jen.Statement {
	switch v := t.(type) {
	case typemodel.Scalar:
		return maybePtr(v.Nullable, e.scalarType(v.Name))
	case typemodel.Enum:
		return maybePtr(v.Nullable, jen.Id(v.Name))
	case typemodel.Object:
		return maybePtr(v.Nullable, jen.Id(v.Name))
	case typemodel.InputObject:
		return maybePtr(v.Nullable, jen.Id(v.Name))
	case typemodel.List:
		return jen.Index().Add(e.goType(v.Elem))
	default:
		panic(fmt.Sprintf("unsupported type definition %T", t))
	}
}

func maybePtr(nullable bool, t *jen.Statement) *jen.Statement {
	if nullable {
		return jen.Op("*").Add(t)
	}
	return t
}

func (e *Emitter) scalarType(name string) *jen.Statement {
	switch name {
	case "Int":
		return jen.Int()
	case "Float":
		return jen.Float64()
	case "String", "ID":
		return jen.String()
	case "Boolean":
		return jen.Bool()
	}
	mapped, ok := e.opts.Scalars[name]
	if !ok {
		return jen.String()
	}
	if i := strings.LastIndex(mapped, "."); i >= 0 {
		return jen.Qual(mapped[:i], mapped[i+1:])
	}
	return jen.Id(mapped)
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// reservedParams are identifiers the emitted method bodies use themselves.
var reservedParams = map[string]bool{
	"ctx": true, "selector": true, "data": true, "raw": true, "query": true,
	"root": true, "key": true, "args": true, "out": true, "v": true, "err": true,
}

func paramName(name, receiver string) string {
	if goKeywords[name] || reservedParams[name] || name == receiver {
		return name + "_"
	}
	return name
}

func backingName(name string) string {
	n := typemodel.LowerFirst(name)
	if goKeywords[n] {
		return n + "_"
	}
	return n
}

func receiverName(typeName string) string {
	return strings.ToLower(typeName[:1])
}
