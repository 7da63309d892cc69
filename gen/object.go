package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/seleq-dev/seleq/typemodel"
)

// methodBacked reports whether a property is reached through a generated
// method instead of an exported field: object valued properties take a
// selector, and any property with arguments needs them at the call site.
func methodBacked(p *typemodel.FieldDefinition) bool {
	return typemodel.RequireSelector(p.Type) || len(p.Arguments) > 0
}

func (e *Emitter) emitObject(f *jen.File, class *typemodel.ClassDefinition) {
	recv := receiverName(class.Name)
	fields := make([]jen.Code, 0, len(class.Properties))
	backed := false
	for _, p := range class.Properties {
		if methodBacked(p) {
			backed = true
			fields = append(fields, jen.Id(backingName(p.Name)).Add(e.backingType(p.Type)))
			continue
		}
		fields = append(fields, jen.Id(p.Name).Add(e.goType(p.Type)).
			Tag(map[string]string{"json": typemodel.LowerFirst(p.Name)}))
	}
	f.Commentf("%s mirrors the schema object type.", class.Name)
	f.Type().Id(class.Name).Struct(fields...)

	if backed {
		e.emitUnmarshal(f, class, recv)
	}
	for _, p := range class.Properties {
		if methodBacked(p) {
			e.emitAccessor(f, class, p, recv)
		}
	}
}

// backingType is the stored shape behind a method backed property. Single
// objects are held by pointer so an absent value stays observable; list
// elements are held by value.
func (e *Emitter) backingType(t typemodel.TypeDefinition) *jen.Statement {
	if !typemodel.RequireSelector(t) {
		return e.goType(t)
	}
	switch v := t.(type) {
	case typemodel.Object:
		return jen.Op("*").Id(v.Name)
	case typemodel.List:
		return jen.Index().Add(e.backingElem(v.Elem))
	default:
		panic(fmt.Sprintf("unsupported backing type %T", t))
	}
}

func (e *Emitter) backingElem(t typemodel.TypeDefinition) *jen.Statement {
	switch v := t.(type) {
	case typemodel.Object:
		return jen.Id(v.Name)
	case typemodel.List:
		return jen.Index().Add(e.backingElem(v.Elem))
	default:
		return e.goType(t)
	}
}

// emitUnmarshal maps schema field names onto exported properties and hidden
// backing slots in one pass.
func (e *Emitter) emitUnmarshal(f *jen.File, class *typemodel.ClassDefinition, recv string) {
	rawFields := make([]jen.Code, 0, len(class.Properties))
	for _, p := range class.Properties {
		typ := e.goType(p.Type)
		if methodBacked(p) {
			typ = e.backingType(p.Type)
		}
		rawFields = append(rawFields, jen.Id(p.Name).Add(typ).
			Tag(map[string]string{"json": typemodel.LowerFirst(p.Name)}))
	}
	f.Func().Params(jen.Id(recv).Op("*").Id(class.Name)).Id("UnmarshalJSON").
		Params(jen.Id("data").Index().Byte()).Error().
		BlockFunc(func(g *jen.Group) {
			g.Var().Id("raw").Struct(rawFields...)
			g.If(
				jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("raw")),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Err()))
			for _, p := range class.Properties {
				field := p.Name
				if methodBacked(p) {
					field = backingName(p.Name)
				}
				g.Id(recv).Dot(field).Op("=").Id("raw").Dot(p.Name)
			}
			g.Return(jen.Nil())
		})
}

func (e *Emitter) emitAccessor(f *jen.File, class *typemodel.ClassDefinition, p *typemodel.FieldDefinition, recv string) {
	back := func() *jen.Statement { return jen.Id(recv).Dot(backingName(p.Name)) }
	params := make([]jen.Code, 0, len(p.Arguments)+1)
	for _, a := range p.Arguments {
		params = append(params, jen.Id(paramName(a.Name, recv)).Add(e.goType(a.Type)))
	}
	if !typemodel.RequireSelector(p.Type) {
		// Arguments shape the compiled document; the loaded value is
		// returned as is.
		f.Func().Params(jen.Id(recv).Id(class.Name)).Id(p.Name).
			Params(params...).Add(e.goType(p.Type)).
			Block(jen.Return(back()))
		return
	}
	elem := typemodel.NamedType(p.Type)
	params = append(params, jen.Id("selector").Func().Params(jen.Id(elem)).Any())
	switch t := p.Type.(type) {
	case typemodel.Object:
		f.Func().Params(jen.Id(recv).Id(class.Name)).Id(p.Name).
			Params(params...).Any().
			Block(
				jen.If(back().Op("==").Nil()).Block(jen.Return(jen.Nil())),
				jen.Return(jen.Id("selector").Call(jen.Op("*").Add(back()))),
			)
	case typemodel.List:
		f.Func().Params(jen.Id(recv).Id(class.Name)).Id(p.Name).
			Params(params...).Index().Any().
			BlockFunc(func(g *jen.Group) {
				e.emitListApply(g, back(), t, 0)
			})
	default:
		panic(fmt.Sprintf("unsupported accessor type %T", p.Type))
	}
}

// emitListApply writes the loop mapping src through selector, one nesting
// level per list depth. A nil backing slice yields an empty result.
func (e *Emitter) emitListApply(g *jen.Group, src *jen.Statement, t typemodel.List, depth int) {
	out := "out"
	v := "v"
	if depth > 0 {
		out = fmt.Sprintf("out%d", depth)
		v = fmt.Sprintf("v%d", depth)
	}
	g.Id(out).Op(":=").Make(jen.Index().Any(), jen.Lit(0), jen.Len(src.Clone()))
	g.For(jen.List(jen.Id("_"), jen.Id(v)).Op(":=").Range().Add(src.Clone())).
		BlockFunc(func(loop *jen.Group) {
			switch elem := t.Elem.(type) {
			case typemodel.Object:
				loop.Id(out).Op("=").Append(jen.Id(out), jen.Id("selector").Call(jen.Id(v)))
			case typemodel.List:
				e.emitListApply(loop, jen.Id(v), elem, depth+1)
				loop.Id(out).Op("=").Append(jen.Id(out), jen.Id(fmt.Sprintf("out%d", depth+1)))
			default:
				panic(fmt.Sprintf("unsupported list element %T", t.Elem))
			}
		})
	if depth == 0 {
		g.Return(jen.Id(out))
	}
}
