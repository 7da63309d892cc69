package gen

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/seleq-dev/seleq/typemodel"
)

func (e *Emitter) emitClient(f *jen.File) error {
	name := e.opts.Client
	f.Commentf("%s executes operations against the schema roots.", name)
	f.Type().Id(name).Struct(
		jen.Id("client").Op("*").Qual(runtimePkg, "Client"),
	)
	f.Commentf("New%s wraps a configured runtime client.", name)
	f.Func().Id("New"+name).
		Params(jen.Id("client").Op("*").Qual(runtimePkg, "Client")).
		Op("*").Id(name).
		Block(jen.Return(jen.Op("&").Id(name).Values(jen.Dict{
			jen.Id("client"): jen.Id("client"),
		})))

	used := make(map[string]bool)
	if e.model.QueryType != "" {
		e.emitRun(f, "runQuery", e.model.QueryType)
		if err := e.emitOperations(f, e.model.QueryType, "runQuery", used); err != nil {
			return err
		}
	}
	if e.model.MutationType != "" {
		e.emitRun(f, "runMutation", e.model.MutationType)
		if err := e.emitOperations(f, e.model.MutationType, "runMutation", used); err != nil {
			return err
		}
	}
	return nil
}

// emitRun writes the shared execution path: resolve the compiled document by
// call site key, execute it, unmarshal the data envelope into the root type,
// and apply the caller's accessor.
func (e *Emitter) emitRun(f *jen.File, fnName, rootType string) {
	f.Func().Params(jen.Id("c").Op("*").Id(e.opts.Client)).Id(fnName).
		Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("key").String(),
			jen.Id("args").Qual(runtimePkg, "Args"),
			jen.Id("apply").Func().Params(jen.Id(rootType)).Any(),
		).
		Params(jen.Op("*").Qual(runtimePkg, "Result"), jen.Error()).
		Block(
			jen.List(jen.Id("query"), jen.Err()).Op(":=").Id("c").Dot("client").Dot("Lookup").Call(jen.Id("key")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.List(jen.Id("data"), jen.Err()).Op(":=").Id("c").Dot("client").Dot("Execute").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Var().Id("root").Id(rootType),
			jen.If(
				jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("root")),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Op("&").Qual(runtimePkg, "Result").Values(jen.Dict{
				jen.Id("Data"):  jen.Id("apply").Call(jen.Id("root")),
				jen.Id("Query"): jen.Id("query"),
			}), jen.Nil()),
		)
}

func (e *Emitter) emitOperations(f *jen.File, rootType, run string, used map[string]bool) error {
	class := e.model.Class(rootType)
	if class == nil {
		return fmt.Errorf("schema has no %s type", rootType)
	}
	for _, p := range class.Properties {
		if used[p.Name] {
			return fmt.Errorf("operation %s is defined on both roots; rename one of the fields", p.Name)
		}
		used[p.Name] = true
		e.emitOperation(f, rootType, run, p)
	}
	return nil
}

func (e *Emitter) emitOperation(f *jen.File, rootType, run string, p *typemodel.FieldDefinition) {
	params := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
	var callArgs []jen.Code
	var args jen.Code = jen.Nil()
	if len(p.Arguments) > 0 {
		dict := jen.Dict{}
		for _, a := range p.Arguments {
			pn := paramName(a.Name, "c")
			params = append(params, jen.Id(pn).Add(e.goType(a.Type)))
			callArgs = append(callArgs, jen.Id(pn))
			dict[jen.Lit(a.Name)] = jen.Id(pn)
		}
		args = jen.Qual(runtimePkg, "Args").Values(dict)
	}
	if typemodel.RequireSelector(p.Type) {
		elem := typemodel.NamedType(p.Type)
		params = append(params, jen.Id("selector").Func().Params(jen.Id(elem)).Any())
		callArgs = append(callArgs, jen.Id("selector"))
	}
	result := jen.Id("root").Dot(p.Name)
	if methodBacked(p) {
		result = result.Call(callArgs...)
	}
	f.Func().Params(jen.Id("c").Op("*").Id(e.opts.Client)).Id(p.Name).
		Params(params...).
		Params(jen.Op("*").Qual(runtimePkg, "Result"), jen.Error()).
		Block(
			jen.Return(jen.Id("c").Dot(run).Call(
				jen.Id("ctx"),
				jen.Qual(runtimePkg, "CallSite").Call(jen.Lit(1)),
				args,
				jen.Func().Params(jen.Id("root").Id(rootType)).Any().
					Block(jen.Return(result)),
			)),
		)
}
