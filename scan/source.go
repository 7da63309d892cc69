package scan

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
)

const runtimePkg = "github.com/seleq-dev/seleq/runtime"

// Source renders the registration file for a scan: the compiled documents
// keyed by call site and a function loading them into a client store. The
// file belongs to the scanned package so keys stay next to the calls that
// produced them.
func Source(res *Result) ([]byte, error) {
	f := jen.NewFile(res.Package)
	f.HeaderComment("Code generated by seleq. DO NOT EDIT.")

	dict := jen.Dict{}
	for _, site := range res.Sites {
		dict[jen.Lit(site.Key)] = jen.Lit(site.Document)
	}
	f.Comment("queryDocuments binds each call site key to its compiled document.")
	f.Var().Id("queryDocuments").Op("=").Map(jen.String()).String().Values(dict)

	f.Comment("RegisterQueries loads every compiled document into the client store.")
	f.Func().Id("RegisterQueries").
		Params(jen.Id("client").Op("*").Qual(runtimePkg, "Client")).
		Block(
			jen.For(jen.List(jen.Id("key"), jen.Id("document")).Op(":=").Range().Id("queryDocuments")).Block(
				jen.Id("client").Dot("Register").Call(jen.Id("key"), jen.Id("document")),
			),
		)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render queries source: %w", err)
	}
	return buf.Bytes(), nil
}
