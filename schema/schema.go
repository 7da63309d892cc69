package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Error describes schema text that failed to parse or validate.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema: %s: %s", e.Message, e.Err)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns a new Error with a formatted message.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Parse parses and validates the given GraphQL schema text.
// No partial schema is returned on failure.
func Parse(source string) (*ast.Schema, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{
		Name:  "schema.graphql",
		Input: source,
	})
	if err != nil {
		return nil, &Error{Message: "invalid schema", Err: err}
	}
	return s, nil
}

// Definitions returns the user defined type definitions in declaration order.
// Built-in and introspection types are excluded.
func Definitions(s *ast.Schema) []*ast.Definition {
	defs := make([]*ast.Definition, 0, len(s.Types))
	for n, d := range s.Types {
		if d.BuiltIn || strings.HasPrefix(n, "__") {
			continue
		}
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Position.Start < defs[j].Position.Start
	})
	return defs
}
