// Package selector parses caller authored selector expressions, written as Go
// func literals against a generated client type, into a small closed tree
// that the query compiler validates and serializes.
package selector

import (
	"fmt"
	"go/token"
)

// Node is the closed set of selector expression shapes. Anything outside the
// set is represented as Unsupported and reported by the compiler rather than
// dropped.
type Node interface {
	node()
}

// Lambda is a selector function literal. The last parameter is bound to the
// selected type; a leading parameter, when present, is bound to the document
// variables value.
type Lambda struct {
	Params []string
	Body   Node
	Pos    token.Position
}

// Ident is a bare identifier reference.
type Ident struct {
	Name string
	Pos  token.Position
}

// Member is a member access such as u.FirstName.
type Member struct {
	X    Node
	Name string
	Pos  token.Position
}

// Call is a selector method invocation such as q.User(10, func(u User) any {...}).
// The projector holds the trailing func literal argument when present.
type Call struct {
	X         Node
	Name      string
	Args      []Node
	Projector *Lambda
	Pos       token.Position
}

// Record is a composite literal with fields, selecting several members at
// once in body position or describing an input object value in argument
// position.
type Record struct {
	TypeName string
	Fields   []RecordField
	Pos      token.Position
}

// RecordField is one entry of a Record. Name is empty for positional entries.
type RecordField struct {
	Name  string
	Value Node
}

// ListLit is a slice literal, selecting several members at once in body
// position or describing a list value in argument position.
type ListLit struct {
	Elems []Node
	Pos   token.Position
}

// LitKind discriminates literal values.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
)

// Lit is a literal value. Text holds the Go source token, except for null
// which is normalized.
type Lit struct {
	Kind LitKind
	Text string
	Pos  token.Position
}

// Guard wraps an expression that changes the Go type but not the selection,
// such as a pointer dereference, an address operation, or a type assertion.
type Guard struct {
	X   Node
	Pos token.Position
}

// Unsupported marks an expression shape outside the closed set.
type Unsupported struct {
	Reason string
	Pos    token.Position
}

func (*Lambda) node()     {}
func (Ident) node()       {}
func (Member) node()      {}
func (Call) node()        {}
func (Record) node()      {}
func (ListLit) node()     {}
func (Lit) node()         {}
func (Guard) node()       {}
func (Unsupported) node() {}

// Pos returns the source position of n.
func Pos(n Node) token.Position {
	switch v := n.(type) {
	case *Lambda:
		return v.Pos
	case Ident:
		return v.Pos
	case Member:
		return v.Pos
	case Call:
		return v.Pos
	case Record:
		return v.Pos
	case ListLit:
		return v.Pos
	case Lit:
		return v.Pos
	case Guard:
		return v.Pos
	case Unsupported:
		return v.Pos
	default:
		panic(fmt.Sprintf("unsupported node %T", n))
	}
}

// QueryParam returns the name of the parameter bound to the selected type,
// the last parameter in the two parameter variables form.
func (l *Lambda) QueryParam() string {
	if len(l.Params) == 0 {
		return ""
	}
	return l.Params[len(l.Params)-1]
}

// VarsParam returns the name of the document variables parameter when the
// lambda uses the two parameter form.
func (l *Lambda) VarsParam() (string, bool) {
	if len(l.Params) == 2 {
		return l.Params[0], true
	}
	return "", false
}
