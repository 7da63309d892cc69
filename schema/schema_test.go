package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestParse(t *testing.T) {
	const source = `type Query {
		me: User
	}

	type User {
		firstName: String
		lastName: String
	}`

	s, err := Parse(source)
	require.NoError(t, err)
	require.NotNil(t, s.Query)

	user, ok := s.Types["User"]
	require.True(t, ok)

	assert.Equal(t, ast.Object, user.Kind)
	assert.Len(t, user.Fields, 2)
}

func TestParseSyntaxError(t *testing.T) {
	s, err := Parse(`type Query { me: `)
	require.Error(t, err)
	require.Nil(t, s)

	var schemaErr *Error
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Error(), "invalid schema")
}

func TestParseUnknownTypeReference(t *testing.T) {
	s, err := Parse(`type Query { me: Missing }`)
	require.Error(t, err)
	require.Nil(t, s)

	var schemaErr *Error
	require.True(t, errors.As(err, &schemaErr))
	require.NotNil(t, schemaErr.Unwrap())
}

func TestDefinitionsOrder(t *testing.T) {
	const source = `type Query {
		me: User
	}

	enum Role {
		ADMIN
		USER
	}

	type User {
		firstName: String
		role: Role
	}

	input UserFilterInput {
		name: String
	}`

	s, err := Parse(source)
	require.NoError(t, err)

	defs := Definitions(s)
	require.Len(t, defs, 4)

	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"Query", "Role", "User", "UserFilterInput"}, names)
}
