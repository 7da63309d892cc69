package scan

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seleq-dev/seleq/compiler"
	"github.com/seleq-dev/seleq/schema"
	"github.com/seleq-dev/seleq/typemodel"
)

const testSchema = `
type Query {
	me: User!
	user(id: Int!): User
	version: String!
}

type Mutation {
	createUser(input: CreateUserInput!): User!
}

type User {
	id: ID!
	firstName: String!
}

input CreateUserInput {
	firstName: String!
	lastName: String!
}
`

func newTestModel(t *testing.T) *typemodel.Model {
	t.Helper()
	s, err := schema.Parse(testSchema)
	require.NoError(t, err)
	m, err := typemodel.Build(s)
	require.NoError(t, err)
	return m
}

// writeFixture writes source as app/main.go under a fresh temp root so call
// site keys always start with app/main.go.
func writeFixture(t *testing.T, source string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(source), 0o644))
	return dir
}

const fixture = `package app

import (
	"context"

	"example.test/app/api"
)

func load(ctx context.Context, client *api.Client, id int) {
	client.Me(ctx, func(u api.User) any { return u.FirstName })
	client.User(ctx, id, func(u api.User) any { return u.FirstName })
	client.Version(ctx)
	client.CreateUser(ctx, api.CreateUserInput{FirstName: "ada", LastName: "lovelace"}, func(u api.User) any { return u.Id })
}
`

func TestDirScansCallSites(t *testing.T) {
	dir := writeFixture(t, fixture)
	res, err := Dir(dir, newTestModel(t))
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)
	require.Equal(t, "app", res.Package)

	want := []struct {
		key       string
		operation string
		mutation  bool
		document  string
	}{
		{"app/main.go:10", "Me", false, "{ me { firstName } }"},
		{"app/main.go:11", "User", false, "query ($id: Int!) { user(id: $id) { firstName } }"},
		{"app/main.go:12", "Version", false, "{ version }"},
		{"app/main.go:13", "CreateUser", true, `mutation { createUser(input: {firstName: "ada", lastName: "lovelace"}) { id } }`},
	}
	require.Len(t, res.Sites, len(want))
	for i, w := range want {
		assert.Equal(t, w.key, res.Sites[i].Key)
		assert.Equal(t, w.operation, res.Sites[i].Operation)
		assert.Equal(t, w.mutation, res.Sites[i].Mutation)
		assert.Equal(t, w.document, res.Sites[i].Document)
	}
	require.Equal(t, []compiler.Variable{{Name: "id", Type: "Int!"}}, res.Sites[1].Variables)
}

func TestDirReportsDiagnostics(t *testing.T) {
	dir := writeFixture(t, `package app

import "context"

func load(ctx context.Context, client *api.Client) {
	client.Me(ctx, func(u api.User) any { return u })
}
`)
	res, err := Dir(dir, newTestModel(t))
	require.NoError(t, err)
	require.True(t, res.Failed())
	require.Empty(t, res.Sites)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, compiler.CodeOpenLambdaIsNotAllowed, res.Diagnostics[0].Code)
	assert.Equal(t, 6, res.Diagnostics[0].Pos.Line)
}

func TestDirDuplicateLineKeys(t *testing.T) {
	dir := writeFixture(t, `package app

import "context"

func load(ctx context.Context, client *api.Client) {
	client.Version(ctx); client.Version(ctx)
}
`)
	res, err := Dir(dir, newTestModel(t))
	require.NoError(t, err)
	require.True(t, res.Failed())
	require.Len(t, res.Sites, 1)
	require.Len(t, res.Diagnostics, 1)
	assert.Contains(t, res.Diagnostics[0].Message, "share the key app/main.go:6")
	assert.Contains(t, res.Diagnostics[0].Message, "put each operation call on its own line")
}

func TestDirSkipsUnmatchedShapes(t *testing.T) {
	dir := writeFixture(t, `package app

import "context"

func load(ctx context.Context, client *api.Client) {
	logger.Version()
	client.Me(ctx)
	client.User(ctx, 1)
}
`)
	res, err := Dir(dir, newTestModel(t))
	require.NoError(t, err)
	assert.Empty(t, res.Sites)
	assert.Empty(t, res.Diagnostics)
}

func TestDirSelectorNotLiteral(t *testing.T) {
	dir := writeFixture(t, `package app

import "context"

func load(ctx context.Context, client *api.Client, sel func(api.User) any) {
	client.Me(ctx, sel)
}
`)
	res, err := Dir(dir, newTestModel(t))
	require.NoError(t, err)
	require.True(t, res.Failed())
	require.Empty(t, res.Sites)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, compiler.CodeUnsupportedSelectorExpression, res.Diagnostics[0].Code)
	assert.Contains(t, res.Diagnostics[0].Message, "selector for Me must be an inline func literal")
	assert.Equal(t, 6, res.Diagnostics[0].Pos.Line)
}

func TestDirSkipsGeneratedFiles(t *testing.T) {
	dir := writeFixture(t, fixture)
	generated := `package app

func init() {
	client.Version(ctx)
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "queries.gen.go"), []byte(generated), 0o644))
	res, err := Dir(dir, newTestModel(t))
	require.NoError(t, err)
	require.Len(t, res.Sites, 4)
	for _, site := range res.Sites {
		assert.Contains(t, site.Key, "app/main.go:")
	}
}

func TestDirNoPackage(t *testing.T) {
	_, err := Dir(t.TempDir(), newTestModel(t))
	require.ErrorContains(t, err, "no Go package")
}

func TestSource(t *testing.T) {
	dir := writeFixture(t, fixture)
	res, err := Dir(dir, newTestModel(t))
	require.NoError(t, err)

	src, err := Source(res)
	require.NoError(t, err)
	require.True(t, len(src) > 0)

	text := string(src)
	assert.Contains(t, text, "// Code generated by seleq. DO NOT EDIT.")
	assert.Contains(t, text, "package app")
	assert.Contains(t, text, `"app/main.go:10": "{ me { firstName } }"`)
	assert.Contains(t, text, "func RegisterQueries(client *runtime.Client)")

	_, err = parser.ParseFile(token.NewFileSet(), "queries.gen.go", src, parser.AllErrors)
	require.NoError(t, err)
}

func TestSourceDeterminism(t *testing.T) {
	dir := writeFixture(t, fixture)
	res, err := Dir(dir, newTestModel(t))
	require.NoError(t, err)

	first, err := Source(res)
	require.NoError(t, err)
	second, err := Source(res)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))
}
