package seleq

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seleq-dev/seleq/compiler"
	"github.com/seleq-dev/seleq/config"
)

const testSchema = `
type Query {
	me: User!
	version: String!
}

type User {
	id: ID!
	firstName: String!
}
`

func writeSchema(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "schema.graphql")
	require.NoError(t, os.WriteFile(path, []byte(testSchema), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	m, err := Load(writeSchema(t, t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, "Query", m.QueryType)
	assert.NotNil(t, m.Class("User"))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.graphql"))
	require.Error(t, err)
}

func TestCompile(t *testing.T) {
	m, err := Load(writeSchema(t, t.TempDir()))
	require.NoError(t, err)

	comp, err := Compile(m, "func(q Query) any { return q.Me(func(u User) any { return u.FirstName }) }", compiler.Options{})
	require.NoError(t, err)
	require.False(t, comp.Failed())
	assert.Equal(t, "{ me { firstName } }", comp.Document)
}

func TestCompileParseError(t *testing.T) {
	m, err := Load(writeSchema(t, t.TempDir()))
	require.NoError(t, err)

	_, err = Compile(m, "q.Me", compiler.Options{})
	require.ErrorContains(t, err, "func literal")
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir)
	cfgPath := filepath.Join(dir, "seleq.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schema: schema.graphql\n"), 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, Generate(cfg))

	source, err := os.ReadFile(filepath.Join(dir, "api", "client.gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(source), "package api")

	_, err = parser.ParseFile(token.NewFileSet(), "client.gen.go", source, parser.AllErrors)
	require.NoError(t, err)
}

// writeQueriesProject lays out a schema, a config, and an app package with
// one call site under a fresh temp root.
func writeQueriesProject(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	writeSchema(t, dir)
	appDir := filepath.Join(dir, "app")
	require.NoError(t, os.Mkdir(appDir, 0o755))
	app := `package app

import (
	"context"

	"example.test/app/api"
)

func load(ctx context.Context, client *api.Client) {
	client.Me(ctx, func(u api.User) any { return u.FirstName })
}
`
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "main.go"), []byte(app), 0o644))
	cfgPath := filepath.Join(dir, "seleq.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schema: schema.graphql\nqueries:\n  dir: app\n"), 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	return cfg, appDir
}

func TestQueries(t *testing.T) {
	cfg, appDir := writeQueriesProject(t)
	res, err := Queries(cfg)
	require.NoError(t, err)
	require.False(t, res.Failed())
	require.Len(t, res.Sites, 1)

	source, err := os.ReadFile(filepath.Join(appDir, "queries.gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(source), "func RegisterQueries")
	assert.Contains(t, string(source), "{ me { firstName } }")
}

func TestCheck(t *testing.T) {
	cfg, appDir := writeQueriesProject(t)
	res, err := Check(cfg)
	require.NoError(t, err)
	require.False(t, res.Failed())
	require.Len(t, res.Sites, 1)

	_, err = os.Stat(filepath.Join(appDir, "queries.gen.go"))
	require.True(t, os.IsNotExist(err))
}

func TestQueriesNoDir(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir)
	cfgPath := filepath.Join(dir, "seleq.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schema: schema.graphql\n"), 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	_, err = Queries(cfg)
	require.ErrorContains(t, err, "no queries package")
}
