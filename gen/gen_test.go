package gen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seleq-dev/seleq/schema"
	"github.com/seleq-dev/seleq/typemodel"
)

const testSchema = `
scalar DateTime

type Query {
	me: User!
	user(id: Int!): User
	users(filter: UserFilterInput): [User!]
	version: String!
}

type Mutation {
	createUser(input: CreateUserInput!): User!
}

type User {
	id: ID!
	firstName: String!
	age: Int
	role: Role!
	createdAt: DateTime!
	avatar(size: Int!): String!
	friends(limit: Int): [User!]
	profile: Profile
}

type Profile {
	bio: String
}

enum Role {
	ADMIN
	SUPER_ADMIN
	USER
}

input UserFilterInput {
	name: String
	minAge: Int
}

input CreateUserInput {
	firstName: String!
	role: Role
}
`

func newTestModel(t *testing.T, source string) *typemodel.Model {
	t.Helper()
	s, err := schema.Parse(source)
	require.NoError(t, err)
	m, err := typemodel.Build(s)
	require.NoError(t, err)
	return m
}

func emit(t *testing.T, opts Options) string {
	t.Helper()
	src, err := New(newTestModel(t, testSchema), opts).Source()
	require.NoError(t, err)
	return string(src)
}

func TestSourceParses(t *testing.T) {
	src := emit(t, Options{Package: "api"})
	require.True(t, strings.HasPrefix(src, "// Code generated by seleq. DO NOT EDIT."))

	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "client.gen.go", src, parser.AllErrors)
	require.NoError(t, err)
}

func TestSourceDeterminism(t *testing.T) {
	first := emit(t, Options{Package: "api"})
	for i := 0; i < 3; i++ {
		require.Equal(t, first, emit(t, Options{Package: "api"}))
	}
}

func TestSourceEnums(t *testing.T) {
	src := emit(t, Options{})
	require.Contains(t, src, "type Role string")
	require.Contains(t, src, `RoleAdmin      Role = "ADMIN"`)
	require.Contains(t, src, `RoleSuperAdmin Role = "SUPER_ADMIN"`)
	require.Contains(t, src, `RoleUser       Role = "USER"`)
}

func TestSourceInputs(t *testing.T) {
	src := emit(t, Options{})
	require.Contains(t, src, "type UserFilterInput struct")
	require.Contains(t, src, `json:"minAge,omitempty"`)
	require.Contains(t, src, `json:"firstName"`)
}

func TestSourceObjects(t *testing.T) {
	src := emit(t, Options{})
	require.Contains(t, src, "type User struct")
	require.Contains(t, src, "func (u *User) UnmarshalJSON(data []byte) error")
	require.Contains(t, src, "func (u User) Profile(selector func(Profile) any) any")
	require.Contains(t, src, "func (u User) Friends(limit *int, selector func(User) any) []any")
	require.Contains(t, src, "func (u User) Avatar(size int) string")
	require.Contains(t, src, "if u.profile == nil")

	// Plain objects unmarshal natively.
	require.NotContains(t, src, "func (p *Profile) UnmarshalJSON")
}

func TestSourceClient(t *testing.T) {
	src := emit(t, Options{})
	require.Contains(t, src, "type Client struct")
	require.Contains(t, src, "func NewClient(client *runtime.Client) *Client")
	require.Contains(t, src, "func (c *Client) runQuery(ctx context.Context, key string, args runtime.Args, apply func(Query) any) (*runtime.Result, error)")
	require.Contains(t, src, "func (c *Client) runMutation(ctx context.Context, key string, args runtime.Args, apply func(Mutation) any) (*runtime.Result, error)")
	require.Contains(t, src, "func (c *Client) Me(ctx context.Context, selector func(User) any) (*runtime.Result, error)")
	require.Contains(t, src, "func (c *Client) User(ctx context.Context, id int, selector func(User) any) (*runtime.Result, error)")
	require.Contains(t, src, "func (c *Client) Version(ctx context.Context) (*runtime.Result, error)")
	require.Contains(t, src, "func (c *Client) CreateUser(ctx context.Context, input CreateUserInput, selector func(User) any) (*runtime.Result, error)")
	require.Contains(t, src, "runtime.CallSite(1)")
}

func TestSourceScalarMap(t *testing.T) {
	plain := emit(t, Options{})
	require.NotContains(t, plain, "time.Time")

	mapped := emit(t, Options{Scalars: map[string]string{"DateTime": "time.Time"}})
	require.Contains(t, mapped, "time.Time")
}

func TestClientNameCollision(t *testing.T) {
	_, err := New(newTestModel(t, testSchema), Options{Client: "User"}).Source()
	require.Error(t, err)
	require.Contains(t, err.Error(), "collides with a schema type")
}

func TestRootFieldCollision(t *testing.T) {
	m := newTestModel(t, `
type Query {
	ping: String!
}

type Mutation {
	ping: String!
}
`)
	_, err := New(m, Options{}).Source()
	require.Error(t, err)
	require.Contains(t, err.Error(), "defined on both roots")
}
