// Package runtime is the execution support generated clients are built on.
// It resolves compiled documents from a query store, posts them to a GraphQL
// endpoint, and decodes the response envelope.
package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"

	"github.com/seleq-dev/seleq/querystore"
)

// Args carries the variable values for one execution.
type Args map[string]any

// Result pairs the selected data with the exact document that produced it.
type Result struct {
	Data  any
	Query string
}

// request is the GraphQL HTTP request body.
type request struct {
	Query     string `json:"query"`
	Variables Args   `json:"variables,omitempty"`
}

// Client executes compiled documents against a GraphQL endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	header   http.Header
	queries  *querystore.Store
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithHeader adds a header to every outgoing request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// WithStore replaces the query store the client resolves documents from.
func WithStore(queries *querystore.Store) Option {
	return func(c *Client) {
		c.queries = queries
	}
}

// NewClient returns a client bound to the given endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     http.DefaultClient,
		header:   make(http.Header),
		queries:  querystore.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register binds a compiled document to a call site key.
func (c *Client) Register(key, document string) {
	c.queries.Put(key, document)
}

// Lookup returns the compiled document registered for a call site key.
func (c *Client) Lookup(key string) (string, error) {
	document, err := c.queries.Get(key)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, key)
	}
	return document, nil
}

// Execute posts the document with its variable values and returns the raw
// data payload. Server reported errors are returned as a gqlerror list.
func (c *Client) Execute(ctx context.Context, document string, args Args) ([]byte, error) {
	body, err := json.Marshal(request{Query: document, Variables: args})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}
	var resp graphql.Response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return resp.Data, resp.Errors
	}
	return resp.Data, nil
}

// CallSite returns the key identifying the caller's source position: the
// last two path segments and the line number. Generated operation methods
// pass skip 1 so the key names their caller.
func CallSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	dir := filepath.Base(filepath.Dir(file))
	return fmt.Sprintf("%s/%s:%d", dir, filepath.Base(file), line)
}
