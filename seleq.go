// Package seleq generates typed GraphQL clients from a schema and compiles
// selector expressions into query documents ahead of execution.
package seleq

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/seleq-dev/seleq/compiler"
	"github.com/seleq-dev/seleq/config"
	"github.com/seleq-dev/seleq/gen"
	"github.com/seleq-dev/seleq/scan"
	"github.com/seleq-dev/seleq/schema"
	"github.com/seleq-dev/seleq/selector"
	"github.com/seleq-dev/seleq/typemodel"
)

// Load reads the schema file at path and resolves it into a type model.
func Load(path string) (*typemodel.Model, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := schema.Parse(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return typemodel.Build(s)
}

// Generate writes the typed client for the configured schema.
func Generate(cfg *config.Config) error {
	m, err := Load(cfg.Schema)
	if err != nil {
		return err
	}
	e := gen.New(m, gen.Options{
		Package: cfg.Output.Package,
		Client:  cfg.Client,
		Scalars: cfg.Scalars,
	})
	source, err := e.Source()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(cfg.Output.Path, source, 0o644)
}

// Check scans the configured package and compiles every operation call
// site without writing anything. Compilation problems are reported as
// diagnostics on the result.
func Check(cfg *config.Config) (*scan.Result, error) {
	if cfg.Queries.Dir == "" {
		return nil, fmt.Errorf("no queries package configured; set queries.dir in %s", config.DefaultFile)
	}
	m, err := Load(cfg.Schema)
	if err != nil {
		return nil, err
	}
	return scan.Dir(cfg.Queries.Dir, m)
}

// Queries scans the configured package for operation call sites and writes
// the registration file binding each call site key to its compiled
// document. The scan result is returned even when diagnostics withheld the
// file so callers can report them.
func Queries(cfg *config.Config) (*scan.Result, error) {
	res, err := Check(cfg)
	if err != nil || res.Failed() {
		return res, err
	}
	source, err := scan.Source(res)
	if err != nil {
		return res, err
	}
	if err := os.WriteFile(cfg.Queries.Output, source, 0o644); err != nil {
		return res, err
	}
	return res, nil
}

// Compile compiles one selector expression, given as a Go func literal,
// against the model. Compilation problems are reported as diagnostics on
// the returned value, not as an error.
func Compile(m *typemodel.Model, source string, opts compiler.Options) (*compiler.Compilation, error) {
	root, err := selector.Parse(source)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(m, root, opts), nil
}
