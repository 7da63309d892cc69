package test

import (
	"embed"
	"io/fs"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/seleq-dev/seleq/compiler"
)

//go:embed cases
var casesFS embed.FS

type TestCase struct {
	// Description is a simple description for the test case.
	Description string
	// Schema is the GraphQL schema the selectors compile against.
	Schema string
	// Selectors is a list of all selector compilations to run in this test case.
	Selectors []Selector
}

type Selector struct {
	// Source is the selector func literal.
	Source string
	// Mutation compiles against the mutation root.
	Mutation bool
	// Document is the expected compiled document.
	Document string
	// Variables are the expected promoted variable declarations.
	Variables []compiler.Variable
	// Diagnostics are the expected diagnostic codes.
	Diagnostics []string
}

// TestCasePaths returns a list of all test case file paths.
func TestCasePaths() (paths []string, _ error) {
	return paths, fs.WalkDir(casesFS, "cases", func(path string, d fs.DirEntry, err error) error {
		if filepath.Ext(path) == ".yaml" {
			paths = append(paths, path)
		}
		return err
	})
}

// LoadTestCase loads and parses a test case file.
func LoadTestCase(path string) (*TestCase, error) {
	data, err := fs.ReadFile(casesFS, path)
	if err != nil {
		return nil, err
	}
	var testCase TestCase
	if err := yaml.Unmarshal(data, &testCase); err != nil {
		return nil, err
	}
	return &testCase, nil
}
