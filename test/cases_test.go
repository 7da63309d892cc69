package test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seleq-dev/seleq/compiler"
	"github.com/seleq-dev/seleq/schema"
	"github.com/seleq-dev/seleq/selector"
	"github.com/seleq-dev/seleq/typemodel"
)

func (tc *TestCase) Run(t *testing.T) {
	t.Parallel()

	s, err := schema.Parse(tc.Schema)
	require.NoError(t, err, "failed to parse schema")
	m, err := typemodel.Build(s)
	require.NoError(t, err, "failed to build model")

	for _, sel := range tc.Selectors {
		root, err := selector.Parse(sel.Source)
		require.NoError(t, err, "failed to parse selector: %s", sel.Source)

		comp := compiler.Compile(m, root, compiler.Options{Mutation: sel.Mutation})

		codes := make([]string, 0, len(comp.Diagnostics))
		for _, d := range comp.Diagnostics {
			codes = append(codes, d.Code)
		}
		if len(sel.Diagnostics) > 0 {
			assert.Equal(t, sel.Diagnostics, codes, "selector: %s", sel.Source)
			assert.Empty(t, comp.Document, "selector: %s", sel.Source)
			continue
		}
		require.Empty(t, comp.Diagnostics, "selector: %s", sel.Source)
		assert.Equal(t, sel.Document, comp.Document, "selector: %s", sel.Source)
		if len(sel.Variables) > 0 {
			assert.Equal(t, sel.Variables, comp.Variables, "selector: %s", sel.Source)
		}
	}
}

func TestCases(t *testing.T) {
	paths, err := TestCasePaths()
	require.NoError(t, err, "failed to walk test cases dir")

	for _, path := range paths {
		testCase, err := LoadTestCase(path)
		require.NoError(t, err, "failed to parse test case file: %s", path)

		t.Logf("Running test cases: %s", path)
		t.Run(testCase.Description, testCase.Run)
	}
}
