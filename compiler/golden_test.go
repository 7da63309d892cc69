package compiler

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// TestDocumentsGolden renders every table case into one snapshot so document
// shape changes show up as a reviewable diff. Regenerate with go test -update.
func TestDocumentsGolden(t *testing.T) {
	model := newTestModel(t)
	var b strings.Builder
	for _, tc := range documentCases {
		out := compileSource(t, model, tc.source, Options{Mutation: tc.mutation})
		require.NoError(t, out.Err())
		b.WriteString(tc.name)
		b.WriteString(":\n")
		b.WriteString(out.Document)
		b.WriteString("\n\n")
	}
	g := goldie.New(t)
	g.Assert(t, "documents", []byte(b.String()))
}
