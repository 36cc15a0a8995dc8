package generator

import (
	"testing"

	"martianoff/effectful/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceGenerator_Generate(t *testing.T) {
	g := NewSourceGenerator()

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{
			name:     "Single expression",
			source:   `1 + 2`,
			expected: "(1 + 2)\n",
		},
		{
			name: "Statements and result",
			source: `val a = Some(1)
a.map(x => x + 1)`,
			expected: "val a = Some(1)\na.map((x) => (x + 1))\n",
		},
		{
			name:     "Trailing val omits unit",
			source:   `val a = 1`,
			expected: "val a = 1\n",
		},
		{
			name:     "Empty program",
			source:   ``,
			expected: "()\n",
		},
		{
			name: "Nested block",
			source: `val b = {
  val x = 1
  x
}`,
			expected: "val b = {\n  val x = 1\n  x\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := parser.New().Parse(tt.source)
			require.NoError(t, err)
			got, err := g.Generate(tree)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)

			// the output parses back to the same program
			again, err := parser.New().Parse(got)
			require.NoError(t, err)
			out, err := g.Generate(again)
			require.NoError(t, err)
			assert.Equal(t, got, out)
		})
	}
}

func TestSourceGenerator_Nil(t *testing.T) {
	_, err := NewSourceGenerator().Generate(nil)
	assert.Error(t, err)
}
