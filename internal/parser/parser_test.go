package parser

import (
	"testing"

	"martianoff/effectful/efferr"
	"martianoff/effectful/internal/transpiler/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser(t *testing.T) {
	p := New()

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "Operator precedence",
			input:    `1 + 2 * 3`,
			expected: "(1 + (2 * 3))",
		},
		{
			name:     "Unwrap call",
			input:    `unwrap(Some(1)) + unwrap(Some(2))`,
			expected: "(unwrap(Some(1)) + unwrap(Some(2)))",
		},
		{
			name:     "Postfix marker",
			input:    `fetch(1)! + 1`,
			expected: "(fetch(1)! + 1)",
		},
		{
			name:     "Trailing block call",
			input:    `effectfully { unwrap(a) }`,
			expected: "effectfully({\n  unwrap(a)\n})",
		},
		{
			name:     "Lambda forms",
			input:    `xs.map(x => x + 1).filter((y: Int) => y > 2)`,
			expected: "xs.map((x) => (x + 1)).filter((y: Int) => (y > 2))",
		},
		{
			name:     "If with newline before else",
			input:    "if (c) 1\nelse 2",
			expected: "if (c) 1 else 2",
		},
		{
			name:     "If without else",
			input:    `if (c) f(1)`,
			expected: "if (c) f(1) else ()",
		},
		{
			name: "Match with guard",
			input: `o match {
  case Some(v) if v > 0 => v
  case None => 0
  case _ => -1
}`,
			expected: "o match {\n  case Some(v) if (v > 0) => v\n  case None => 0\n  case _ => (-1)\n}",
		},
		{
			name:     "Ascription and annotation",
			input:    `@inline (x: Int)`,
			expected: "@inline (x: Int)",
		},
		{
			name:     "Type application",
			input:    `none[Int]()`,
			expected: "none[Int]()",
		},
		{
			name:     "List literal",
			input:    `[1, 2, 3]`,
			expected: "List(1, 2, 3)",
		},
		{
			name:     "For yield",
			input:    `for (x <- xs) yield x * 2`,
			expected: "xs.map((x) => (x * 2))",
		},
		{
			name:     "For with filter and two generators",
			input:    `for (x <- xs if x > 1; y <- ys) yield x + y`,
			expected: "xs.withFilter((x) => (x > 1)).flatMap((x) => ys.map((y) => (x + y)))",
		},
		{
			name:     "For without yield",
			input:    `for (x <- xs) println(x)`,
			expected: "xs.foreach((x) => println(x))",
		},
		{
			name:     "Method chain across lines",
			input:    "xs\n  .map(x => x)\n  .size",
			expected: "xs.map((x) => x).size",
		},
		{
			name:    "Missing paren",
			input:   `f(1`,
			wantErr: true,
		},
		{
			name:    "Bad character",
			input:   `a # b`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := p.ParseExpr(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, efferr.HasType(err, efferr.TypeSyntax))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, syntax.Format(node))
		})
	}
}

func TestParseProgram(t *testing.T) {
	input := `val a = Some(1)
val b: Option[Int] = effectfully {
  val x = unwrap(a)
  x + 1
}
b`
	prog, err := New().Parse(input)
	require.NoError(t, err)
	block := prog.(*syntax.Block)
	require.Len(t, block.Stmts, 2)

	b := block.Stmts[1].(*syntax.ValDef)
	assert.Equal(t, "b", b.Name)
	assert.Equal(t, "Option[Int]", b.Type.String())
	call := b.Init.(*syntax.Call)
	assert.Equal(t, syntax.Pos{Line: 2, Column: 22}, call.Pos())
	inner := call.Args[0].(*syntax.Block)
	assert.Len(t, inner.Stmts, 1)
	assert.Equal(t, "(x + 1)", syntax.Format(inner.Result))
}

func TestPostfixMarkerShape(t *testing.T) {
	node, err := New().ParseExpr(`m!`)
	require.NoError(t, err)
	sel := node.(*syntax.Select)
	assert.Equal(t, syntax.PostfixMarker, sel.Name)
	conv := sel.Recv.(*syntax.Call)
	assert.Equal(t, syntax.SynthCoercion, conv.Synthetic)
	assert.Equal(t, DefaultAdapter, conv.Fun.(*syntax.Ident).Name)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		`effectfully { if (unwrap(c)) unwrap(a) else 0 }`,
		`{ val eff$1 = OptionMonad; eff$1.bind(Some(1), (eff$2) => eff$1.pure((eff$2 + 1))) }`,
		`(o match { case Some(v) => v; case _ => 0 })`,
	}
	p := New()
	for _, in := range inputs {
		first, err := p.ParseExpr(in)
		require.NoError(t, err, in)
		second, err := p.ParseExpr(syntax.Format(first))
		require.NoError(t, err, syntax.Format(first))
		assert.True(t, syntax.SameShape(first, second), in)
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := New().Parse("val x = 1\nval = 2")
	require.Error(t, err)
	multi := err.(*efferr.MultiError)
	syn := multi.Errors[0].(*efferr.SyntaxError)
	assert.Equal(t, 2, syn.Line)
	assert.Equal(t, 5, syn.Column)
}
