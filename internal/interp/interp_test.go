package interp

import (
	"bytes"
	"testing"

	"martianoff/effectful/internal/parser"
	"martianoff/effectful/std"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (any, string, error) {
	t.Helper()
	tree, err := parser.New().Parse(src)
	require.NoError(t, err)
	var out bytes.Buffer
	v, err := New(&out).Eval(tree)
	return v, out.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected any
	}{
		{
			name:     "arithmetic",
			source:   `1 + 2 * 3`,
			expected: 7,
		},
		{
			name: "vals and blocks",
			source: `val a = 2
val b = {
  val a = 10
  a + 1
}
a + b`,
			expected: 13,
		},
		{
			name:     "lambda application",
			source:   `((x, y) => x - y)(5, 3)`,
			expected: 2,
		},
		{
			name:     "if",
			source:   `if (1 < 2) "yes" else "no"`,
			expected: "yes",
		},
		{
			name:     "short circuit",
			source:   `false && unwrap(None)`,
			expected: false,
		},
		{
			name:     "option methods",
			source:   `Some(1).map(x => x + 1).flatMap(x => Some(x * 10))`,
			expected: std.Some[any](20),
		},
		{
			name:     "lazy getOrElse",
			source:   `Some(1).getOrElse(unwrap(None))`,
			expected: 1,
		},
		{
			name:     "list methods",
			source:   `List(1, 2, 3).filter(x => x != 2).map(x => x * 2)`,
			expected: std.ListOf[any](2, 6),
		},
		{
			name:     "for comprehension",
			source:   `for (x <- List(1, 2); y <- List(10, 20)) yield x + y`,
			expected: std.ListOf[any](11, 21, 12, 22),
		},
		{
			name: "match with guard",
			source: `Some(5) match {
  case Some(v) if v > 10 => "big"
  case Some(v) => "small"
  case None => "none"
}`,
			expected: "small",
		},
		{
			name:     "either",
			source:   `Right(1).flatMap(x => Left("boom")).map(x => x + 1)`,
			expected: std.Left[any, any]("boom"),
		},
		{
			name: "monad instance",
			source: `val m = OptionMonad
m.bind(Some(1), (a) => m.pure(a + 1))`,
			expected: std.Some[any](2),
		},
		{
			name: "traverse",
			source: `val t = ListTraverse.over(OptionMonad)
t.traverse(List(1, 2, 3), (x) => Some(x * 2))`,
			expected: std.Some[any](std.ListOf[any](2, 4, 6)),
		},
		{
			name:     "flatten property",
			source:   `List(List(1), List(2, 3)).flatten.size`,
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, err := run(t, tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestPrintln(t *testing.T) {
	_, out, err := run(t, `println("a")
println(Some(1))
println(concat("n=", 3))`)
	require.NoError(t, err)
	assert.Equal(t, "a\nSome(1)\nn=3\n", out)
}

func TestUnwrapOutsideBlock(t *testing.T) {
	for _, src := range []string{`unwrap(Some(1)) + 1`, `Some(1)! + 1`, `effectfully(unwrap(Some(1)))`} {
		_, _, err := run(t, src)
		require.Error(t, err, src)
		assert.True(t, IsUnwrapOutsideBlock(err), src)
		assert.Contains(t, err.Error(), "used outside of a rewrite block")
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := map[string]string{
		`undefinedName`:                    "undefined: undefinedName",
		`1 / 0`:                            "division by zero",
		`Some(1) match { case None => 0 }`: "match error",
		`1(2)`:                             "is not a function",
	}
	for src, msg := range tests {
		_, _, err := run(t, src)
		require.Error(t, err, src)
		var rt *RuntimeError
		assert.ErrorAs(t, err, &rt)
		assert.Contains(t, err.Error(), msg, src)
	}
}
