package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intLit(v string) *Literal { return &Literal{Kind: IntLit, Value: v} }

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{
			name:     "binary operator",
			node:     NewCall(Pos{}, NewIdent(Pos{}, "+"), intLit("1"), intLit("2")),
			expected: "(1 + 2)",
		},
		{
			name:     "unary operator",
			node:     NewCall(Pos{}, NewIdent(Pos{}, "unary_-"), NewIdent(Pos{}, "x")),
			expected: "(-x)",
		},
		{
			name:     "method call on lambda receiver",
			node:     NewMethodCall(Pos{}, NewLambda(Pos{}, NewIdent(Pos{}, "x"), "x"), "apply", intLit("1")),
			expected: "((x) => x).apply(1)",
		},
		{
			name: "postfix marker",
			node: &Select{
				Recv: &Call{Fun: NewIdent(Pos{}, "unwrapOps"), Args: []Node{NewIdent(Pos{}, "m")}, Synthetic: SynthCoercion},
				Name: PostfixMarker,
			},
			expected: "m!",
		},
		{
			name: "block with val",
			node: &Block{
				Stmts:  []Node{&ValDef{Name: "x", Type: NamedType{Name: "Int"}, Init: intLit("1")}},
				Result: NewIdent(Pos{}, "x"),
			},
			expected: "{\n  val x: Int = 1\n  x\n}",
		},
		{
			name: "match with guard",
			node: &Match{
				Scrutinee: NewIdent(Pos{}, "o"),
				Cases: []*Case{
					{
						Pattern: &ConstructorPattern{Name: "Some", Args: []Pattern{&BindPattern{Name: "v"}}},
						Guard:   NewCall(Pos{}, NewIdent(Pos{}, ">"), NewIdent(Pos{}, "v"), intLit("0")),
						Body:    NewIdent(Pos{}, "v"),
					},
					{Pattern: &WildcardPattern{}, Body: intLit("0")},
				},
			},
			expected: "o match {\n  case Some(v) if (v > 0) => v\n  case _ => 0\n}",
		},
		{
			name:     "string literal and ascription",
			node:     &Ascribe{Inner: &Literal{Kind: StringLit, Value: "a\"b"}, Type: NamedType{Name: "String"}},
			expected: `("a\"b": String)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.node))
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &If{
		Cond: NewIdent(Pos{Line: 1, Column: 4}, "c"),
		Then: NewCall(Pos{}, NewIdent(Pos{}, "f"), intLit("1")),
		Else: &Block{Result: intLit("2")},
	}
	c := Clone(orig).(*If)
	require.True(t, SameShape(orig, c))
	assert.Equal(t, Fingerprint(orig), Fingerprint(c))

	c.Then.(*Call).Args[0] = intLit("9")
	assert.Equal(t, "1", orig.Then.(*Call).Args[0].(*Literal).Value)
	assert.NotEqual(t, Fingerprint(orig), Fingerprint(c))
	assert.Equal(t, Pos{Line: 1, Column: 4}, c.Cond.Pos())
}

func TestIdentsCollectsBinders(t *testing.T) {
	tree := &Block{
		Stmts: []Node{&ValDef{Name: "a", Init: intLit("1")}},
		Result: &Match{
			Scrutinee: NewIdent(Pos{}, "o"),
			Cases: []*Case{{
				Pattern: &ConstructorPattern{Name: "Some", Args: []Pattern{&BindPattern{Name: "v"}}},
				Body:    NewLambda(Pos{}, NewIdent(Pos{}, "v"), "p"),
			}},
		},
	}
	names := Idents(tree)
	for _, n := range []string{"a", "o", "v", "p"} {
		assert.True(t, names[n], n)
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]string{
		"Int":                   "Int",
		"Option[Int]":           "Option[Int]",
		"Either[String, _]":     "Either[String, _]",
		"(Int, String) => Bool": "(Int, String) => Bool",
		"=> Boolean":            "=> Boolean",
		"List[Option[Int]]":     "List[Option[Int]]",
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseType(in).String(), in)
	}
	assert.Nil(t, ParseType("  "))
}

func TestReplace(t *testing.T) {
	target := NewCall(Pos{}, NewIdent(Pos{}, "effectfully"), NewIdent(Pos{}, "a"))
	root := &Block{
		Stmts:  []Node{&ValDef{Name: "b", Init: target}},
		Result: NewIdent(Pos{}, "b"),
	}
	out := Replace(root, map[Node]Node{target: intLit("1")})
	assert.Equal(t, "{\n  val b = 1\n  b\n}", Format(out))

	whole := Replace(root, map[Node]Node{root: intLit("2")})
	assert.Equal(t, "2", Format(whole))
}
