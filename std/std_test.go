package std

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionImplementation(t *testing.T) {
	t.Run("Some", func(t *testing.T) {
		o := Some(10)
		assert.True(t, o.IsDefined())
		assert.False(t, o.IsEmpty())
		assert.Equal(t, 10, o.Get())
		assert.Equal(t, 10, o.GetOrElse(func() int { panic("evaluated") }))
		assert.Equal(t, "Some(10)", o.String())
	})

	t.Run("None", func(t *testing.T) {
		o := None[int]()
		assert.True(t, o.IsEmpty())
		assert.Panics(t, func() { o.Get() })
		assert.Equal(t, 20, o.GetOrElse(func() int { return 20 }))
		assert.Equal(t, "None", o.String())
	})

	t.Run("Map and FlatMap", func(t *testing.T) {
		m := OptionMap(Some(10), func(v int) string { return "val" })
		assert.Equal(t, Some("val"), m)
		assert.True(t, OptionMap(None[int](), func(v int) int { return v }).IsEmpty())
		assert.True(t, OptionFlatMap(Some(1), func(int) Option[int] { return None[int]() }).IsEmpty())
		assert.Equal(t, Some(2), OptionFlatten(Some(Some(2))))
	})

	t.Run("Filter", func(t *testing.T) {
		assert.True(t, Some(10).Filter(func(v int) bool { return v > 5 }).IsDefined())
		assert.True(t, Some(10).Filter(func(v int) bool { return v > 15 }).IsEmpty())
	})
}

func TestEither(t *testing.T) {
	r := Right[string](1)
	l := Left[string, int]("boom")
	assert.Equal(t, "Right(1)", r.String())
	assert.Equal(t, `Left("boom")`, l.String())
	assert.Equal(t, Right[string](2), EitherMap(r, func(v int) int { return v + 1 }))
	assert.Equal(t, l, EitherMap(l, func(v int) int { return v + 1 }))
	assert.True(t, l.IsLeft())
	assert.Equal(t, 7, l.GetOrElse(func() int { return 7 }))
}

func TestList(t *testing.T) {
	l := ListOf(1, 2, 3)
	assert.Equal(t, 3, l.Size())
	assert.Equal(t, 1, l.Head())
	assert.Equal(t, "List(1, 2, 3)", l.String())
	assert.Equal(t, ListOf(2, 4, 6), ListMap(l, func(v int) int { return v * 2 }))
	assert.Equal(t, ListOf(1, 1, 2, 2, 3, 3), ListFlatMap(l, func(v int) List[int] { return ListOf(v, v) }))
	assert.Equal(t, ListOf(2), l.Filter(func(v int) bool { return v%2 == 0 }))
	assert.True(t, l.Contains(3))
	assert.Panics(t, func() { Nil[int]().Head() })

	nel := NonEmptyListOf(1, 2)
	assert.Equal(t, "NonEmptyList(1, 2)", nel.String())
	assert.Equal(t, 2, nel.Size())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal[any](Some[any](1), Some[any](1)))
	assert.False(t, Equal[any](Some[any](1), None[any]()))
	assert.False(t, Equal[any](Some[any](1), ListOf[any](1)))
	assert.True(t, Equal[any](ListOf[any](1, "a"), ListOf[any](1, "a")))
	assert.True(t, Equal[any](NonEmptyListOf[any](1), NonEmptyListOf[any](1)))
	assert.True(t, Equal(3, 3))
}

func TestMonadInstances(t *testing.T) {
	inc := func(v any) any { return v.(int) + 1 }

	tests := []struct {
		name     string
		monad    Monad
		input    any
		f        func(any) any
		expected any
	}{
		{
			name:     "Option bind",
			monad:    OptionMonad,
			input:    Some[any](1),
			f:        func(v any) any { return Some[any](inc(v)) },
			expected: Some[any](2),
		},
		{
			name:     "Option bind on None",
			monad:    OptionMonad,
			input:    None[any](),
			f:        func(v any) any { panic("evaluated") },
			expected: None[any](),
		},
		{
			name:     "List bind",
			monad:    ListMonad,
			input:    ListOf[any](1, 2),
			f:        func(v any) any { return ListOf[any](v, inc(v)) },
			expected: ListOf[any](1, 2, 2, 3),
		},
		{
			name:     "Either bind on Left",
			monad:    EitherMonad,
			input:    Left[any, any]("no"),
			f:        func(v any) any { panic("evaluated") },
			expected: Left[any, any]("no"),
		},
		{
			name:     "Either bind on Right",
			monad:    EitherMonad,
			input:    Right[any, any](1),
			f:        func(v any) any { return Right[any](inc(v)) },
			expected: Right[any, any](2),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.monad.Bind(tt.input, tt.f))
		})
	}

	assert.Equal(t, Some[any](2), MapM(OptionMonad, Some[any](1), inc))
	assert.Equal(t, ListOf[any](5), ListMonad.Pure(5))
}

func TestTraverse(t *testing.T) {
	double := func(v any) any { return Some[any](v.(int) * 2) }

	t.Run("collects in order", func(t *testing.T) {
		tr := Over(ListTraverse, OptionMonad)
		assert.Equal(t, Some[any](ListOf[any](2, 4, 6)), tr.Traverse(ListOf[any](1, 2, 3), double))
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		var seen []int
		f := func(v any) any {
			seen = append(seen, v.(int))
			if v.(int) == 2 {
				return None[any]()
			}
			return Some[any](v)
		}
		tr := Over(ListTraverse, OptionMonad)
		assert.Equal(t, None[any](), tr.Traverse(ListOf[any](1, 2, 3), f))
		assert.Equal(t, []int{1, 2}, seen)
	})

	t.Run("keeps NonEmptyList", func(t *testing.T) {
		tr := Over(ListTraverse, OptionMonad)
		assert.Equal(t, Some[any](NonEmptyListOf[any](2, 4)), tr.Traverse(NonEmptyListOf[any](1, 2), double))
	})

	t.Run("Option container", func(t *testing.T) {
		tr := Over(OptionTraverse, OptionMonad)
		assert.Equal(t, Some[any](Some[any](6)), tr.Traverse(Some[any](3), double))
		assert.Equal(t, Some[any](None[any]()), tr.Traverse(None[any](), double))
	})

	t.Run("FilterM", func(t *testing.T) {
		tr := Over(ListTraverse, OptionMonad)
		even := func(v any) any { return Some[any](v.(int)%2 == 0) }
		assert.Equal(t, Some[any](ListOf[any](2, 4)), tr.FilterM(ListOf[any](1, 2, 3, 4), even))
	})
}

func TestUnwrapOutsideBlock(t *testing.T) {
	assert.PanicsWithValue(t, ErrUnwrapOutsideBlock, func() { Unwrap[int](Some(1)) })
	assert.PanicsWithValue(t, ErrUnwrapOutsideBlock, func() { Ops[int](Some(1)).Bang() })
}

func TestUnapply(t *testing.T) {
	fields, ok := Unapply(Some[any](3), "Some")
	require.True(t, ok)
	assert.Equal(t, []any{3}, fields)

	_, ok = Unapply(Some[any](3), "None")
	assert.False(t, ok)

	fields, ok = Unapply(Left[any, any]("e"), "Left")
	require.True(t, ok)
	assert.Equal(t, []any{"e"}, fields)

	_, ok = Unapply(ListOf[any](), "Nil")
	assert.True(t, ok)
}
