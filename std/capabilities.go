package std

import "fmt"

// Monad sequences computations of one effect. Values are untyped: the
// rewrite only emits well-typed calls, so an instance may assert the
// concrete type of its arguments.
type Monad interface {
	Pure(v any) any
	Bind(m any, f func(any) any) any
}

// MapM maps f over the value inside m.
func MapM(monad Monad, m any, f func(any) any) any {
	return monad.Bind(m, func(a any) any { return monad.Pure(f(a)) })
}

// Traversable is a container whose elements can be visited in order and
// put back into a container of the same shape.
type Traversable interface {
	Elements(g any) []any
	Rebuild(g any, elems []any) any
}

// Traverse is a Traversable specialized to a Monad, as derived by Over.
type Traverse struct {
	G Traversable
	M Monad
}

// Over derives the Traverse of t for monad.
func Over(t Traversable, monad Monad) *Traverse {
	return &Traverse{G: t, M: monad}
}

// Traverse applies f to every element from left to right, sequencing the
// effects, and collects the results in a container shaped like g. The
// first failing effect stops the traversal.
func (t *Traverse) Traverse(g any, f func(any) any) any {
	acc := t.M.Pure([]any(nil))
	for _, e := range t.G.Elements(g) {
		acc = t.M.Bind(acc, func(done any) any {
			return t.M.Bind(f(e), func(y any) any {
				return t.M.Pure(appendCopy(done.([]any), y))
			})
		})
	}
	return t.M.Bind(acc, func(done any) any {
		return t.M.Pure(t.G.Rebuild(g, done.([]any)))
	})
}

// FilterM keeps the elements for which f yields true.
func (t *Traverse) FilterM(g any, f func(any) any) any {
	acc := t.M.Pure([]any(nil))
	for _, e := range t.G.Elements(g) {
		acc = t.M.Bind(acc, func(kept any) any {
			return t.M.Bind(f(e), func(ok any) any {
				if ok.(bool) {
					return t.M.Pure(appendCopy(kept.([]any), e))
				}
				return t.M.Pure(kept)
			})
		})
	}
	return t.M.Bind(acc, func(kept any) any {
		return t.M.Pure(t.G.Rebuild(g, kept.([]any)))
	})
}

func appendCopy(xs []any, x any) []any {
	return append(append(make([]any, 0, len(xs)+1), xs...), x)
}

type optionMonad struct{}

func (optionMonad) Pure(v any) any { return Some(v) }

func (optionMonad) Bind(m any, f func(any) any) any {
	return OptionFlatMap(asOption(m), func(a any) Option[any] { return asOption(f(a)) })
}

type listMonad struct{}

func (listMonad) Pure(v any) any { return ListOf(v) }

func (listMonad) Bind(m any, f func(any) any) any {
	return ListFlatMap(AsList(m), func(a any) List[any] { return AsList(f(a)) })
}

type eitherMonad struct{}

func (eitherMonad) Pure(v any) any { return Right[any](v) }

func (eitherMonad) Bind(m any, f func(any) any) any {
	return EitherFlatMap(asEither(m), func(a any) Either[any, any] { return asEither(f(a)) })
}

type listTraversable struct{}

func (listTraversable) Elements(g any) []any { return AsList(g).Items() }

// Rebuild keeps a NonEmptyList non-empty when no element was dropped.
func (listTraversable) Rebuild(g any, elems []any) any {
	if _, ok := g.(NonEmptyList[any]); ok && len(elems) > 0 {
		return NonEmptyListOf(elems[0], elems[1:]...)
	}
	return ListOf(elems...)
}

type optionTraversable struct{}

func (optionTraversable) Elements(g any) []any {
	o := asOption(g)
	if !o.Defined {
		return nil
	}
	return []any{o.Value}
}

func (optionTraversable) Rebuild(_ any, elems []any) any {
	if len(elems) == 0 {
		return None[any]()
	}
	return Some(elems[0])
}

// The std capability instances.
var (
	OptionMonad    Monad       = optionMonad{}
	ListMonad      Monad       = listMonad{}
	EitherMonad    Monad       = eitherMonad{}
	ListTraverse   Traversable = listTraversable{}
	OptionTraverse Traversable = optionTraversable{}
)

func asOption(v any) Option[any] {
	o, ok := v.(Option[any])
	if !ok {
		panic(fmt.Sprintf("expected Option, got %s", Show(v)))
	}
	return o
}

func asEither(v any) Either[any, any] {
	e, ok := v.(Either[any, any])
	if !ok {
		panic(fmt.Sprintf("expected Either, got %s", Show(v)))
	}
	return e
}

// AsList accepts a List or a NonEmptyList.
func AsList(v any) List[any] {
	switch l := v.(type) {
	case List[any]:
		return l
	case NonEmptyList[any]:
		return l.List
	}
	panic(fmt.Sprintf("expected List, got %s", Show(v)))
}
