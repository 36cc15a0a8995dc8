// Package std is the runtime of effectful programs: the Option, Either and
// List values, the Monad and Traversable capabilities with their instances,
// and the guards behind the unwrap markers.
package std

import "fmt"

type Option[T any] struct {
	Value   T
	Defined bool
}

func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Defined: true}
}

func None[T any]() Option[T] {
	return Option[T]{Defined: false}
}

func (o Option[T]) IsDefined() bool {
	return o.Defined
}

func (o Option[T]) IsEmpty() bool {
	return !o.Defined
}

func (o Option[T]) Get() T {
	if !o.Defined {
		panic("Option.Get on None")
	}
	return o.Value
}

// GetOrElse evaluates orElse only when o is empty.
func (o Option[T]) GetOrElse(orElse func() T) T {
	if o.Defined {
		return o.Value
	}
	return orElse()
}

func (o Option[T]) ForEach(f func(T)) {
	if o.Defined {
		f(o.Value)
	}
}

func (o Option[T]) Filter(p func(T) bool) Option[T] {
	if o.Defined && p(o.Value) {
		return o
	}
	return None[T]()
}

func (o Option[T]) Equal(other Option[T]) bool {
	if o.Defined != other.Defined {
		return false
	}
	return !o.Defined || Equal(o.Value, other.Value)
}

func (o Option[T]) String() string {
	if !o.Defined {
		return "None"
	}
	return fmt.Sprintf("Some(%s)", Show(o.Value))
}

// OptionMap and OptionFlatMap are functions because Go methods cannot
// have type parameters.

func OptionMap[A, B any](o Option[A], f func(A) B) Option[B] {
	if !o.Defined {
		return None[B]()
	}
	return Some(f(o.Value))
}

func OptionFlatMap[A, B any](o Option[A], f func(A) Option[B]) Option[B] {
	if !o.Defined {
		return None[B]()
	}
	return f(o.Value)
}

func OptionFlatten[A any](o Option[Option[A]]) Option[A] {
	return OptionFlatMap(o, func(inner Option[A]) Option[A] { return inner })
}

var _ Equatable[Option[int]] = Option[int]{}
