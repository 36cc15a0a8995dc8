package std

import (
	"fmt"
	"strings"
)

// List is an immutable sequence.
type List[T any] struct {
	items []T
}

func ListOf[T any](items ...T) List[T] {
	return List[T]{items: append([]T(nil), items...)}
}

func Nil[T any]() List[T] {
	return List[T]{}
}

// Items returns a copy of the elements.
func (l List[T]) Items() []T {
	return append([]T(nil), l.items...)
}

func (l List[T]) Size() int {
	return len(l.items)
}

func (l List[T]) IsEmpty() bool {
	return len(l.items) == 0
}

func (l List[T]) Head() T {
	if len(l.items) == 0 {
		panic("List.Head on empty list")
	}
	return l.items[0]
}

func (l List[T]) ForEach(f func(T)) {
	for _, v := range l.items {
		f(v)
	}
}

func (l List[T]) Filter(p func(T) bool) List[T] {
	var out []T
	for _, v := range l.items {
		if p(v) {
			out = append(out, v)
		}
	}
	return List[T]{items: out}
}

func (l List[T]) Contains(v T) bool {
	for _, item := range l.items {
		if Equal(item, v) {
			return true
		}
	}
	return false
}

func (l List[T]) Equal(other List[T]) bool {
	if len(l.items) != len(other.items) {
		return false
	}
	for i := range l.items {
		if !Equal(l.items[i], other.items[i]) {
			return false
		}
	}
	return true
}

func (l List[T]) String() string {
	return "List(" + joinShown(l.items) + ")"
}

func ListMap[A, B any](l List[A], f func(A) B) List[B] {
	out := make([]B, len(l.items))
	for i, v := range l.items {
		out[i] = f(v)
	}
	return List[B]{items: out}
}

func ListFlatMap[A, B any](l List[A], f func(A) List[B]) List[B] {
	var out []B
	for _, v := range l.items {
		out = append(out, f(v).items...)
	}
	return List[B]{items: out}
}

func ListFlatten[A any](l List[List[A]]) List[A] {
	return ListFlatMap(l, func(inner List[A]) List[A] { return inner })
}

// NonEmptyList is a List with at least one element. Capabilities of List
// apply to it.
type NonEmptyList[T any] struct {
	List[T]
}

func NonEmptyListOf[T any](head T, tail ...T) NonEmptyList[T] {
	return NonEmptyList[T]{List: ListOf(append([]T{head}, tail...)...)}
}

func (l NonEmptyList[T]) Equal(other NonEmptyList[T]) bool {
	return l.List.Equal(other.List)
}

func (l NonEmptyList[T]) String() string {
	return "NonEmptyList(" + joinShown(l.items) + ")"
}

func joinShown[T any](items []T) string {
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = Show(v)
	}
	return strings.Join(parts, ", ")
}

// Unit is the value of expressions evaluated for their effect.
type Unit struct{}

func (Unit) String() string { return "()" }

// Show renders a runtime value the way it is written in source.
func Show(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case fmt.Stringer:
		return v.String()
	case nil:
		return "()"
	}
	return fmt.Sprint(v)
}
