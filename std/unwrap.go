package std

import "errors"

// ErrUnwrapOutsideBlock is raised when a marker is evaluated instead of
// being rewritten.
var ErrUnwrapOutsideBlock = errors.New("unwrap used outside of a rewrite block")

// Unwrap marks an effectful value inside an effectful block. It only has a
// meaning for the rewrite and panics when evaluated.
func Unwrap[T any](m any) T {
	panic(ErrUnwrapOutsideBlock)
}

// UnwrapOps carries the postfix marker m!.
type UnwrapOps[T any] struct {
	m any
}

// Ops converts m for the postfix marker.
func Ops[T any](m any) UnwrapOps[T] {
	return UnwrapOps[T]{m: m}
}

// Bang is the postfix marker. Like Unwrap it panics when evaluated.
func (UnwrapOps[T]) Bang() T {
	panic(ErrUnwrapOutsideBlock)
}
