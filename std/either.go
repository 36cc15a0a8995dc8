package std

import "fmt"

// Either holds a Left or a Right value. Right is the success side.
type Either[L, R any] struct {
	LeftValue  L
	RightValue R
	IsRight    bool
}

func Left[L, R any](v L) Either[L, R] {
	return Either[L, R]{LeftValue: v}
}

func Right[L, R any](v R) Either[L, R] {
	return Either[L, R]{RightValue: v, IsRight: true}
}

func (e Either[L, R]) IsLeft() bool {
	return !e.IsRight
}

func (e Either[L, R]) GetOrElse(orElse func() R) R {
	if e.IsRight {
		return e.RightValue
	}
	return orElse()
}

func (e Either[L, R]) Equal(other Either[L, R]) bool {
	if e.IsRight != other.IsRight {
		return false
	}
	if e.IsRight {
		return Equal(e.RightValue, other.RightValue)
	}
	return Equal(e.LeftValue, other.LeftValue)
}

func (e Either[L, R]) String() string {
	if e.IsRight {
		return fmt.Sprintf("Right(%s)", Show(e.RightValue))
	}
	return fmt.Sprintf("Left(%s)", Show(e.LeftValue))
}

func EitherMap[L, A, B any](e Either[L, A], f func(A) B) Either[L, B] {
	if !e.IsRight {
		return Left[L, B](e.LeftValue)
	}
	return Right[L](f(e.RightValue))
}

func EitherFlatMap[L, A, B any](e Either[L, A], f func(A) Either[L, B]) Either[L, B] {
	if !e.IsRight {
		return Left[L, B](e.LeftValue)
	}
	return f(e.RightValue)
}

var _ Equatable[Either[string, int]] = Either[string, int]{}
