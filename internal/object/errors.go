package object

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is returned when an accessor or operator meets the wrong variant.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrDivisionByZero is returned by divide when the divisor is exactly zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNullCallable is returned when an entry without an implementation is invoked.
	ErrNullCallable = errors.New("function implementation is null")
	// ErrArityMismatch is only raised when strict arity checking is enabled.
	ErrArityMismatch = errors.New("arity mismatch")
)

func typeMismatch(want ObjectType, got Object) error {
	return fmt.Errorf("%w: value is not a %s, got %s", ErrTypeMismatch, want, typeOf(got))
}

func typeOf(o Object) ObjectType {
	if o == nil {
		return NULL_OBJ
	}
	return o.Type()
}
