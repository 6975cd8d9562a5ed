// Package result provides a discriminated success/failure union used by all
// fallible conversion operations. A Result either holds a value or an error,
// never both; this keeps per-node failures local and composable instead of
// aborting a whole scene build.
package result

import "fmt"

// Result holds either a value of type T or an error.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Errf wraps a formatted failure.
func Errf[T any](format string, args ...any) Result[T] {
	return Result[T]{err: fmt.Errorf(format, args...)}
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.ok }

// IsErr reports whether the result holds an error.
func (r Result[T]) IsErr() bool { return !r.ok }

// Value returns the held value. For a failed result it returns the zero value.
func (r Result[T]) Value() T { return r.value }

// Err returns the held error, or nil for a successful result.
func (r Result[T]) Err() error { return r.err }

// Unpack converts the result into Go's conventional (value, error) pair.
func (r Result[T]) Unpack() (T, error) { return r.value, r.err }

// Map transforms a successful result's value; failures pass through.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.IsErr() {
		return Err[U](r.err)
	}
	return Ok(f(r.value))
}
