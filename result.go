// Package missions holds the types shared by the daily missions client and
// server: the Result contract, error codes and the JSON wire models.
package missions

// Result is either Ok with a value of type T or Err with an error of type E.
// Exactly one side is populated. The zero Result is an Err carrying the zero E.
type Result[T any, E any] struct {
	value T
	err   E
	ok    bool
}

// Ok wraps a success value.
func Ok[T any, E any](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

// Err wraps an error value.
func Err[T any, E any](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

// IsOk reports whether the result is the Ok variant.
func (r Result[T, E]) IsOk() bool {
	return r.ok
}

// Value returns the success value and true, or the zero T and false on Err.
func (r Result[T, E]) Value() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}

	return r.value, true
}

// Err returns the error value and true, or the zero E and false on Ok.
func (r Result[T, E]) Err() (E, bool) {
	if r.ok {
		var zero E
		return zero, false
	}

	return r.err, true
}

// Null is the success payload of endpoints that answer without a body.
type Null struct{}

func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}
