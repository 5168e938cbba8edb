// Package result provides a two-variant outcome type: a Result is either a
// success carrying a value or a failure carrying an error payload.
//
// Go methods cannot introduce new type parameters, so the combinators that
// change the value type (Map, FlatMap, Match) are package-level functions:
//
//	token := result.FlatMap(findUser(name), issueToken)
package result

// Result holds exactly one of a success value or a failure payload. Values
// are immutable once built; always construct through Success or Failure.
// The zero Result is a Failure carrying the zero E.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

// Success wraps v as a successful outcome.
func Success[T, E any](v T) Result[T, E] {
	return Result[T, E]{value: v, ok: true}
}

// Failure wraps e as a failed outcome.
func Failure[T, E any](e E) Result[T, E] {
	return Result[T, E]{err: e}
}

// From lifts a conventional (value, error) pair into a Result.
func From[T any](v T, err error) Result[T, error] {
	if err != nil {
		return Failure[T](err)
	}
	return Success[T, error](v)
}

func (r Result[T, E]) IsSuccess() bool { return r.ok }

func (r Result[T, E]) IsFailure() bool { return !r.ok }

// Value returns the success value and true, or the zero T and false.
func (r Result[T, E]) Value() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Err returns the failure payload and true, or the zero E and false.
func (r Result[T, E]) Err() (E, bool) {
	if r.ok {
		var zero E
		return zero, false
	}
	return r.err, true
}

// Map applies f to a success value. A failure is returned untouched and f is
// never called.
func Map[T, U, E any](r Result[T, E], f func(T) U) Result[U, E] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return Success[U, E](f(r.value))
}

// FlatMap chains an operation that can itself fail. A failure short-circuits
// the chain.
func FlatMap[T, U, E any](r Result[T, E], f func(T) Result[U, E]) Result[U, E] {
	if !r.ok {
		return Failure[U](r.err)
	}
	return f(r.value)
}

// Filter keeps a success only while pred holds for its value; otherwise it
// becomes Failure(e). An existing failure passes through and pred is skipped.
func Filter[T, E any](r Result[T, E], pred func(T) bool, e E) Result[T, E] {
	if !r.ok {
		return r
	}
	if !pred(r.value) {
		return Failure[T](e)
	}
	return r
}

// Match consumes r by calling exactly one of the two handlers.
func Match[T, E, R any](r Result[T, E], onSuccess func(T) R, onFailure func(E) R) R {
	if r.ok {
		return onSuccess(r.value)
	}
	return onFailure(r.err)
}
