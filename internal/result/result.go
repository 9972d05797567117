// Package result provides a tagged-variant return type for use cases whose
// spec explicitly frames the outcome as "a value or an error string" crossing
// a use-case boundary, rather than Go's usual (value, error) pair. It exists
// for the one core operation that needs it — the item sync use case — where
// the caller (an HTTP layer outside this repository's scope) wants a single
// value it can branch on without importing error-wrapping machinery.
package result

// Result is either Ok with a Value, or not Ok with an Err message.
type Result[T any] struct {
	ok    bool
	value T
	err   string
}

// Ok constructs a successful Result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{ok: true, value: value}
}

// Fail constructs a failed Result carrying a human-readable error message.
func Fail[T any](errMessage string) Result[T] {
	return Result[T]{ok: false, err: errMessage}
}

// IsOk reports whether the Result is successful.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Value returns the carried value. Its contents are meaningless if IsOk is false.
func (r Result[T]) Value() T {
	return r.value
}

// Error returns the failure message. It is empty if IsOk is true.
func (r Result[T]) Error() string {
	return r.err
}
