package resilience

// Result is the return contract of every remote call made through this
// package: a call either produced a value or degraded to a fallback with a
// reason. Transient failures never cross this boundary as errors.
type Result[T any] struct {
	value    T
	ok       bool
	fallback string
}

// Success wraps a payload produced by a remote call.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Fallback marks a degraded outcome. The reason is diagnostic only and must
// never be surfaced to the user verbatim.
func Fallback[T any](reason string) Result[T] {
	return Result[T]{fallback: reason}
}

// Ok reports whether the call produced a payload.
func (r Result[T]) Ok() bool { return r.ok }

// Value returns the payload. It is the zero value on fallback.
func (r Result[T]) Value() T { return r.value }

// FallbackReason returns the diagnostic reason for a degraded outcome, or the
// empty string on success.
func (r Result[T]) FallbackReason() string { return r.fallback }
