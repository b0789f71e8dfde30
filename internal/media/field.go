package media

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldSet
	fieldCleared
)

// Field is a three-state optional: unset (no pending change), set (a
// pending value), or cleared (a pending explicit removal). The zero
// value is unset.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a Field carrying a pending value.
func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldSet, value: v}
}

// Clear returns a Field marking the target for explicit removal.
func Clear[T any]() Field[T] {
	return Field[T]{state: fieldCleared}
}

// IsSet reports whether the field carries a pending value.
func (f Field[T]) IsSet() bool { return f.state == fieldSet }

// IsCleared reports whether the field marks a pending removal.
func (f Field[T]) IsCleared() bool { return f.state == fieldCleared }

// IsUnset reports whether no change is pending.
func (f Field[T]) IsUnset() bool { return f.state == fieldUnset }

// Get returns the pending value and whether one is set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == fieldSet
}

// Value returns the pending value, or the zero value when none is set.
func (f Field[T]) Value() T {
	if f.state != fieldSet {
		var zero T
		return zero
	}
	return f.value
}
