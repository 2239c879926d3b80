// Package optional holds a field value that can be absent, explicitly null,
// or present. The three states stay distinct: a consumer may treat
// "explicitly null" differently from "not supplied".
package optional

// State is the observable state of a Value.
type State int

const (
	Absent State = iota
	Null
	Present
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Null:
		return "null"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

// Value is a T widened with the null and absent states.
// The zero Value is absent.
type Value[T any] struct {
	state State
	value T
}

// Of returns a present value.
func Of[T any](v T) Value[T] {
	return Value[T]{state: Present, value: v}
}

// None returns an absent value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Nil returns an explicitly null value.
func Nil[T any]() Value[T] {
	return Value[T]{state: Null}
}

// FromPointer maps nil to Null and anything else to Present.
func FromPointer[T any](p *T) Value[T] {
	if p == nil {
		return Nil[T]()
	}

	return Of(*p)
}

func (v Value[T]) State() State { return v.state }

func (v Value[T]) IsPresent() bool { return v.state == Present }

func (v Value[T]) IsNull() bool { return v.state == Null }

func (v Value[T]) IsAbsent() bool { return v.state == Absent }

// Get returns the value and true when present.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.state == Present
}

// OrElse returns the value when present, fallback otherwise.
func (v Value[T]) OrElse(fallback T) T {
	if v.state == Present {
		return v.value
	}

	return fallback
}

// Pointer returns nil unless the value is present.
func (v Value[T]) Pointer() *T {
	if v.state != Present {
		return nil
	}

	out := v.value

	return &out
}
