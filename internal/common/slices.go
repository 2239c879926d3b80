package common

// IsEmpty reports whether s has no elements.
func IsEmpty[S ~[]E, E any](s S) bool { return len(s) == 0 }

// IsSingle reports whether s holds exactly one element.
func IsSingle[S ~[]E, E any](s S) bool { return len(s) == 1 }

// First returns s[0], or the zero value and false for an empty slice.
func First[S ~[]E, E any](s S) (E, bool) {
	var zero E
	if len(s) == 0 {
		return zero, false
	}

	return s[0], true
}
