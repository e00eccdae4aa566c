// Package ptr has small helpers for the nullable fields of card records.
package ptr

// To creates a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// Deref returns the value p points to, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// NonZero returns nil for the zero value and a pointer to v otherwise.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
