// Package utils holds small generic helpers for optional request fields.
package utils

// Value dereferences p, returning the zero value when p is nil
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Ptr returns a pointer to a copy of v
func Ptr[T any](v T) *T {
	return &v
}
