// Package utils holds small generic helpers shared by the other packages.
package utils

import "cmp"

// CoalesceVal returns the first non-zero value among values; otherwise returns the zero value.
func CoalesceVal[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp bounds v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
