package utils

// FilterSlice maps src through fn, dropping elements for which fn returns false.
func FilterSlice[S any, D any](src []S, fn func(S) (D, bool)) []D {
	dst := make([]D, 0, len(src))
	for _, item := range src {
		if d, ok := fn(item); ok {
			dst = append(dst, d)
		}
	}
	return dst
}

// Or returns the first non-zero value.
func Or[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
