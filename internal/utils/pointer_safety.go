package utils

// Value dereferences p, giving the zero value for nil.
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func Ptr[T any](v T) *T {
	return &v
}

// FirstSet returns the first non-nil pointer, or nil.
func FirstSet[T any](ptrs ...*T) *T {
	for _, p := range ptrs {
		if p != nil {
			return p
		}
	}
	return nil
}
