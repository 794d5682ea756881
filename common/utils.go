package common

// Coalesce returns the first non-zero value, or the zero value if all are zero. Sampler staging
// data uses it to fill unset fields with defaults, and materials and meshes to fall back from
// an empty name to their id in GPU labels.
//
// Parameters:
//   - values: the candidates in order of preference
//
// Returns:
//   - T: the first non-zero value
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
