package light

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRadius is returned when a light's radius is not strictly positive. A zero radius
// would divide by zero in the attenuation term.
var ErrInvalidRadius = errors.New("light radius must be > 0")

func validateRadius(radius float32) error {
	r := float64(radius)
	if math.IsNaN(r) || math.IsInf(r, 0) || radius <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, radius)
	}
	return nil
}

// Attenuation returns the quadratic-normalized distance falloff used by the mesh pipeline:
//
//	clamp(1 - dist²/radius², 0, 1)
//
// It is 1 at the light, 0 at and beyond the radius, and monotonically non-increasing in dist.
//
// Parameters:
//   - dist: distance from the light in world units
//   - radius: the light radius, must be > 0
//
// Returns:
//   - float32: the attenuation factor in [0, 1]
func Attenuation(dist, radius float32) float32 {
	att := 1 - (dist*dist)/(radius*radius)
	return min(max(att, 0), 1)
}
