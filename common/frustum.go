package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance returns the signed distance from p to the plane. Positive values lie inside.
func (p Plane) SignedDistance(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) + p.Distance
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// AABB is an axis-aligned bounding box described by its minimum and maximum corners.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB spanning from min to max.
//
// Parameters:
//   - min: the minimum corner
//   - max: the maximum corner
//
// Returns:
//   - AABB: the bounding box
func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix using the
// Gribb/Hartmann method. The near plane is taken from row 2 alone because WebGPU clip space
// maps depth to [0, w] rather than [-w, w].
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj mgl32.Mat4) Frustum {
	var f Frustum

	row0 := viewProj.Row(0)
	row1 := viewProj.Row(1)
	row2 := viewProj.Row(2)
	row3 := viewProj.Row(3)

	f.Planes[FrustumLeft] = planeFromRow(row3.Add(row0))
	f.Planes[FrustumRight] = planeFromRow(row3.Sub(row0))
	f.Planes[FrustumBottom] = planeFromRow(row3.Add(row1))
	f.Planes[FrustumTop] = planeFromRow(row3.Sub(row1))
	f.Planes[FrustumNear] = planeFromRow(row2)
	f.Planes[FrustumFar] = planeFromRow(row3.Sub(row2))

	return f
}

// IntersectsAABB reports whether any part of the box lies inside the frustum. For each plane
// the box corner furthest along the plane normal (the positive vertex) is tested; if that
// corner is outside, the whole box is.
//
// Parameters:
//   - box: the bounding box to test
//
// Returns:
//   - bool: false if the box is fully outside at least one plane
func (f *Frustum) IntersectsAABB(box AABB) bool {
	for _, p := range f.Planes {
		var positive mgl32.Vec3
		for axis := range 3 {
			if p.Normal[axis] >= 0 {
				positive[axis] = box.Max[axis]
			} else {
				positive[axis] = box.Min[axis]
			}
		}
		if p.SignedDistance(positive) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether any part of a sphere lies inside the frustum.
//
// Parameters:
//   - center: the sphere center
//   - radius: the sphere radius
//
// Returns:
//   - bool: false if the sphere is fully behind at least one plane
func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}

// planeFromRow builds a normalized plane from a combined matrix row (a, b, c, d).
func planeFromRow(row mgl32.Vec4) Plane {
	p := Plane{
		Normal:   mgl32.Vec3{row[0], row[1], row[2]},
		Distance: row[3],
	}
	length := float32(math.Sqrt(float64(p.Normal.Dot(p.Normal))))
	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
	return p
}
