package scene

import (
	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/Carmen-Shannon/oxy-voxel/engine/chunk"
	"github.com/Carmen-Shannon/oxy-voxel/engine/instance"
	"github.com/go-gl/mathgl/mgl32"
)

// chunkBounds returns the world-space AABB of a chunk after its instance transform.
func chunkBounds(c chunk.Chunk) common.AABB {
	box := c.AABB()
	inst := c.Instance()
	if inst == instance.Identity() {
		return box
	}
	return transformAABB(box, inst.Model())
}

// transformAABB returns the axis-aligned box enclosing the eight transformed corners of box.
func transformAABB(box common.AABB, model mgl32.Mat4) common.AABB {
	var out common.AABB
	for i := range 8 {
		corner := mgl32.Vec3{box.Min.X(), box.Min.Y(), box.Min.Z()}
		if i&1 != 0 {
			corner[0] = box.Max.X()
		}
		if i&2 != 0 {
			corner[1] = box.Max.Y()
		}
		if i&4 != 0 {
			corner[2] = box.Max.Z()
		}
		p := model.Mul4x1(corner.Vec4(1)).Vec3()
		if i == 0 {
			out = common.NewAABB(p, p)
			continue
		}
		for a := range 3 {
			out.Min[a] = min(out.Min[a], p[a])
			out.Max[a] = max(out.Max[a], p[a])
		}
	}
	return out
}

// chunkVisible reports whether a chunk should be submitted: its origin must lie closer than far
// to the eye and its bounds must intersect the frustum.
//
// Parameters:
//   - f: the view frustum
//   - box: the chunk's world-space bounds
//   - eye: the camera position
//   - far: the far plane distance
//
// Returns:
//   - bool: true if the chunk may be on screen
func chunkVisible(f *common.Frustum, box common.AABB, eye mgl32.Vec3, far float32) bool {
	d := box.Min.Sub(eye)
	if d.Dot(d) >= far*far {
		return false
	}
	return f.IntersectsAABB(box)
}
