package chunk

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-voxel/engine/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// VertexShaderSource is the annotated WGSL of the chunk pipeline's vertex stage. It reads the
// camera at group 0 and the chunk position at group 2, and takes the packed vertex in slot 0
// and the instance model matrix in slot 1.
//
//go:embed assets/chunk_vertex_shader.wgsl
var VertexShaderSource string

// FragmentShaderSource is the annotated WGSL of the chunk pipeline's fragment stage. It samples
// the diffuse texture at group 1 and returns the texel unmodified.
//
//go:embed assets/chunk_fragment_shader.wgsl
var FragmentShaderSource string

// VertexStage mirrors vs_main on the CPU:
//
//	clip = viewProj * model * vec4((decode(packed) + chunkPos) * 0.5, 1)
//
// Parameters:
//   - packed: the packed vertex position (bits above the position are ignored)
//   - chunkPos: the chunk offset in voxel units
//   - model: the instance model matrix
//   - viewProj: the camera view-projection matrix
//
// Returns:
//   - mgl32.Vec4: the clip-space position
func VertexStage(packed uint32, chunkPos mgl32.Vec3, model, viewProj mgl32.Mat4) mgl32.Vec4 {
	world := voxel.LocalToWorld(packed, chunkPos)
	return viewProj.Mul4(model).Mul4x1(world.Vec4(1))
}

// FragmentStage mirrors fs_main on the CPU: the sampled texel is the output color.
//
// Parameters:
//   - texel: the diffuse texture sample
//
// Returns:
//   - mgl32.Vec4: the fragment color
func FragmentStage(texel mgl32.Vec4) mgl32.Vec4 {
	return texel
}
