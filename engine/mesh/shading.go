package mesh

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-voxel/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// VertexShaderSource is the annotated WGSL of the mesh pipeline's vertex stage. It reads the
// camera at group 1 and the light at group 2, and takes the vertex in slot 0 and the instance
// model and normal matrices in slot 1.
//
//go:embed assets/mesh_vertex_shader.wgsl
var VertexShaderSource string

// FragmentShaderSource is the annotated WGSL of the mesh pipeline's fragment stage. It samples
// the diffuse texture at group 0 and applies ambient plus point light shading.
//
//go:embed assets/mesh_fragment_shader.wgsl
var FragmentShaderSource string

// VertexOutput is what the vertex stage hands to the fragment stage.
type VertexOutput struct {
	Clip          mgl32.Vec4
	TexCoord      mgl32.Vec2
	LightDistance float32
}

// VertexStage mirrors vs_main on the CPU:
//
//	world = model * vec4(position, 1)
//	clip  = viewProj * world
//	dist  = distance(world.xyz, light.position)
//
// Normal, tangent and bitangent do not affect the result.
//
// Parameters:
//   - v: the vertex
//   - model: the instance model matrix
//   - viewProj: the camera view-projection matrix
//   - lightPos: the light's world-space position
//
// Returns:
//   - VertexOutput: clip position, passed-through UV and light distance
func VertexStage(v GPUMeshVertex, model, viewProj mgl32.Mat4, lightPos mgl32.Vec3) VertexOutput {
	world := model.Mul4x1(mgl32.Vec3(v.Position).Vec4(1))
	return VertexOutput{
		Clip:          viewProj.Mul4x1(world),
		TexCoord:      mgl32.Vec2(v.TexCoord),
		LightDistance: world.Vec3().Sub(lightPos).Len(),
	}
}

// FragmentStage mirrors fs_main on the CPU:
//
//	ambient = light.color * ambientStrength
//	att     = clamp(1 - dist²/radius², 0, 1)
//	rgb     = (ambient + light.color * att) * object.rgb
//	a       = object.a
//
// The result is not clamped; components above 1 are left for the output target to handle
// (see ClampToDisplay).
//
// Parameters:
//   - object: the diffuse texture sample
//   - l: the light uniform; its radius must be > 0
//   - ambientStrength: the camera's ambient factor
//   - dist: distance from the fragment to the light
//
// Returns:
//   - mgl32.Vec4: the shaded color
func FragmentStage(object mgl32.Vec4, l light.GPULightUniform, ambientStrength, dist float32) mgl32.Vec4 {
	color := mgl32.Vec3(l.Color)
	ambient := color.Mul(ambientStrength)
	att := light.Attenuation(dist, l.Radius)
	lit := ambient.Add(color.Mul(att))
	return mgl32.Vec4{
		lit[0] * object[0],
		lit[1] * object[1],
		lit[2] * object[2],
		object[3],
	}
}

// ClampToDisplay clamps each component to [0, 1], which is what an 8-bit unorm surface does
// to the unclamped shading output on store.
//
// Parameters:
//   - c: the shaded color
//
// Returns:
//   - mgl32.Vec4: the displayable color
func ClampToDisplay(c mgl32.Vec4) mgl32.Vec4 {
	for i := range c {
		c[i] = mgl32.Clamp(c[i], 0, 1)
	}
	return c
}
