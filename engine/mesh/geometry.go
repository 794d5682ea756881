package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// GenerateNormals computes smooth vertex normals from the triangle geometry. Each triangle's
// face normal (the cross product of two edges, so area weighted) is accumulated onto its
// three vertices, then every vertex normal is normalized. Vertices not referenced by any
// triangle get +Y.
//
// Parameters:
//   - vertices: the vertex slice to write normals into
//   - indices: the triangle index buffer
func GenerateNormals(vertices []GPUMeshVertex, indices []uint32) {
	n := len(vertices)
	accum := make([]mgl32.Vec3, n)

	forEachTriangle(indices, n, func(i0, i1, i2 uint32) {
		p0 := mgl32.Vec3(vertices[i0].Position)
		edge1 := mgl32.Vec3(vertices[i1].Position).Sub(p0)
		edge2 := mgl32.Vec3(vertices[i2].Position).Sub(p0)
		face := edge1.Cross(edge2)
		accum[i0] = accum[i0].Add(face)
		accum[i1] = accum[i1].Add(face)
		accum[i2] = accum[i2].Add(face)
	})

	for i := range n {
		if accum[i].Len() < 1e-6 {
			vertices[i].Normal = [3]float32{0, 1, 0}
			continue
		}
		vertices[i].Normal = accum[i].Normalize()
	}
}

// GenerateTangents computes per-vertex tangents and bitangents from UV gradients. Per-triangle
// tangent directions are accumulated per vertex, orthonormalized against the vertex normal
// (Gram-Schmidt), and the bitangent is rebuilt as cross(N, T) flipped to agree with the
// accumulated UV bitangent. Normals must be set first.
//
// Parameters:
//   - vertices: the vertex slice to write tangent data into
//   - indices: the triangle index buffer
func GenerateTangents(vertices []GPUMeshVertex, indices []uint32) {
	n := len(vertices)
	tan := make([]mgl32.Vec3, n)
	btan := make([]mgl32.Vec3, n)

	forEachTriangle(indices, n, func(i0, i1, i2 uint32) {
		p0 := mgl32.Vec3(vertices[i0].Position)
		edge1 := mgl32.Vec3(vertices[i1].Position).Sub(p0)
		edge2 := mgl32.Vec3(vertices[i2].Position).Sub(p0)

		uv0 := mgl32.Vec2(vertices[i0].TexCoord)
		duv1 := mgl32.Vec2(vertices[i1].TexCoord).Sub(uv0)
		duv2 := mgl32.Vec2(vertices[i2].TexCoord).Sub(uv0)

		det := duv1[0]*duv2[1] - duv1[1]*duv2[0]
		if det == 0 {
			return
		}
		invDet := 1 / det

		t := edge1.Mul(duv2[1]).Sub(edge2.Mul(duv1[1])).Mul(invDet)
		b := edge2.Mul(duv1[0]).Sub(edge1.Mul(duv2[0])).Mul(invDet)

		for _, idx := range [3]uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			btan[idx] = btan[idx].Add(b)
		}
	})

	for i := range n {
		normal := mgl32.Vec3(vertices[i].Normal)
		ortho := tan[i].Sub(normal.Mul(normal.Dot(tan[i])))
		if ortho.Len() < 1e-6 {
			vertices[i].Tangent = [3]float32{1, 0, 0}
			vertices[i].Bitangent = normal.Cross(mgl32.Vec3{1, 0, 0})
			continue
		}
		ortho = ortho.Normalize()
		bitangent := normal.Cross(ortho)
		if bitangent.Dot(btan[i]) < 0 {
			bitangent = bitangent.Mul(-1)
		}
		vertices[i].Tangent = ortho
		vertices[i].Bitangent = bitangent
	}
}

// BoundingRadius returns the largest distance of any vertex from the model-space origin.
//
// Parameters:
//   - vertices: the mesh vertices
//
// Returns:
//   - float32: the bounding sphere radius, 0 for an empty mesh
func BoundingRadius(vertices []GPUMeshVertex) float32 {
	var r float32
	for i := range vertices {
		r = max(r, mgl32.Vec3(vertices[i].Position).Len())
	}
	return r
}

// forEachTriangle calls fn for every complete triangle whose indices are all below n.
func forEachTriangle(indices []uint32, n int, fn func(i0, i1, i2 uint32)) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}
		fn(i0, i1, i2)
	}
}

// cubeFaces lists, for each face of a unit cube centered on the origin, the outward normal
// and its four corners counter-clockwise when viewed from outside.
var cubeFaces = [6]struct {
	normal  [3]float32
	corners [4][3]float32
}{
	{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
}

// CubeGeometry builds a cube of the given edge length centered on the origin with one texture
// tile per face, outward normals, and generated tangents.
//
// Parameters:
//   - size: the edge length
//
// Returns:
//   - []GPUMeshVertex: 24 vertices, four per face
//   - []uint32: 36 indices, counter-clockwise front faces
func CubeGeometry(size float32) ([]GPUMeshVertex, []uint32) {
	half := size / 2
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]GPUMeshVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		for c, corner := range f.corners {
			vertices = append(vertices, GPUMeshVertex{
				Position: [3]float32{corner[0] * half, corner[1] * half, corner[2] * half},
				TexCoord: uvs[c],
				Normal:   f.normal,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	GenerateTangents(vertices, indices)
	return vertices, indices
}
