package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslTypeLayout is the host-shareable size and alignment of a WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// scalarInfo is a WGSL scalar's byte size and its vertex formats keyed by component count.
type scalarInfo struct {
	size    uint64
	formats map[int]wgpu.VertexFormat
}

var scalars = map[string]scalarInfo{
	"f32": {4, map[int]wgpu.VertexFormat{
		1: wgpu.VertexFormatFloat32, 2: wgpu.VertexFormatFloat32x2, 3: wgpu.VertexFormatFloat32x3, 4: wgpu.VertexFormatFloat32x4,
	}},
	"u32": {4, map[int]wgpu.VertexFormat{
		1: wgpu.VertexFormatUint32, 2: wgpu.VertexFormatUint32x2, 3: wgpu.VertexFormatUint32x3, 4: wgpu.VertexFormatUint32x4,
	}},
	"i32": {4, map[int]wgpu.VertexFormat{
		1: wgpu.VertexFormatSint32, 2: wgpu.VertexFormatSint32x2, 3: wgpu.VertexFormatSint32x3, 4: wgpu.VertexFormatSint32x4,
	}},
	"f16": {2, map[int]wgpu.VertexFormat{
		2: wgpu.VertexFormatFloat16x2, 4: wgpu.VertexFormatFloat16x4,
	}},
}

// scalarSuffix maps the shorthand vector suffixes (vec3f, vec2u, ...) to their scalar.
var scalarSuffix = map[string]string{"f": "f32", "u": "u32", "i": "i32", "h": "f16"}

// textureDimensions maps the sampled texture kinds the engine binds to their view dimension.
var textureDimensions = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_3d":       wgpu.TextureViewDimension3D,
	"texture_cube":     wgpu.TextureViewDimensionCube,
	"texture_depth_2d": wgpu.TextureViewDimension2D,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// roundUpAlign rounds value up to a multiple of alignment, which must be a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// typeArgs splits "name<args>" into its name and trimmed arguments. A type without angle
// brackets returns empty args.
func typeArgs(typeName string) (string, string) {
	name, rest, ok := strings.Cut(typeName, "<")
	if !ok || !strings.HasSuffix(rest, ">") {
		return typeName, ""
	}
	return name, strings.TrimSpace(strings.TrimSuffix(rest, ">"))
}

// splitVector reads a scalar ("u32") or vector ("vec3<f32>", "vec2f") type.
//
// Parameters:
//   - typeName: the WGSL type
//
// Returns:
//   - string: the scalar type name
//   - int: the component count, 1 for scalars
//   - bool: false if typeName is not a scalar or vector of a known scalar
func splitVector(typeName string) (string, int, bool) {
	if _, ok := scalars[typeName]; ok {
		return typeName, 1, true
	}
	if len(typeName) < 5 || !strings.HasPrefix(typeName, "vec") {
		return "", 0, false
	}
	n := int(typeName[3] - '0')
	if n < 2 || n > 4 {
		return "", 0, false
	}

	rest := typeName[4:]
	scalar, ok := scalarSuffix[rest]
	if !ok {
		_, scalar = typeArgs(typeName)
		if _, known := scalars[scalar]; !known || !strings.HasPrefix(rest, "<") {
			return "", 0, false
		}
	}
	return scalar, n, true
}

// vectorLayout applies the WGSL rule that a three component vector aligns like a four component one.
func vectorLayout(scalarSize uint64, n int) wgslTypeLayout {
	size := scalarSize * uint64(n)
	switch n {
	case 1:
		return wgslTypeLayout{size, scalarSize}
	case 3:
		return wgslTypeLayout{size, scalarSize * 4}
	default:
		return wgslTypeLayout{size, size}
	}
}

// splitMatrix reads a "matCxR<f32>" or "matCxRf" type into its column and row counts.
func splitMatrix(typeName string) (int, int, bool) {
	if len(typeName) < 7 || !strings.HasPrefix(typeName, "mat") || typeName[4] != 'x' {
		return 0, 0, false
	}
	cols, rows := int(typeName[3]-'0'), int(typeName[5]-'0')
	if cols < 2 || cols > 4 || rows < 2 || rows > 4 {
		return 0, 0, false
	}
	if rest := typeName[6:]; rest != "f" && rest != "<f32>" {
		return 0, 0, false
	}
	return cols, rows, true
}

// splitArray reads "array<T, N>" into its element type and count. Runtime-sized arrays report
// a count of zero.
func splitArray(typeName string) (string, uint64, bool) {
	name, args := typeArgs(typeName)
	if name != "array" || args == "" {
		return "", 0, false
	}
	parts := splitAtTopLevelCommas(args)
	elem := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		return elem, 0, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return elem, count, true
}

// hostLayout resolves the size and alignment of a WGSL type. Struct types must already be in
// known. A runtime-sized array resolves to a single element, which is the smallest binding
// that can be useful.
//
// Parameters:
//   - typeName: the WGSL type, e.g. "f32", "mat4x4<f32>", "CameraUniform", "array<vec4f, 6>"
//   - known: struct layouts resolved so far
//
// Returns:
//   - wgslTypeLayout: the resolved layout
//   - bool: false if the type, or one it contains, is unknown
func hostLayout(typeName string, known map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if typeName == "bool" {
		return wgslTypeLayout{4, 4}, true
	}
	if scalar, n, ok := splitVector(typeName); ok {
		return vectorLayout(scalars[scalar].size, n), true
	}
	if cols, rows, ok := splitMatrix(typeName); ok {
		col := vectorLayout(4, rows)
		return wgslTypeLayout{uint64(cols) * roundUpAlign(col.align, col.size), col.align}, true
	}
	if elem, count, ok := splitArray(typeName); ok {
		el, ok := hostLayout(elem, known)
		if !ok {
			return wgslTypeLayout{}, false
		}
		stride := roundUpAlign(el.align, el.size)
		return wgslTypeLayout{max(count, 1) * stride, el.align}, true
	}
	layout, ok := known[typeName]
	return layout, ok
}

// structLayouts lays out every struct that can be resolved, repeating until no further struct
// resolves so nested structs may be declared in any order. Builtin fields are skipped.
//
// Parameters:
//   - structs: the parsed struct blocks
//
// Returns:
//   - map[string]wgslTypeLayout: layouts keyed by struct name
func structLayouts(structs []parsedStruct) map[string]wgslTypeLayout {
	known := make(map[string]wgslTypeLayout, len(structs))
	for progress := true; progress; {
		progress = false
		for _, ps := range structs {
			if _, done := known[ps.name]; done {
				continue
			}
			if layout, ok := structLayout(ps, known); ok {
				known[ps.name] = layout
				progress = true
			}
		}
	}
	return known
}

func structLayout(ps parsedStruct, known map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	offset, align := uint64(0), uint64(1)
	for _, f := range ps.fields {
		if f.isBuiltin {
			continue
		}
		fl, ok := hostLayout(f.typeName, known)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(fl.align, offset) + fl.size
		align = max(align, fl.align)
	}
	return wgslTypeLayout{roundUpAlign(align, offset), align}, true
}

// vertexFormat maps a vertex attribute type to its wgpu format and packed byte size.
func vertexFormat(typeName string) (wgpu.VertexFormat, uint64, bool) {
	scalar, n, ok := splitVector(typeName)
	if !ok {
		return 0, 0, false
	}
	info := scalars[scalar]
	format, ok := info.formats[n]
	return format, info.size * uint64(n), ok
}

// resourceEntry builds the layout entry for one "@group @binding var" declaration. Buffers
// are recognized by their address space, handles by their type.
//
// Parameters:
//   - binding: the @binding index
//   - visibility: the declaring stage
//   - addressSpace: "uniform", "storage, read" and so on; empty for handle types
//   - typeName: the declared type
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the entry, with MinBindingSize left for the caller
func resourceEntry(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage") && strings.Contains(addressSpace, "read_write"):
		entry.Buffer.Type = wgpu.BufferBindingTypeStorage
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_"):
		base, sample := typeArgs(typeName)
		entry.Texture.ViewDimension = textureDimensions[base]
		if strings.HasPrefix(base, "texture_depth") {
			entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		} else {
			entry.Texture.SampleType = sampleTypes[sample]
		}
	}
	return entry
}
