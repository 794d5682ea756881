package shader

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// parsedField is one member of a WGSL struct. location is -1 when the field has no @location.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

var (
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// attributeRegex matches one leading attribute such as @location(5) or @builtin(position).
	attributeRegex = regexp.MustCompile(`^@(\w+)(?:\(([^)]*)\))?\s*`)

	entryPointRegex = map[ShaderType]*regexp.Regexp{
		ShaderTypeVertex:   regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`),
		ShaderTypeFragment: regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`),
	}

	// resourceDeclRegex captures group, binding, address space, name and type of declarations
	// like "@group(0) @binding(0) var<uniform> camera: CameraUniform;".
	resourceDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// instanceInputSuffix marks a vertex input struct that advances once per instance.
const instanceInputSuffix = "InstanceInput"

// stripComments removes line comments and nested block comments in one pass.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))

	depth := 0
	for i := 0; i < len(source); i++ {
		next := byte(0)
		if i+1 < len(source) {
			next = source[i+1]
		}
		switch {
		case source[i] == '/' && next == '*':
			depth++
			i++
		case source[i] == '*' && next == '/' && depth > 0:
			depth--
			i++
		case depth > 0:
		case source[i] == '/' && next == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
			if i < len(source) {
				sb.WriteByte('\n')
			}
		default:
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// splitAtTopLevelCommas splits s at commas outside angle brackets, so "array<T, 6>" stays whole.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := range len(s) {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// parseField reads the attributes, name and type of one struct member.
func parseField(member string) (parsedField, bool) {
	f := parsedField{location: -1}
	rest := strings.TrimSpace(member)
	for {
		m := attributeRegex.FindStringSubmatch(rest)
		if m == nil {
			break
		}
		switch m[1] {
		case "builtin":
			f.isBuiltin = true
		case "location":
			if loc, err := strconv.Atoi(strings.TrimSpace(m[2])); err == nil {
				f.location = loc
			}
		}
		rest = rest[len(m[0]):]
	}

	name, typeName, ok := strings.Cut(rest, ":")
	if !ok {
		return parsedField{}, false
	}
	f.name, f.typeName = strings.TrimSpace(name), strings.TrimSpace(typeName)
	return f, f.name != "" && f.typeName != ""
}

// parseStructBlocks finds every struct in comment-free WGSL source, in source order.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		ps := parsedStruct{name: m[1]}
		for _, member := range splitAtTopLevelCommas(m[2]) {
			if f, ok := parseField(member); ok {
				ps.fields = append(ps.fields, f)
			}
		}
		structs = append(structs, ps)
	}
	return structs
}

// isVertexInputStruct reports whether every field of ps is a @location input. Vertex outputs
// carry @builtin(position) and are excluded.
func isVertexInputStruct(ps parsedStruct) bool {
	if len(ps.fields) == 0 {
		return false
	}
	for _, f := range ps.fields {
		if f.isBuiltin || f.location < 0 {
			return false
		}
	}
	return true
}

// vertexBufferLayout packs the fields of a vertex input struct back to back.
func vertexBufferLayout(ps parsedStruct, stepMode wgpu.VertexStepMode) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64
	for _, f := range ps.fields {
		format, size, ok := vertexFormat(f.typeName)
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += size
	}
	return wgpu.VertexBufferLayout{ArrayStride: offset, StepMode: stepMode, Attributes: attrs}, true
}

// parseVertexLayouts derives the vertex buffer layouts of a vertex shader. Per-vertex inputs
// come first in source order, then structs named *InstanceInput, so a layout's index is its
// vertex buffer slot. Structs with a type that cannot be a vertex attribute are skipped.
//
// Parameters:
//   - source: the pre-processed WGSL source
//
// Returns:
//   - []wgpu.VertexBufferLayout: layouts indexed by buffer slot
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	var perVertex, perInstance []wgpu.VertexBufferLayout
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		if strings.HasSuffix(ps.name, instanceInputSuffix) {
			if layout, ok := vertexBufferLayout(ps, wgpu.VertexStepModeInstance); ok {
				perInstance = append(perInstance, layout)
			}
		} else if layout, ok := vertexBufferLayout(ps, wgpu.VertexStepModeVertex); ok {
			perVertex = append(perVertex, layout)
		}
	}
	return append(perVertex, perInstance...)
}

// parseBindGroupLayouts collects every resource declaration of a stage, grouped by @group and
// sorted by @binding. Uniform and storage buffers get a MinBindingSize from the laid out type.
//
// Parameters:
//   - source: the pre-processed WGSL source
//   - visibility: the stage applied to every entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
//   - map[int]map[int]string: declared variable names keyed by group then binding
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	cleaned := stripComments(source)
	known := structLayouts(parseStructBlocks(cleaned))

	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)
	for _, m := range resourceDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(m[1])
		bind, _ := strconv.Atoi(m[2])
		typeName := strings.TrimSpace(m[5])

		entry := resourceEntry(uint32(bind), visibility, strings.TrimSpace(m[3]), typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if layout, ok := hostLayout(typeName, known); ok {
				entry.Buffer.MinBindingSize = layout.size
			}
		}
		entries[group] = append(entries[group], entry)

		if names[group] == nil {
			names[group] = make(map[int]string)
		}
		names[group][bind] = m[4]
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for group, list := range entries {
		slices.SortFunc(list, func(a, b wgpu.BindGroupLayoutEntry) int {
			return cmp.Compare(a.Binding, b.Binding)
		})
		out[group] = wgpu.BindGroupLayoutDescriptor{Entries: list}
	}
	return out, names
}

// parseEntryPoint returns the name of the first @vertex or @fragment function, or "".
func parseEntryPoint(source string, shaderType ShaderType) string {
	re, ok := entryPointRegex[shaderType]
	if !ok {
		return ""
	}
	if m := re.FindStringSubmatch(stripComments(source)); m != nil {
		return m[1]
	}
	return ""
}
