package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-voxel/engine/chunk"
	"github.com/Carmen-Shannon/oxy-voxel/engine/mesh"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/binding"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestChunkVertexShaderLayouts(t *testing.T) {
	s := NewShaderFromSource("chunk_vs", ShaderTypeVertex, chunk.VertexShaderSource)

	if s.EntryPoint() != "vs_main" {
		t.Fatalf("entry point: got %q", s.EntryPoint())
	}
	layouts := s.VertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("vertex layouts: got %d, want 2", len(layouts))
	}

	vertex := layouts[0]
	if vertex.StepMode != wgpu.VertexStepModeVertex || vertex.ArrayStride != 12 {
		t.Fatalf("slot 0: step %v stride %d, want per-vertex stride 12", vertex.StepMode, vertex.ArrayStride)
	}
	if vertex.Attributes[0].ShaderLocation != 0 || vertex.Attributes[0].Format != wgpu.VertexFormatUint32 {
		t.Fatalf("slot 0 location 0: got %+v, want u32", vertex.Attributes[0])
	}
	if vertex.Attributes[1].ShaderLocation != 1 || vertex.Attributes[1].Format != wgpu.VertexFormatFloat32x2 {
		t.Fatalf("slot 0 location 1: got %+v, want vec2<f32>", vertex.Attributes[1])
	}

	inst := layouts[1]
	if inst.StepMode != wgpu.VertexStepModeInstance || inst.ArrayStride != 64 {
		t.Fatalf("slot 1: step %v stride %d, want per-instance stride 64", inst.StepMode, inst.ArrayStride)
	}
	for i, a := range inst.Attributes {
		if a.ShaderLocation != uint32(5+i) || a.Offset != uint64(16*i) {
			t.Fatalf("instance attribute %d: got location %d offset %d", i, a.ShaderLocation, a.Offset)
		}
	}

	groups := s.BindGroupLayoutDescriptors()
	if got := groups[0].Entries[0].Buffer.MinBindingSize; got != binding.CameraUniformSize {
		t.Fatalf("camera size: got %d, want %d", got, binding.CameraUniformSize)
	}
	if got := groups[2].Entries[0].Buffer.MinBindingSize; got != binding.ChunkPositionUniformSize {
		t.Fatalf("chunk position size: got %d, want %d", got, binding.ChunkPositionUniformSize)
	}
	if _, ok := groups[1]; ok {
		t.Fatal("chunk vertex stage should not declare the texture group")
	}
	if err := binding.ChunkLayout().Validate(s.ShaderType().Stage(), groups); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestChunkFragmentShaderDeclarations(t *testing.T) {
	s := NewShaderFromSource("chunk_fs", ShaderTypeFragment, chunk.FragmentShaderSource)

	if s.EntryPoint() != "fs_main" {
		t.Fatalf("entry point: got %q", s.EntryPoint())
	}
	if len(s.VertexLayouts()) != 0 {
		t.Fatal("fragment shaders have no vertex layouts")
	}
	group := s.BindGroupLayoutDescriptor(1)
	if len(group.Entries) != 2 {
		t.Fatalf("texture group entries: got %d, want 2", len(group.Entries))
	}
	if group.Entries[0].Texture.SampleType != wgpu.TextureSampleTypeFloat {
		t.Fatal("binding 0 should be a float texture")
	}
	if group.Entries[1].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Fatal("binding 1 should be a filtering sampler")
	}
	if s.BindGroupVarName(1, 0) != "t_diffuse" {
		t.Fatalf("var name: got %q", s.BindGroupVarName(1, 0))
	}
	if b, ok := s.BindGroupFromVarName(1, "s_diffuse"); !ok || b != 1 {
		t.Fatalf("s_diffuse: got %d, %v", b, ok)
	}

	decls := s.Declarations()
	if len(decls) != 2 {
		t.Fatalf("declarations: got %d, want 2", len(decls))
	}
	for _, d := range decls {
		if role, ok := d.Role(); !ok || role != binding.RoleTexture {
			t.Fatalf("declaration on line %d: got role %v (%v), want texture", d.Line, role, ok)
		}
	}
	if err := binding.ChunkLayout().Validate(s.ShaderType().Stage(), s.BindGroupLayoutDescriptors()); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestMeshShaderLayouts(t *testing.T) {
	vs := NewShaderFromSource("mesh_vs", ShaderTypeVertex, mesh.VertexShaderSource)
	fs := NewShaderFromSource("mesh_fs", ShaderTypeFragment, mesh.FragmentShaderSource)

	layouts := vs.VertexLayouts()
	if len(layouts) != 2 {
		t.Fatalf("vertex layouts: got %d, want 2", len(layouts))
	}
	if layouts[0].ArrayStride != 56 || len(layouts[0].Attributes) != 5 {
		t.Fatalf("slot 0: stride %d with %d attributes, want 56 with 5", layouts[0].ArrayStride, len(layouts[0].Attributes))
	}
	for i, a := range layouts[0].Attributes {
		if a.ShaderLocation != uint32(i) {
			t.Fatalf("vertex attribute %d: location %d", i, a.ShaderLocation)
		}
	}
	if layouts[1].StepMode != wgpu.VertexStepModeInstance || layouts[1].ArrayStride != 100 {
		t.Fatalf("slot 1: step %v stride %d, want per-instance stride 100", layouts[1].StepMode, layouts[1].ArrayStride)
	}
	if last := layouts[1].Attributes[len(layouts[1].Attributes)-1]; last.ShaderLocation != 11 {
		t.Fatalf("last instance attribute location: got %d, want 11", last.ShaderLocation)
	}

	if got := fs.BindGroupLayoutDescriptor(2).Entries[0].Buffer.MinBindingSize; got != binding.LightUniformSize {
		t.Fatalf("light size: got %d, want %d", got, binding.LightUniformSize)
	}
	if got := len(fs.BindGroupLayoutDescriptor(0).Entries); got != 4 {
		t.Fatalf("mesh texture group entries: got %d, want 4", got)
	}

	layout := binding.MeshLayout()
	for _, s := range []Shader{vs, fs} {
		if err := layout.Validate(s.ShaderType().Stage(), s.BindGroupLayoutDescriptors()); err != nil {
			t.Fatalf("%s: %v", s.Key(), err)
		}
	}
}

func TestShaderRejectsWrongLayout(t *testing.T) {
	fs := NewShaderFromSource("mesh_fs", ShaderTypeFragment, mesh.FragmentShaderSource)
	err := binding.ChunkLayout().Validate(fs.ShaderType().Stage(), fs.BindGroupLayoutDescriptors())
	if err == nil {
		t.Fatal("mesh fragment shader validated against the chunk layout")
	}
}

func TestParseShaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		typ    ShaderType
		source string
		want   string
	}{
		{"no entry point", ShaderTypeVertex, "struct A { x: f32, };", "entry point"},
		{"wrong stage", ShaderTypeFragment, "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }", "entry point"},
		{"bad annotation", ShaderTypeVertex, "//@oxy:include nothing\n@vertex fn vs_main() {}", "unknown struct type"},
	}
	for _, tt := range tests {
		_, err := ParseShader(tt.name, tt.typ, tt.source)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: got %v, want error containing %q", tt.name, err, tt.want)
		}
	}
}

func TestNewShaderFromSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a shader without an entry point")
		}
	}()
	NewShaderFromSource("broken", ShaderTypeFragment, "")
}

func TestShaderTypeStage(t *testing.T) {
	if ShaderTypeVertex.Stage() != wgpu.ShaderStageVertex || ShaderTypeFragment.Stage() != wgpu.ShaderStageFragment {
		t.Fatal("stage flags")
	}
	if ShaderType(9).Stage() != wgpu.ShaderStageNone || ShaderType(9).String() != "ShaderType(9)" {
		t.Fatal("unknown shader type")
	}
}
