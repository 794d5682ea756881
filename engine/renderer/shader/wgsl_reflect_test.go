package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestHostLayout(t *testing.T) {
	known := map[string]wgslTypeLayout{"Plane": {16, 16}}
	tests := []struct {
		typeName string
		want     wgslTypeLayout
	}{
		{"f32", wgslTypeLayout{4, 4}},
		{"bool", wgslTypeLayout{4, 4}},
		{"vec2f", wgslTypeLayout{8, 8}},
		{"vec3<f32>", wgslTypeLayout{12, 16}},
		{"vec4u", wgslTypeLayout{16, 16}},
		{"vec2<f16>", wgslTypeLayout{4, 4}},
		{"mat4x4<f32>", wgslTypeLayout{64, 16}},
		{"mat3x3f", wgslTypeLayout{48, 16}},
		{"mat2x2<f32>", wgslTypeLayout{16, 8}},
		{"array<vec3<f32>, 4>", wgslTypeLayout{64, 16}},
		{"array<Plane, 6>", wgslTypeLayout{96, 16}},
		{"array<f32>", wgslTypeLayout{4, 4}},
	}
	for _, tt := range tests {
		got, ok := hostLayout(tt.typeName, known)
		if !ok || got != tt.want {
			t.Errorf("%s: got %+v (%v), want %+v", tt.typeName, got, ok, tt.want)
		}
	}

	for _, bad := range []string{"vec5f", "vec3<bool>", "mat4x4<f16>", "array<Unknown, 2>", "Missing"} {
		if _, ok := hostLayout(bad, known); ok {
			t.Errorf("%s: expected no layout", bad)
		}
	}
}

func TestStructLayoutsResolveNestedStructsInAnyOrder(t *testing.T) {
	src := `
struct Outer {
    inner: Inner,
    scale: f32,
};
struct Inner {
    position: vec3<f32>,
    radius: f32,
    color: vec3<f32>,
    _pad: f32,
};
`
	known := structLayouts(parseStructBlocks(src))
	if got := known["Inner"]; got != (wgslTypeLayout{32, 16}) {
		t.Fatalf("Inner: got %+v, want 32/16", got)
	}
	if got := known["Outer"]; got != (wgslTypeLayout{48, 16}) {
		t.Fatalf("Outer: got %+v, want 48/16", got)
	}
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* block /* nested */ still */ c\n// last"
	got := stripComments(src)
	if strings.Contains(got, "line") || strings.Contains(got, "block") || strings.Contains(got, "still") || strings.Contains(got, "last") {
		t.Fatalf("comments survived: %q", got)
	}
	if !strings.Contains(got, "a ") || !strings.Contains(got, "b ") || !strings.Contains(got, " c") {
		t.Fatalf("code lost: %q", got)
	}
}

func TestParseFieldAttributes(t *testing.T) {
	f, ok := parseField(" @location(9) @interpolate(flat) normal_matrix_0: vec3<f32>")
	if !ok || f.location != 9 || f.isBuiltin || f.name != "normal_matrix_0" || f.typeName != "vec3<f32>" {
		t.Fatalf("location field: got %+v (%v)", f, ok)
	}
	f, ok = parseField("@builtin(position) clip_position: vec4<f32>")
	if !ok || !f.isBuiltin || f.location != -1 {
		t.Fatalf("builtin field: got %+v (%v)", f, ok)
	}
	if _, ok := parseField("  \n"); ok {
		t.Fatal("trailing comma segment should not parse")
	}
}

func TestParseVertexLayoutsOrdersInstanceInputsLast(t *testing.T) {
	src := `
struct InstanceInput {
    @location(5) offset: vec3<f32>,
};
struct VertexInput {
    @location(0) packed: u32,
    @location(1) uv: vec2<f32>,
};
struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};
`
	layouts := parseVertexLayouts(src)
	if len(layouts) != 2 {
		t.Fatalf("layouts: got %d, want 2", len(layouts))
	}
	if layouts[0].StepMode != wgpu.VertexStepModeVertex || layouts[0].ArrayStride != 12 {
		t.Fatalf("slot 0: got %v stride %d", layouts[0].StepMode, layouts[0].ArrayStride)
	}
	if layouts[0].Attributes[1].Offset != 4 {
		t.Fatalf("uv offset: got %d, want 4", layouts[0].Attributes[1].Offset)
	}
	if layouts[1].StepMode != wgpu.VertexStepModeInstance || layouts[1].Attributes[0].ShaderLocation != 5 {
		t.Fatalf("slot 1: got %+v", layouts[1])
	}
}

func TestParseBindGroupLayouts(t *testing.T) {
	src := `
struct Light { position: vec3<f32>, radius: f32, color: vec3<f32>, _pad: f32, };
@group(0) @binding(1) var s_diffuse: sampler;
@group(0) @binding(0) var t_diffuse: texture_2d<f32>;
@group(2) @binding(0) var<uniform> light: Light;
`
	groups, names := parseBindGroupLayouts(src, wgpu.ShaderStageFragment)

	tex := groups[0].Entries
	if len(tex) != 2 || tex[0].Binding != 0 || tex[1].Binding != 1 {
		t.Fatalf("group 0 not sorted by binding: %+v", tex)
	}
	if tex[0].Texture.SampleType != wgpu.TextureSampleTypeFloat || tex[0].Texture.ViewDimension != wgpu.TextureViewDimension2D {
		t.Fatalf("texture entry: got %+v", tex[0].Texture)
	}
	if tex[1].Sampler.Type != wgpu.SamplerBindingTypeFiltering {
		t.Fatalf("sampler entry: got %+v", tex[1].Sampler)
	}

	light := groups[2].Entries[0]
	if light.Buffer.Type != wgpu.BufferBindingTypeUniform || light.Buffer.MinBindingSize != 32 {
		t.Fatalf("light entry: got %+v", light.Buffer)
	}
	if light.Visibility != wgpu.ShaderStageFragment {
		t.Fatalf("visibility: got %v", light.Visibility)
	}
	if names[2][0] != "light" || names[0][1] != "s_diffuse" {
		t.Fatalf("names: got %v", names)
	}
}

func TestParseEntryPointIgnoresComments(t *testing.T) {
	src := "// @vertex fn commented() {}\n@vertex\nfn vs_main() {}\n@fragment fn fs_main() {}"
	if got := parseEntryPoint(src, ShaderTypeVertex); got != "vs_main" {
		t.Fatalf("vertex: got %q", got)
	}
	if got := parseEntryPoint(src, ShaderTypeFragment); got != "fs_main" {
		t.Fatalf("fragment: got %q", got)
	}
}
