package binding

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func uniformEntry(binding uint32, stage wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: stage}
	e.Buffer.Type = wgpu.BufferBindingTypeUniform
	e.Buffer.MinBindingSize = size
	return e
}

func textureEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: wgpu.ShaderStageFragment}
	e.Texture.SampleType = wgpu.TextureSampleTypeFloat
	e.Texture.ViewDimension = wgpu.TextureViewDimension2D
	return e
}

func samplerEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: wgpu.ShaderStageFragment}
	e.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	return e
}

func TestSlotsFollowLayout(t *testing.T) {
	tests := []struct {
		layout Layout
		role   Role
		want   uint32
	}{
		{ChunkLayout(), RoleCamera, 0},
		{ChunkLayout(), RoleTexture, 1},
		{ChunkLayout(), RoleChunkPosition, 2},
		{MeshLayout(), RoleTexture, 0},
		{MeshLayout(), RoleCamera, 1},
		{MeshLayout(), RoleLight, 2},
	}
	for _, tt := range tests {
		got, err := tt.layout.Slot(tt.role)
		if err != nil {
			t.Fatalf("%s %s: %v", tt.layout.Name, tt.role, err)
		}
		if got != tt.want {
			t.Errorf("%s %s slot: got %d, want %d", tt.layout.Name, tt.role, got, tt.want)
		}
	}

	if _, err := ChunkLayout().Slot(RoleLight); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("chunk light slot: got %v, want ErrUnknownRole", err)
	}
}

func TestBuiltinLayoutsAreConsistent(t *testing.T) {
	for _, l := range []Layout{ChunkLayout(), MeshLayout()} {
		if err := l.Check(); err != nil {
			t.Errorf("%s: %v", l.Name, err)
		}
	}
}

func TestCameraGroupIsSharedAcrossPipelines(t *testing.T) {
	chunk := ChunkLayout().Descriptors()[0]
	mesh := MeshLayout().Descriptors()[1]
	if len(chunk.Entries) != 1 || len(mesh.Entries) != 1 {
		t.Fatalf("camera entries: got %d and %d, want 1", len(chunk.Entries), len(mesh.Entries))
	}
	c, m := chunk.Entries[0], mesh.Entries[0]
	if c.Binding != m.Binding || c.Visibility != m.Visibility ||
		c.Buffer.Type != m.Buffer.Type || c.Buffer.MinBindingSize != m.Buffer.MinBindingSize {
		t.Fatalf("camera entries differ: %+v vs %+v", c, m)
	}
}

func TestValidateAcceptsMatchingShader(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex, 96)}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex, 16)}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		1: {Entries: []wgpu.BindGroupLayoutEntry{textureEntry(0), samplerEntry(1)}},
	}
	l := ChunkLayout()
	if err := l.Validate(wgpu.ShaderStageVertex, vertex); err != nil {
		t.Fatalf("vertex: %v", err)
	}
	if err := l.Validate(wgpu.ShaderStageFragment, fragment); err != nil {
		t.Fatalf("fragment: %v", err)
	}
}

func TestValidateRejectsMismatches(t *testing.T) {
	tests := []struct {
		name   string
		stage  wgpu.ShaderStage
		groups map[int]wgpu.BindGroupLayoutDescriptor
	}{
		{
			name:  "camera in the mesh pipeline's texture slot",
			stage: wgpu.ShaderStageVertex,
			groups: map[int]wgpu.BindGroupLayoutDescriptor{
				0: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex, 96)}},
			},
		},
		{
			name:  "group beyond the layout",
			stage: wgpu.ShaderStageVertex,
			groups: map[int]wgpu.BindGroupLayoutDescriptor{
				3: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex, 16)}},
			},
		},
		{
			name:  "wrong uniform size",
			stage: wgpu.ShaderStageFragment,
			groups: map[int]wgpu.BindGroupLayoutDescriptor{
				2: {Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageFragment, 16)}},
			},
		},
		{
			name:  "missing binding",
			stage: wgpu.ShaderStageFragment,
			groups: map[int]wgpu.BindGroupLayoutDescriptor{
				0: {Entries: []wgpu.BindGroupLayoutEntry{textureEntry(0), samplerEntry(4)}},
			},
		},
		{
			name:  "texture used from the vertex stage",
			stage: wgpu.ShaderStageVertex,
			groups: map[int]wgpu.BindGroupLayoutDescriptor{
				0: {Entries: []wgpu.BindGroupLayoutEntry{textureEntry(0)}},
			},
		},
	}
	for _, tt := range tests {
		err := MeshLayout().Validate(tt.stage, tt.groups)
		if !errors.Is(err, ErrLayoutMismatch) {
			t.Errorf("%s: got %v, want ErrLayoutMismatch", tt.name, err)
		}
	}
}

func TestCheckRejectsBrokenLayouts(t *testing.T) {
	cam := cameraEntries()
	tests := []struct {
		name   string
		layout Layout
	}{
		{"duplicate role", Layout{Name: "dup", Groups: []Group{
			{Role: RoleCamera, Index: 0, Entries: cam},
			{Role: RoleCamera, Index: 1, Entries: cam},
		}}},
		{"gap in indices", Layout{Name: "gap", Groups: []Group{
			{Role: RoleCamera, Index: 0, Entries: cam},
			{Role: RoleLight, Index: 2, Entries: cam},
		}}},
		{"uniform without size", Layout{Name: "size", Groups: []Group{
			{Role: RoleCamera, Index: 0, Entries: []Entry{{Binding: 0, Kind: KindUniform, Visibility: wgpu.ShaderStageVertex}}},
		}}},
		{"empty group", Layout{Name: "empty", Groups: []Group{{Role: RoleCamera, Index: 0}}}},
	}
	for _, tt := range tests {
		if err := tt.layout.Check(); !errors.Is(err, ErrLayoutMismatch) {
			t.Errorf("%s: got %v, want ErrLayoutMismatch", tt.name, err)
		}
	}
}
