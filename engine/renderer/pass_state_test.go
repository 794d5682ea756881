package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

func chunkPipeline() pipeline.Pipeline {
	return pipeline.NewChunkPipeline()
}

func meshPipeline() pipeline.Pipeline {
	return pipeline.NewMeshPipeline()
}

// readyGroup returns a provider whose bind group has been "created". The zero handles are
// never passed to the GPU in these tests.
func readyGroup(label string) bind_group_provider.BindGroupProvider {
	p := bind_group_provider.NewBindGroupProvider(label)
	p.SetBindGroup(&wgpu.BindGroup{})
	return p
}

func drawable(label string, indices, instances int) bind_group_provider.BindGroupProvider {
	p := readyGroup(label)
	p.SetVertexBuffer(&wgpu.Buffer{})
	p.SetIndexBuffer(&wgpu.Buffer{})
	p.SetIndexCount(indices)
	p.SetInstanceBuffer(&wgpu.Buffer{}, instances)
	return p
}

func slots(plan drawPlan) []uint32 {
	out := make([]uint32, 0, len(plan.binds))
	for _, b := range plan.binds {
		out = append(out, b.slot)
	}
	return out
}

func equalSlots(got, want []uint32) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestPlanChunkDrawsShareCameraAndTexture(t *testing.T) {
	s := newPassState()
	p := chunkPipeline()
	cam, atlas := readyGroup("camera"), readyGroup("atlas")

	c0 := drawable("chunk_0", 36, 1)
	c1 := drawable("chunk_1", 72, 1)

	first, err := s.plan(p, DrawParams{PipelineKey: "chunk", Mesh: c0, Groups: map[binding.Role]bind_group_provider.BindGroupProvider{
		binding.RoleCamera: cam, binding.RoleTexture: atlas, binding.RoleChunkPosition: c0,
	}})
	if err != nil {
		t.Fatalf("first draw: %v", err)
	}
	if !first.setPipeline {
		t.Fatal("first draw should set the pipeline")
	}
	if got := slots(first); !equalSlots(got, []uint32{0, 1, 2}) {
		t.Fatalf("first draw slots: got %v, want [0 1 2]", got)
	}
	if first.indexCount != 36 || first.instanceCount != 1 {
		t.Fatalf("first draw counts: got %d/%d, want 36/1", first.indexCount, first.instanceCount)
	}

	second, err := s.plan(p, DrawParams{PipelineKey: "chunk", Mesh: c1, Groups: map[binding.Role]bind_group_provider.BindGroupProvider{
		binding.RoleCamera: cam, binding.RoleTexture: atlas, binding.RoleChunkPosition: c1,
	}})
	if err != nil {
		t.Fatalf("second draw: %v", err)
	}
	if second.setPipeline {
		t.Fatal("second draw should keep the pipeline")
	}
	if got := slots(second); !equalSlots(got, []uint32{2}) {
		t.Fatalf("second draw slots: got %v, want only the chunk position [2]", got)
	}
	if s.protocol.State() != binding.StateReady {
		t.Fatalf("state: got %s, want ready", s.protocol.State())
	}
}

func TestPlanTextureChangeRebindsPerDrawGroup(t *testing.T) {
	s := newPassState()
	p := chunkPipeline()
	cam, c0 := readyGroup("camera"), drawable("chunk_0", 6, 1)

	groups := map[binding.Role]bind_group_provider.BindGroupProvider{
		binding.RoleCamera: cam, binding.RoleTexture: readyGroup("grass"), binding.RoleChunkPosition: c0,
	}
	if _, err := s.plan(p, DrawParams{Mesh: c0, Groups: groups}); err != nil {
		t.Fatalf("first draw: %v", err)
	}

	groups[binding.RoleTexture] = readyGroup("stone")
	plan, err := s.plan(p, DrawParams{Mesh: c0, Groups: groups})
	if err != nil {
		t.Fatalf("texture change: %v", err)
	}
	if got := slots(plan); !equalSlots(got, []uint32{1, 2}) {
		t.Fatalf("texture change slots: got %v, want [1 2]", got)
	}
}

func TestPlanMeshLayoutUsesItsOwnSlots(t *testing.T) {
	s := newPassState()
	p := meshPipeline()
	cube := drawable("cube", 36, 3)

	plan, err := s.plan(p, DrawParams{Mesh: cube, InstanceCount: 2, Groups: map[binding.Role]bind_group_provider.BindGroupProvider{
		binding.RoleCamera: readyGroup("camera"), binding.RoleTexture: readyGroup("crate"), binding.RoleLight: readyGroup("light"),
	}})
	if err != nil {
		t.Fatalf("mesh draw: %v", err)
	}
	want := []bindCommand{
		{slot: 1, role: binding.RoleCamera},
		{slot: 0, role: binding.RoleTexture},
		{slot: 2, role: binding.RoleLight},
	}
	if len(plan.binds) != len(want) {
		t.Fatalf("binds: got %d, want %d", len(plan.binds), len(want))
	}
	for i, w := range want {
		if plan.binds[i].slot != w.slot || plan.binds[i].role != w.role {
			t.Errorf("bind %d: got %s@%d, want %s@%d", i, plan.binds[i].role, plan.binds[i].slot, w.role, w.slot)
		}
	}
	if plan.instanceCount != 2 {
		t.Fatalf("instance override: got %d, want 2", plan.instanceCount)
	}
}

func TestPlanPipelineSwitchRebindsEverything(t *testing.T) {
	s := newPassState()
	cam, c0, cube := readyGroup("camera"), drawable("chunk_0", 6, 1), drawable("cube", 36, 1)

	chunkGroups := map[binding.Role]bind_group_provider.BindGroupProvider{
		binding.RoleCamera: cam, binding.RoleTexture: readyGroup("atlas"), binding.RoleChunkPosition: c0,
	}
	if _, err := s.plan(chunkPipeline(), DrawParams{Mesh: c0, Groups: chunkGroups}); err != nil {
		t.Fatalf("chunk draw: %v", err)
	}
	plan, err := s.plan(meshPipeline(), DrawParams{Mesh: cube, Groups: map[binding.Role]bind_group_provider.BindGroupProvider{
		binding.RoleCamera: cam, binding.RoleTexture: readyGroup("crate"), binding.RoleLight: readyGroup("light"),
	}})
	if err != nil {
		t.Fatalf("mesh draw: %v", err)
	}
	if !plan.setPipeline || len(plan.binds) != 3 {
		t.Fatalf("pipeline switch: setPipeline %v with %d binds, want true with 3", plan.setPipeline, len(plan.binds))
	}
}

func TestPlanErrors(t *testing.T) {
	cam, atlas := readyGroup("camera"), readyGroup("atlas")
	c0 := drawable("chunk_0", 6, 1)

	tests := []struct {
		name   string
		params DrawParams
		want   error
	}{
		{
			name:   "no mesh",
			params: DrawParams{Groups: map[binding.Role]bind_group_provider.BindGroupProvider{binding.RoleCamera: cam}},
			want:   ErrMissingBuffers,
		},
		{
			name:   "mesh without buffers",
			params: DrawParams{Mesh: readyGroup("empty")},
			want:   ErrMissingBuffers,
		},
		{
			name: "chunk position missing",
			params: DrawParams{Mesh: c0, Groups: map[binding.Role]bind_group_provider.BindGroupProvider{
				binding.RoleCamera: cam, binding.RoleTexture: atlas,
			}},
			want: ErrMissingGroup,
		},
		{
			name: "texture not initialized",
			params: DrawParams{Mesh: c0, Groups: map[binding.Role]bind_group_provider.BindGroupProvider{
				binding.RoleCamera: cam, binding.RoleTexture: bind_group_provider.NewBindGroupProvider("atlas"), binding.RoleChunkPosition: c0,
			}},
			want: ErrMissingGroup,
		},
	}
	for _, tt := range tests {
		s := newPassState()
		if _, err := s.plan(chunkPipeline(), tt.params); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
		if s.protocol != nil || len(s.bound) != 0 {
			t.Errorf("%s: state not reset after error", tt.name)
		}
	}
}

func TestPassStateResetForgetsBindings(t *testing.T) {
	s := newPassState()
	p := chunkPipeline()
	c0 := drawable("chunk_0", 6, 1)
	groups := map[binding.Role]bind_group_provider.BindGroupProvider{
		binding.RoleCamera: readyGroup("camera"), binding.RoleTexture: readyGroup("atlas"), binding.RoleChunkPosition: c0,
	}
	if _, err := s.plan(p, DrawParams{Mesh: c0, Groups: groups}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	s.reset()
	plan, err := s.plan(p, DrawParams{Mesh: c0, Groups: groups})
	if err != nil {
		t.Fatalf("draw after reset: %v", err)
	}
	if !plan.setPipeline || len(plan.binds) != 3 {
		t.Fatalf("after reset: setPipeline %v with %d binds, want true with 3", plan.setPipeline, len(plan.binds))
	}
}

func TestPlanEmptyMeshLeavesStateAlone(t *testing.T) {
	s := newPassState()
	empty := drawable("chunk_air", 0, 1)

	plan, err := s.plan(chunkPipeline(), DrawParams{Mesh: empty})
	if err != nil {
		t.Fatalf("empty mesh: %v", err)
	}
	if plan.indexCount != 0 || len(plan.binds) != 0 || plan.setPipeline {
		t.Fatalf("empty mesh plan: %+v, want nothing to encode", plan)
	}
	if s.protocol != nil {
		t.Fatal("empty mesh should not start a protocol")
	}
}
