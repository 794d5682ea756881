package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-voxel/engine/renderer/pipeline"
)

var (
	// ErrPipelineNotFound is returned when a draw names a pipeline that was never registered.
	ErrPipelineNotFound = errors.New("render pipeline not registered")

	// ErrMissingGroup is returned when a draw does not supply an initialized bind group for a role of the pipeline's layout.
	ErrMissingGroup = errors.New("bind group missing for draw")

	// ErrMissingBuffers is returned when a draw's mesh provider has no vertex, index or instance buffer.
	ErrMissingBuffers = errors.New("mesh buffers missing for draw")
)

// DrawParams describes one indexed, instanced draw.
//
// Groups maps every role of the pipeline's binding.Layout to the provider holding its bind
// group. The renderer resolves slots through the layout, so callers never pass group indices.
type DrawParams struct {
	// PipelineKey selects the registered pipeline.
	PipelineKey string
	// Mesh holds the vertex buffer (slot 0), the instance buffer (slot 1) and the index buffer.
	Mesh bind_group_provider.BindGroupProvider
	// Groups holds one provider per role of the pipeline's layout.
	Groups map[binding.Role]bind_group_provider.BindGroupProvider
	// InstanceCount overrides the number of instances drawn. Zero draws every instance in the mesh's instance buffer.
	InstanceCount uint32
}

// bindCommand is a single SetBindGroup issued before a draw.
type bindCommand struct {
	slot     uint32
	role     binding.Role
	provider bind_group_provider.BindGroupProvider
}

// drawPlan is the resolved list of render pass commands for one DrawParams.
type drawPlan struct {
	setPipeline   bool
	binds         []bindCommand
	indexCount    uint32
	instanceCount uint32
}

// bindOrder is the order roles are bound in, matching the binding.Protocol state sequence.
var bindOrder = [...]binding.Role{
	binding.RoleCamera,
	binding.RoleTexture,
	binding.RoleChunkPosition,
	binding.RoleLight,
}

// passState tracks what is bound on the current render pass so unchanged groups are not rebound
// between draws. It is only touched from the frame submission path.
type passState struct {
	pipelineKey string
	protocol    *binding.Protocol
	bound       map[uint32]bind_group_provider.BindGroupProvider
}

func newPassState() *passState {
	return &passState{
		bound: make(map[uint32]bind_group_provider.BindGroupProvider),
	}
}

// reset forgets everything bound. Called when a render pass begins.
func (s *passState) reset() {
	s.pipelineKey = ""
	s.protocol = nil
	clear(s.bound)
}

// plan resolves the commands needed to issue a draw on top of what is already bound.
//
// A group is rebound when its provider differs from the one bound at its slot, or when a group
// earlier in the bind order was rebound (the protocol drops later groups in that case). On error
// the state is reset so the next draw rebinds everything.
//
// Parameters:
//   - p: the pipeline to draw with
//   - params: the draw parameters
//
// Returns:
//   - drawPlan: the commands to encode; a zero index or instance count means nothing is drawn
//   - error: ErrMissingBuffers, ErrMissingGroup, or a binding protocol error
func (s *passState) plan(p pipeline.Pipeline, params DrawParams) (drawPlan, error) {
	var out drawPlan

	m := params.Mesh
	if m == nil || m.VertexBuffer() == nil || m.IndexBuffer() == nil || m.InstanceBuffer() == nil {
		return out, fmt.Errorf("%w: pipeline %s", ErrMissingBuffers, p.PipelineKey())
	}

	out.indexCount = uint32(m.IndexCount())
	out.instanceCount = params.InstanceCount
	if out.instanceCount == 0 {
		out.instanceCount = uint32(m.InstanceCount())
	}
	// Nothing to draw: leave the bind state untouched so it keeps matching the render pass.
	if out.indexCount == 0 || out.instanceCount == 0 {
		return out, nil
	}

	layout := p.Layout()
	if s.protocol == nil || s.pipelineKey != p.PipelineKey() {
		s.reset()
		s.pipelineKey = p.PipelineKey()
		s.protocol = binding.NewProtocol(layout)
		out.setPipeline = true
	}

	dirty := false
	for _, role := range bindOrder {
		if !layout.Has(role) {
			continue
		}
		provider := params.Groups[role]
		if provider == nil || !provider.Ready() {
			s.reset()
			return drawPlan{}, fmt.Errorf("%w: %s needs a %s group", ErrMissingGroup, layout.Name, role)
		}

		slot, err := layout.Slot(role)
		if err != nil {
			s.reset()
			return drawPlan{}, err
		}
		if !dirty && s.bound[slot] == provider {
			continue
		}

		if _, err := s.protocol.Bind(role); err != nil {
			s.reset()
			return drawPlan{}, err
		}
		s.bound[slot] = provider
		out.binds = append(out.binds, bindCommand{slot: slot, role: role, provider: provider})
		if role != binding.RoleChunkPosition && role != binding.RoleLight {
			dirty = true
		}
	}

	if err := s.protocol.BindBuffers(); err != nil {
		s.reset()
		return drawPlan{}, err
	}
	if err := s.protocol.CheckDraw(); err != nil {
		s.reset()
		return drawPlan{}, err
	}

	return out, nil
}
