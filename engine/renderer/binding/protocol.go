package binding

import "fmt"

// State is a step of the bind sequence that precedes a draw.
type State int

const (
	StateUnbound State = iota
	StateCameraBound
	StateTextureBound
	StateChunkOrLightBound
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateCameraBound:
		return "camera_bound"
	case StateTextureBound:
		return "texture_bound"
	case StateChunkOrLightBound:
		return "chunk_or_light_bound"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Protocol tracks the bind sequence of one pipeline inside a render pass:
//
//	Unbound -> CameraBound -> (TextureBound) -> ChunkOrLightBound -> Ready
//
// The texture step is required only when the layout has a texture group. Ready is reached
// once vertex and instance buffers are set, and is re-entered by rebinding the per-draw
// group (chunk position or light) or the buffers, so many chunks can share one camera and
// texture bind. Rebinding the texture drops back to TextureBound, rebinding the camera
// drops back to CameraBound.
//
// A Protocol is not safe for concurrent use; it belongs to the single submission path.
type Protocol struct {
	layout Layout
	state  State
	bound  map[Role]bool
}

// NewProtocol creates a Protocol for a layout in the Unbound state.
//
// Parameters:
//   - layout: the pipeline's binding layout
//
// Returns:
//   - *Protocol: the protocol
func NewProtocol(layout Layout) *Protocol {
	return &Protocol{
		layout: layout,
		bound:  make(map[Role]bool, len(layout.Groups)),
	}
}

// Layout returns the layout the protocol enforces.
func (p *Protocol) Layout() Layout {
	return p.layout
}

// State returns the current state.
func (p *Protocol) State() State {
	return p.state
}

// Reset returns to Unbound. Called when a pass begins or the pipeline changes.
func (p *Protocol) Reset() {
	p.state = StateUnbound
	clear(p.bound)
}

// Bind records that the group for a role is being bound and returns its slot.
//
// Parameters:
//   - role: the role being bound
//
// Returns:
//   - uint32: the group index to bind at
//   - error: ErrUnknownRole or ErrOutOfOrder; the state is unchanged on error
func (p *Protocol) Bind(role Role) (uint32, error) {
	slot, err := p.layout.Slot(role)
	if err != nil {
		return 0, err
	}

	switch {
	case role == RoleCamera:
		clear(p.bound)
		p.state = StateCameraBound

	case role == RoleTexture:
		if p.state < StateCameraBound {
			return 0, fmt.Errorf("%w: %s texture bound before camera", ErrOutOfOrder, p.layout.Name)
		}
		for r := range p.bound {
			if r.perDraw() {
				delete(p.bound, r)
			}
		}
		p.state = StateTextureBound

	case role.perDraw():
		if p.state < StateCameraBound {
			return 0, fmt.Errorf("%w: %s %s bound before camera", ErrOutOfOrder, p.layout.Name, role)
		}
		if p.layout.Has(RoleTexture) && !p.bound[RoleTexture] {
			return 0, fmt.Errorf("%w: %s %s bound before texture", ErrOutOfOrder, p.layout.Name, role)
		}
		if p.state != StateReady {
			p.state = StateChunkOrLightBound
		}

	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	p.bound[role] = true
	return slot, nil
}

// BindBuffers records that vertex, instance and index buffers are set, completing the sequence.
//
// Returns:
//   - error: ErrOutOfOrder if a bind group is still missing
func (p *Protocol) BindBuffers() error {
	if p.state < StateChunkOrLightBound {
		return fmt.Errorf("%w: %s buffers set in state %s", ErrOutOfOrder, p.layout.Name, p.state)
	}
	for _, g := range p.layout.Groups {
		if !p.bound[g.Role] {
			return fmt.Errorf("%w: %s group %d (%s) not bound", ErrOutOfOrder, p.layout.Name, g.Index, g.Role)
		}
	}
	p.state = StateReady
	return nil
}

// CheckDraw reports whether a draw may be issued.
//
// Returns:
//   - error: ErrNotReady unless the state is Ready
func (p *Protocol) CheckDraw() error {
	if p.state != StateReady {
		return fmt.Errorf("%w: %s is %s", ErrNotReady, p.layout.Name, p.state)
	}
	return nil
}
