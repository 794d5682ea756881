// Package binding describes which GPU resources a render pipeline expects in which bind group
// slot, and enforces the order in which those groups are bound before a draw.
//
// Each pipeline carries its own Layout. Host code never hardcodes a group index: it asks the
// Layout for the slot of a Role, and the Layout is checked against the parsed WGSL when the
// pipeline is built.
package binding

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrLayoutMismatch is returned when a Layout disagrees with a shader's declared bindings
	// or is internally inconsistent.
	ErrLayoutMismatch = errors.New("binding layout mismatch")

	// ErrUnknownRole is returned when a Role is not part of the active Layout.
	ErrUnknownRole = errors.New("role not in binding layout")

	// ErrOutOfOrder is returned when a group is bound before the groups it depends on.
	ErrOutOfOrder = errors.New("bind group bound out of order")

	// ErrNotReady is returned when a draw is issued before every group and buffer is bound.
	ErrNotReady = errors.New("pipeline not ready to draw")
)

// Role names what a bind group carries, independent of its slot number.
type Role int

const (
	// RoleCamera is the camera uniform group (view position, view-projection, ambient strength).
	RoleCamera Role = iota
	// RoleTexture is the material group: diffuse texture and sampler, plus the normal map pair on the mesh pipeline.
	RoleTexture
	// RoleChunkPosition is the per-chunk offset uniform of the chunk pipeline.
	RoleChunkPosition
	// RoleLight is the point light uniform of the mesh pipeline.
	RoleLight
)

func (r Role) String() string {
	switch r {
	case RoleCamera:
		return "camera"
	case RoleTexture:
		return "texture"
	case RoleChunkPosition:
		return "chunk_position"
	case RoleLight:
		return "light"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// perDraw reports whether the role is rebound between draws sharing the same camera and texture.
func (r Role) perDraw() bool {
	return r == RoleChunkPosition || r == RoleLight
}

// ResourceKind is the type of resource behind one binding.
type ResourceKind int

const (
	KindUniform ResourceKind = iota
	KindTexture
	KindSampler
)

func (k ResourceKind) String() string {
	switch k {
	case KindUniform:
		return "uniform"
	case KindTexture:
		return "texture"
	case KindSampler:
		return "sampler"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry is one binding inside a group.
type Entry struct {
	Binding    uint32
	Kind       ResourceKind
	Visibility wgpu.ShaderStage
	// MinSize is the exact uniform size in bytes. Ignored for textures and samplers.
	MinSize uint64
	// Label is informational (e.g. "diffuse", "normal").
	Label string
}

// Group is one bind group slot of a pipeline.
type Group struct {
	Role    Role
	Index   uint32
	Entries []Entry
}

// Layout is the complete bind group structure of one pipeline.
type Layout struct {
	Name   string
	Groups []Group
}

// Group returns the group carrying a role.
//
// Parameters:
//   - role: the role to look up
//
// Returns:
//   - Group: the group
//   - bool: false if the layout has no such role
func (l Layout) Group(role Role) (Group, bool) {
	for _, g := range l.Groups {
		if g.Role == role {
			return g, true
		}
	}
	return Group{}, false
}

// Slot returns the bind group index for a role.
//
// Parameters:
//   - role: the role to look up
//
// Returns:
//   - uint32: the group index
//   - error: ErrUnknownRole if the layout has no such role
func (l Layout) Slot(role Role) (uint32, error) {
	g, ok := l.Group(role)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no %s group", ErrUnknownRole, l.Name, role)
	}
	return g.Index, nil
}

// Has reports whether the layout contains a role.
func (l Layout) Has(role Role) bool {
	_, ok := l.Group(role)
	return ok
}

// groupAt returns the group at a slot index.
func (l Layout) groupAt(index uint32) (Group, bool) {
	for _, g := range l.Groups {
		if g.Index == index {
			return g, true
		}
	}
	return Group{}, false
}

// Descriptors builds the wgpu bind group layout descriptors for every group, keyed by group index.
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func (l Layout) Descriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(l.Groups))
	for _, g := range l.Groups {
		out[int(g.Index)] = g.Descriptor(l.Name + "_" + g.Role.String())
	}
	return out
}

// Descriptor builds the wgpu bind group layout descriptor for this group.
//
// Parameters:
//   - label: the debug label for the layout
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the descriptor, entries sorted by binding
func (g Group) Descriptor(label string) wgpu.BindGroupLayoutDescriptor {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(g.Entries))
	for _, e := range g.Entries {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: e.Visibility,
		}
		switch e.Kind {
		case KindUniform:
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
			entry.Buffer.MinBindingSize = e.MinSize
		case KindTexture:
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
			entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
		case KindSampler:
			entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})
	return wgpu.BindGroupLayoutDescriptor{Label: label, Entries: entries}
}

// Check verifies that the layout is internally consistent: group indices are contiguous
// from 0, every role appears at most once, and bindings inside a group are unique.
//
// Returns:
//   - error: an error wrapping ErrLayoutMismatch, or nil
func (l Layout) Check() error {
	seenRole := make(map[Role]bool, len(l.Groups))
	seenIndex := make(map[uint32]bool, len(l.Groups))
	for _, g := range l.Groups {
		if seenRole[g.Role] {
			return fmt.Errorf("%w: %s declares %s twice", ErrLayoutMismatch, l.Name, g.Role)
		}
		seenRole[g.Role] = true
		if seenIndex[g.Index] {
			return fmt.Errorf("%w: %s uses group %d twice", ErrLayoutMismatch, l.Name, g.Index)
		}
		seenIndex[g.Index] = true
		if len(g.Entries) == 0 {
			return fmt.Errorf("%w: %s group %d (%s) has no entries", ErrLayoutMismatch, l.Name, g.Index, g.Role)
		}

		seenBinding := make(map[uint32]bool, len(g.Entries))
		for _, e := range g.Entries {
			if seenBinding[e.Binding] {
				return fmt.Errorf("%w: %s group %d binding %d declared twice", ErrLayoutMismatch, l.Name, g.Index, e.Binding)
			}
			seenBinding[e.Binding] = true
			if e.Visibility == wgpu.ShaderStageNone {
				return fmt.Errorf("%w: %s group %d binding %d is visible to no stage", ErrLayoutMismatch, l.Name, g.Index, e.Binding)
			}
			if e.Kind == KindUniform && e.MinSize == 0 {
				return fmt.Errorf("%w: %s group %d binding %d uniform has no size", ErrLayoutMismatch, l.Name, g.Index, e.Binding)
			}
		}
	}
	for i := range uint32(len(l.Groups)) {
		if !seenIndex[i] {
			return fmt.Errorf("%w: %s group indices are not contiguous, missing %d", ErrLayoutMismatch, l.Name, i)
		}
	}
	return nil
}

// Validate checks the layout against the bindings a shader stage declares. Every binding the
// shader uses must exist in the layout at the same group and binding, with the same resource
// kind, visible to the shader's stage, and (for uniforms) with the same size. The layout may
// declare bindings the shader does not use.
//
// Parameters:
//   - stage: the shader stage the descriptors were parsed from
//   - shaderGroups: the parsed descriptors keyed by group index
//
// Returns:
//   - error: an error wrapping ErrLayoutMismatch, or nil
func (l Layout) Validate(stage wgpu.ShaderStage, shaderGroups map[int]wgpu.BindGroupLayoutDescriptor) error {
	if err := l.Check(); err != nil {
		return err
	}

	indices := make([]int, 0, len(shaderGroups))
	for gi := range shaderGroups {
		indices = append(indices, gi)
	}
	sort.Ints(indices)

	for _, gi := range indices {
		g, ok := l.groupAt(uint32(gi))
		if !ok {
			return fmt.Errorf("%w: shader uses group %d, %s has no such group", ErrLayoutMismatch, gi, l.Name)
		}
		for _, se := range shaderGroups[gi].Entries {
			le, ok := g.entry(se.Binding)
			if !ok {
				return fmt.Errorf("%w: shader uses group %d binding %d, %s group %s has no such binding",
					ErrLayoutMismatch, gi, se.Binding, l.Name, g.Role)
			}
			kind, ok := kindOf(se)
			if !ok {
				return fmt.Errorf("%w: shader group %d binding %d has an unsupported resource type", ErrLayoutMismatch, gi, se.Binding)
			}
			if kind != le.Kind {
				return fmt.Errorf("%w: group %d binding %d is a %s in the shader but a %s in %s",
					ErrLayoutMismatch, gi, se.Binding, kind, le.Kind, l.Name)
			}
			if le.Visibility&stage == 0 {
				return fmt.Errorf("%w: group %d binding %d is not visible to the stage that uses it in %s",
					ErrLayoutMismatch, gi, se.Binding, l.Name)
			}
			if kind == KindUniform && se.Buffer.MinBindingSize != 0 && se.Buffer.MinBindingSize != le.MinSize {
				return fmt.Errorf("%w: group %d binding %d is %d bytes in the shader but %d in %s",
					ErrLayoutMismatch, gi, se.Binding, se.Buffer.MinBindingSize, le.MinSize, l.Name)
			}
		}
	}
	return nil
}

func (g Group) entry(binding uint32) (Entry, bool) {
	for _, e := range g.Entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return Entry{}, false
}

// kindOf classifies a parsed wgpu layout entry.
func kindOf(e wgpu.BindGroupLayoutEntry) (ResourceKind, bool) {
	switch {
	case e.Buffer.Type == wgpu.BufferBindingTypeUniform:
		return KindUniform, true
	case e.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		return KindTexture, true
	case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		return KindSampler, true
	default:
		return 0, false
	}
}
