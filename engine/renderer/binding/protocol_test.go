package binding

import (
	"errors"
	"testing"
)

func mustBind(t *testing.T, p *Protocol, role Role) uint32 {
	t.Helper()
	slot, err := p.Bind(role)
	if err != nil {
		t.Fatalf("Bind(%s): %v", role, err)
	}
	return slot
}

func TestProtocolChunkSequence(t *testing.T) {
	p := NewProtocol(ChunkLayout())
	if err := p.CheckDraw(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("draw while unbound: got %v, want ErrNotReady", err)
	}

	if slot := mustBind(t, p, RoleCamera); slot != 0 || p.State() != StateCameraBound {
		t.Fatalf("camera: slot %d state %s", slot, p.State())
	}
	if slot := mustBind(t, p, RoleTexture); slot != 1 || p.State() != StateTextureBound {
		t.Fatalf("texture: slot %d state %s", slot, p.State())
	}
	if slot := mustBind(t, p, RoleChunkPosition); slot != 2 || p.State() != StateChunkOrLightBound {
		t.Fatalf("chunk position: slot %d state %s", slot, p.State())
	}
	if err := p.CheckDraw(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("draw before buffers: got %v, want ErrNotReady", err)
	}
	if err := p.BindBuffers(); err != nil {
		t.Fatalf("BindBuffers: %v", err)
	}
	if err := p.CheckDraw(); err != nil {
		t.Fatalf("draw when ready: %v", err)
	}

	// rebinding the chunk offset keeps the pipeline ready
	mustBind(t, p, RoleChunkPosition)
	if p.State() != StateReady {
		t.Fatalf("after chunk rebind: got %s, want ready", p.State())
	}

	// a new texture requires a new chunk offset
	mustBind(t, p, RoleTexture)
	if p.State() != StateTextureBound {
		t.Fatalf("after texture rebind: got %s, want texture_bound", p.State())
	}
	if err := p.BindBuffers(); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("buffers without chunk offset: got %v, want ErrOutOfOrder", err)
	}
}

func TestProtocolMeshSequence(t *testing.T) {
	p := NewProtocol(MeshLayout())
	if slot := mustBind(t, p, RoleCamera); slot != 1 {
		t.Fatalf("mesh camera slot: got %d, want 1", slot)
	}
	if slot := mustBind(t, p, RoleTexture); slot != 0 {
		t.Fatalf("mesh texture slot: got %d, want 0", slot)
	}
	if slot := mustBind(t, p, RoleLight); slot != 2 {
		t.Fatalf("mesh light slot: got %d, want 2", slot)
	}
	if err := p.BindBuffers(); err != nil {
		t.Fatalf("BindBuffers: %v", err)
	}
	if err := p.CheckDraw(); err != nil {
		t.Fatalf("CheckDraw: %v", err)
	}

	mustBind(t, p, RoleCamera)
	if p.State() != StateCameraBound {
		t.Fatalf("after camera rebind: got %s, want camera_bound", p.State())
	}
}

func TestProtocolRejectsOutOfOrder(t *testing.T) {
	p := NewProtocol(ChunkLayout())
	if _, err := p.Bind(RoleTexture); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("texture before camera: got %v, want ErrOutOfOrder", err)
	}
	mustBind(t, p, RoleCamera)
	if _, err := p.Bind(RoleChunkPosition); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("chunk position before texture: got %v, want ErrOutOfOrder", err)
	}
	if p.State() != StateCameraBound {
		t.Fatalf("state changed on error: got %s", p.State())
	}
	if _, err := p.Bind(RoleLight); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("light on chunk pipeline: got %v, want ErrUnknownRole", err)
	}
}

func TestProtocolReset(t *testing.T) {
	p := NewProtocol(ChunkLayout())
	mustBind(t, p, RoleCamera)
	mustBind(t, p, RoleTexture)
	p.Reset()
	if p.State() != StateUnbound {
		t.Fatalf("after Reset: got %s, want unbound", p.State())
	}
	if _, err := p.Bind(RoleTexture); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("texture after reset: got %v, want ErrOutOfOrder", err)
	}
}
