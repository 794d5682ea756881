package camera

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraController owns the eye position and orientation of a free-flying camera.
// Orientation is a yaw/pitch pair: yaw rotates around +Y starting at +X, pitch is the
// elevation above the XZ plane and is clamped just short of straight up or down.
// Input is accumulated through the Process methods and applied in Update.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// SetPosition moves the camera to a world-space position.
	//
	// Parameters:
	//   - p: the new eye position
	SetPosition(p mgl32.Vec3)

	// Yaw returns the horizontal look angle in radians.
	Yaw() float32

	// Pitch returns the vertical look angle in radians.
	Pitch() float32

	// SetOrientation sets yaw and pitch directly. Pitch is clamped to ±(π/2 − 1e-4).
	//
	// Parameters:
	//   - yaw: horizontal angle in radians
	//   - pitch: vertical angle in radians
	SetOrientation(yaw, pitch float32)

	// Direction returns the normalized look direction for the current yaw and pitch.
	//
	// Returns:
	//   - mgl32.Vec3: the forward vector
	Direction() mgl32.Vec3

	// Speed returns the translation speed in world units per second.
	Speed() float32

	// Sensitivity returns the mouse rotation sensitivity.
	Sensitivity() float32

	// ProcessKey records a key press or release. Unbound keys are ignored.
	//
	// Parameters:
	//   - key: the GLFW key code
	//   - pressed: true on press, false on release
	ProcessKey(key int, pressed bool)

	// ProcessMouse accumulates a cursor movement sample.
	//
	// Parameters:
	//   - dx, dy: cursor delta in pixels since the previous sample
	ProcessMouse(dx, dy float32)

	// ProcessScroll accumulates a scroll wheel delta, applied as a dolly along the look direction.
	//
	// Parameters:
	//   - delta: scroll amount
	ProcessScroll(delta float32)

	// Update applies held keys and accumulated mouse/scroll input for a time step and
	// resets the per-frame accumulators.
	//
	// Parameters:
	//   - dt: the elapsed time since the previous update
	Update(dt time.Duration)
}
