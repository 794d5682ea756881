package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*flyController)

// WithPosition sets the initial eye position.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.position = mgl32.Vec3{x, y, z}
	}
}

// WithYaw sets the initial horizontal look angle.
//
// Parameters:
//   - yaw: angle in radians (0 = +X axis)
//
// Returns:
//   - CameraControllerOption: functional option to set the yaw
func WithYaw(yaw float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.yaw = yaw
	}
}

// WithPitch sets the initial vertical look angle. The value is clamped when the controller is built.
//
// Parameters:
//   - pitch: angle in radians (0 = horizontal)
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch
func WithPitch(pitch float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.pitch = pitch
	}
}

// WithSpeed sets the translation speed.
//
// Parameters:
//   - speed: world units per second
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.speed = speed
	}
}

// WithSensitivity sets the mouse rotation sensitivity.
//
// Parameters:
//   - sensitivity: radians per pixel per second
//
// Returns:
//   - CameraControllerOption: functional option to set the sensitivity
func WithSensitivity(sensitivity float32) CameraControllerOption {
	return func(fc *flyController) {
		fc.sensitivity = sensitivity
	}
}
