package camera

import (
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-voxel/common"
	"github.com/go-gl/mathgl/mgl32"
)

// flyController is the single implementation of CameraController.
type flyController struct {
	mu *sync.Mutex

	position mgl32.Vec3
	yaw      float32
	pitch    float32

	speed       float32
	sensitivity float32

	// held movement keys, 1 while pressed
	forward, backward float32
	left, right       float32
	up, down          float32

	// per-frame accumulators
	rotateHorizontal float32
	rotateVertical   float32
	samples          uint32
	scroll           float32
}

var _ CameraController = &flyController{}

// NewCameraController creates a fly controller looking down -Z from the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	fc := &flyController{
		mu:          &sync.Mutex{},
		yaw:         -math.Pi / 2,
		speed:       4.0,
		sensitivity: 0.4,
	}
	for _, option := range options {
		option(fc)
	}
	fc.pitch = clampPitch(fc.pitch)
	return fc
}

func clampPitch(pitch float32) float32 {
	return min(max(pitch, -common.SafeFracPi2), common.SafeFracPi2)
}

func (fc *flyController) Position() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.position
}

func (fc *flyController) SetPosition(p mgl32.Vec3) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.position = p
}

func (fc *flyController) Yaw() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.yaw
}

func (fc *flyController) Pitch() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.pitch
}

func (fc *flyController) SetOrientation(yaw, pitch float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.yaw = yaw
	fc.pitch = clampPitch(pitch)
}

func (fc *flyController) Direction() mgl32.Vec3 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return common.LookDirection(fc.yaw, fc.pitch)
}

func (fc *flyController) Speed() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.speed
}

func (fc *flyController) Sensitivity() float32 {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.sensitivity
}

func (fc *flyController) ProcessKey(key int, pressed bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	var amount float32
	if pressed {
		amount = 1
	}
	switch key {
	case common.KeyW:
		fc.forward = amount
	case common.KeyS:
		fc.backward = amount
	case common.KeyA:
		fc.left = amount
	case common.KeyD:
		fc.right = amount
	case common.KeySpace:
		fc.up = amount
	case common.KeyLeftShift:
		fc.down = amount
	}
}

func (fc *flyController) ProcessMouse(dx, dy float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.rotateHorizontal += dx
	fc.rotateVertical += dy
	fc.samples++
}

func (fc *flyController) ProcessScroll(delta float32) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.scroll += delta
}

func (fc *flyController) Update(dt time.Duration) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	secs := float32(dt.Seconds())

	// horizontal movement ignores pitch so W never flies into the ground
	sinYaw, cosYaw := math.Sincos(float64(fc.yaw))
	forward := mgl32.Vec3{float32(cosYaw), 0, float32(sinYaw)}
	right := mgl32.Vec3{float32(-sinYaw), 0, float32(cosYaw)}

	fc.position = fc.position.
		Add(forward.Mul((fc.forward - fc.backward) * fc.speed * secs)).
		Add(right.Mul((fc.right - fc.left) * fc.speed * secs))

	if fc.scroll != 0 {
		look := common.LookDirection(fc.yaw, fc.pitch)
		fc.position = fc.position.Add(look.Mul(fc.scroll * fc.speed * fc.sensitivity * secs))
		fc.scroll = 0
	}

	fc.position[1] += (fc.up - fc.down) * fc.speed * secs

	if fc.samples > 0 {
		n := float32(fc.samples)
		fc.yaw += fc.rotateHorizontal / n * fc.sensitivity * secs
		fc.pitch = clampPitch(fc.pitch - fc.rotateVertical/n*fc.sensitivity*secs)
		fc.rotateHorizontal = 0
		fc.rotateVertical = 0
		fc.samples = 0
	}
}
