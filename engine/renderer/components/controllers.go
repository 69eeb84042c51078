package components

import (
	"github.com/spaghettifunk/lumina/engine/math"
)

const (
	minOrbitDistance = float32(0.5)
	maxOrbitDistance = float32(100.0)
)

/**
 * @brief Revolves a camera around a target point. Rotation changes the
 * camera's orientation and moves it on a sphere of the current radius,
 * always facing the target.
 */
type OrbitCamera struct {
	camera   *Camera
	target   math.Vec3
	distance float32
}

// NewOrbitCamera aims the camera at the target from where it stands and
// takes that separation as the orbit radius.
func NewOrbitCamera(camera *Camera, target math.Vec3) *OrbitCamera {
	o := &OrbitCamera{
		camera:   camera,
		target:   target,
		distance: math.Clamp(camera.Position().Distance(target), minOrbitDistance, maxOrbitDistance),
	}
	camera.LookAlong(target.Sub(camera.Position()))
	o.reposition()
	return o
}

func (o *OrbitCamera) Target() math.Vec3 {
	return o.target
}

func (o *OrbitCamera) Distance() float32 {
	return o.distance
}

// Rotate spins the camera around the target by the given yaw and pitch
// deltas in radians.
func (o *OrbitCamera) Rotate(yawDelta, pitchDelta float32) {
	o.camera.AddYaw(yawDelta)
	o.camera.AddPitch(pitchDelta)
	o.reposition()
}

// Zoom moves the camera along its view direction. Positive amounts move
// toward the target.
func (o *OrbitCamera) Zoom(amount float32) {
	o.distance = math.Clamp(o.distance-amount, minOrbitDistance, maxOrbitDistance)
	o.reposition()
}

// Sync re-derives the target from wherever the camera is now, keeping
// the current radius. Called when control returns from the fly camera
// so orbiting continues around what the user is looking at.
func (o *OrbitCamera) Sync() {
	o.target = o.camera.Position().Add(o.camera.Forward().MulScalar(o.distance))
}

func (o *OrbitCamera) reposition() {
	o.camera.SetPosition(o.target.Sub(o.camera.Forward().MulScalar(o.distance)))
}

/**
 * @brief First person controls for a camera: look deltas from the mouse
 * and movement along the camera axes. Speeds come from the application
 * configuration.
 */
type FlyCamera struct {
	camera *Camera

	MoveSpeed float32
	TurnSpeed float32
}

func NewFlyCamera(camera *Camera, moveSpeed, turnSpeed float32) *FlyCamera {
	return &FlyCamera{
		camera:    camera,
		MoveSpeed: moveSpeed,
		TurnSpeed: turnSpeed,
	}
}

// Look applies a mouse movement in pixels. Moving the mouse right turns
// right, moving it up looks up.
func (f *FlyCamera) Look(dx, dy float32) {
	f.camera.AddYaw(-dx * f.TurnSpeed * math.DegToRadMultiplier)
	f.camera.AddPitch(-dy * f.TurnSpeed * math.DegToRadMultiplier)
}

// Move translates the camera along its axes. The axis values are
// direction factors in [-1, 1], usually from key state.
func (f *FlyCamera) Move(forward, right, up float32, deltaTime float64) {
	step := f.MoveSpeed * float32(deltaTime)
	if forward != 0 {
		f.camera.MoveForward(forward * step)
	}
	if right != 0 {
		f.camera.MoveRight(right * step)
	}
	if up != 0 {
		f.camera.MoveUp(up * step)
	}
}
