package components

import (
	"github.com/spaghettifunk/lumina/engine/math"
)

// Pitch stays just short of straight up or down to avoid gimbal lock.
const pitchLimit = float32(89.0 * math.DegToRadMultiplier)

/**
 * @brief A camera described by a position and a yaw/pitch orientation.
 * The view matrix is rebuilt lazily when the state changed. Cameras are
 * usually driven through an orbit or fly controller rather than moved
 * directly.
 */
type Camera struct {
	position math.Vec3
	yaw      float32
	pitch    float32

	isDirty    bool
	viewMatrix math.Mat4
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.position = math.NewVec3Zero()
	c.yaw = 0
	c.pitch = 0
	c.isDirty = false
	c.viewMatrix = math.NewMat4Identity()
}

func (c *Camera) Position() math.Vec3 {
	return c.position
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.position = position
	c.isDirty = true
}

func (c *Camera) Yaw() float32 {
	return c.yaw
}

func (c *Camera) Pitch() float32 {
	return c.pitch
}

func (c *Camera) AddYaw(amount float32) {
	c.yaw += amount
	c.isDirty = true
}

func (c *Camera) AddPitch(amount float32) {
	c.pitch = math.Clamp(c.pitch+amount, -pitchLimit, pitchLimit)
	c.isDirty = true
}

// LookAlong orients the camera along the given world space direction.
func (c *Camera) LookAlong(direction math.Vec3) {
	d := direction.Normalized()
	c.pitch = math.Clamp(math.Asin(d.Y), -pitchLimit, pitchLimit)
	c.yaw = math.Atan2(-d.X, -d.Z)
	c.isDirty = true
}

// View returns the world to view transform, rebuilding it if the camera
// moved since the last call.
func (c *Camera) View() math.Mat4 {
	if c.isDirty {
		rotation := math.NewMat4EulerY(c.yaw).Mul(math.NewMat4EulerX(c.pitch))
		translation := math.NewMat4Translation(c.position)
		c.viewMatrix = translation.Mul(rotation).Inverse()
		c.isDirty = false
	}
	return c.viewMatrix
}

// Forward returns the world space direction the camera looks along.
func (c *Camera) Forward() math.Vec3 {
	cosPitch := math.Cos(c.pitch)
	return math.Vec3{
		X: -math.Sin(c.yaw) * cosPitch,
		Y: math.Sin(c.pitch),
		Z: -math.Cos(c.yaw) * cosPitch,
	}
}

// Right returns the world space direction to the camera's right. The
// camera never rolls, so this stays in the horizontal plane.
func (c *Camera) Right() math.Vec3 {
	return math.Vec3{
		X: math.Cos(c.yaw),
		Y: 0,
		Z: -math.Sin(c.yaw),
	}
}

func (c *Camera) Up() math.Vec3 {
	return c.Right().Cross(c.Forward())
}

func (c *Camera) MoveForward(amount float32) {
	c.position = c.position.Add(c.Forward().MulScalar(amount))
	c.isDirty = true
}

func (c *Camera) MoveRight(amount float32) {
	c.position = c.position.Add(c.Right().MulScalar(amount))
	c.isDirty = true
}

func (c *Camera) MoveUp(amount float32) {
	c.position = c.position.Add(math.NewVec3Up().MulScalar(amount))
	c.isDirty = true
}
