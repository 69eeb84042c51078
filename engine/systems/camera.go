package systems

import (
	"fmt"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/components"
)

/** @brief The two ways the viewer can drive the camera. */
type CameraMode int

const (
	CameraModeOrbit CameraMode = iota
	CameraModeFly
)

func (m CameraMode) String() string {
	if m == CameraModeFly {
		return "fly"
	}
	return "orbit"
}

/** @brief The configuration for the camera system. */
type CameraSystemConfig struct {
	/** @brief The starting camera position in world space. */
	Position math.Vec3
	/** @brief The starting look direction, used until a controller takes over. */
	LookDirection math.Vec3
	/** @brief The point the orbit camera revolves around. */
	OrbitTarget math.Vec3
	/** @brief The vertical field of view, in degrees. */
	FovDegrees float32
	/** @brief The near and far clip distances. */
	NearClip float32
	FarClip  float32
	/** @brief Fly camera translation speed, units per second. */
	MoveSpeed float32
	/** @brief Look sensitivity, degrees per pixel of mouse movement. */
	TurnSpeed float32
	/** @brief The initial framebuffer size for the aspect ratio. */
	Width  uint32
	Height uint32
}

/**
 * @brief Drives one camera through two interchangeable controllers, an
 * orbit controller and a first person fly controller. Both wrap the
 * same camera, so switching modes never jumps the view.
 */
type CameraSystem struct {
	config CameraSystemConfig

	camera *components.Camera
	orbit  *components.OrbitCamera
	fly    *components.FlyCamera
	mode   CameraMode

	projection math.Mat4
}

func NewCameraSystem(config CameraSystemConfig) (*CameraSystem, error) {
	if config.FovDegrees <= 0 || config.FovDegrees >= 180 {
		return nil, fmt.Errorf("camera system requires a field of view between 0 and 180 degrees")
	}
	if config.NearClip <= 0 || config.FarClip <= config.NearClip {
		return nil, fmt.Errorf("camera system requires 0 < NearClip < FarClip")
	}
	if config.Width == 0 || config.Height == 0 {
		return nil, fmt.Errorf("camera system requires a non zero framebuffer size")
	}

	camera := components.NewCamera()
	camera.SetPosition(config.Position)
	if config.LookDirection.LengthSquared() > 0 {
		camera.LookAlong(config.LookDirection)
	}

	cs := &CameraSystem{
		config: config,
		camera: camera,
		orbit:  components.NewOrbitCamera(camera, config.OrbitTarget),
		fly:    components.NewFlyCamera(camera, config.MoveSpeed, config.TurnSpeed),
		mode:   CameraModeOrbit,
	}
	cs.OnResize(config.Width, config.Height)
	return cs, nil
}

/** @brief Returns the camera both controllers drive. */
func (cs *CameraSystem) Camera() *components.Camera {
	return cs.camera
}

func (cs *CameraSystem) Mode() CameraMode {
	return cs.mode
}

/**
 * @brief Switches between the orbit and fly controllers and returns the
 * new mode. Going back to orbit re-centers the orbit on whatever the
 * camera is looking at now.
 */
func (cs *CameraSystem) ToggleMode() CameraMode {
	if cs.mode == CameraModeOrbit {
		cs.mode = CameraModeFly
	} else {
		cs.mode = CameraModeOrbit
		cs.orbit.Sync()
	}
	return cs.mode
}

/** @brief Applies a mouse movement in pixels to the active controller. */
func (cs *CameraSystem) HandleLook(dx, dy float32) {
	if cs.mode == CameraModeFly {
		cs.fly.Look(dx, dy)
		return
	}
	cs.orbit.Rotate(
		-dx*cs.config.TurnSpeed*math.DegToRadMultiplier,
		-dy*cs.config.TurnSpeed*math.DegToRadMultiplier,
	)
}

/**
 * @brief Applies movement input to the fly controller. The orbit
 * controller holds its distance and ignores movement keys.
 */
func (cs *CameraSystem) HandleMove(forward, right, up float32, deltaTime float64) {
	if cs.mode == CameraModeFly {
		cs.fly.Move(forward, right, up, deltaTime)
	}
}

/** @brief Applies a scroll wheel movement, zooming the orbit camera. */
func (cs *CameraSystem) HandleScroll(amount float32) {
	if cs.mode == CameraModeOrbit {
		cs.orbit.Zoom(amount)
	}
}

func (cs *CameraSystem) View() math.Mat4 {
	return cs.camera.View()
}

func (cs *CameraSystem) Projection() math.Mat4 {
	return cs.projection
}

/** @brief Rebuilds the projection for a new framebuffer size. */
func (cs *CameraSystem) OnResize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	cs.projection = math.NewMat4Perspective(
		math.DegToRad(cs.config.FovDegrees),
		float32(width)/float32(height),
		cs.config.NearClip,
		cs.config.FarClip,
	)
}

func (cs *CameraSystem) Shutdown() error {
	return nil
}
