package systems

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/math"
)

func testCameraConfig() CameraSystemConfig {
	return CameraSystemConfig{
		Position:    math.NewVec3(0, 0, 5),
		OrbitTarget: math.NewVec3(0, 0, 0),
		FovDegrees:  60,
		NearClip:    0.3,
		FarClip:     1000,
		MoveSpeed:   2,
		TurnSpeed:   1,
		Width:       1280,
		Height:      720,
	}
}

func TestNewCameraSystemValidatesConfig(t *testing.T) {
	config := testCameraConfig()
	config.FovDegrees = 0
	if _, err := NewCameraSystem(config); err == nil {
		t.Errorf("expected an error for a zero field of view")
	}

	config = testCameraConfig()
	config.FovDegrees = 180
	if _, err := NewCameraSystem(config); err == nil {
		t.Errorf("expected an error for a 180 degree field of view")
	}

	config = testCameraConfig()
	config.FarClip = config.NearClip
	if _, err := NewCameraSystem(config); err == nil {
		t.Errorf("expected an error for equal clip planes")
	}

	config = testCameraConfig()
	config.Width = 0
	if _, err := NewCameraSystem(config); err == nil {
		t.Errorf("expected an error for a zero framebuffer size")
	}
}

func TestNewCameraSystemStartsOrbitingTheTarget(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	if got := cs.Mode(); got != CameraModeOrbit {
		t.Errorf("expected CameraModeOrbit, got %v", got)
	}
	vec3Near(t, cs.Camera().Position(), math.NewVec3(0, 0, 5))
	vec3Near(t, cs.Camera().Forward(), math.NewVec3(0, 0, -1))
}

func TestCameraSystemOrbitLookKeepsDistance(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	// A quarter turn with a degree per pixel sensitivity swings the
	// camera onto the x axis at the same distance.
	cs.HandleLook(90, 0)

	vec3Near(t, cs.Camera().Position(), math.NewVec3(-5, 0, 0))
	vec3Near(t, cs.Camera().Forward(), math.NewVec3(1, 0, 0))
	floatNear(t, cs.Camera().Position().Distance(math.NewVec3Zero()), 5)
}

func TestCameraSystemScrollZoomsTowardTarget(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	cs.HandleScroll(1)

	vec3Near(t, cs.Camera().Position(), math.NewVec3(0, 0, 4))
}

func TestCameraSystemToggleModeCycle(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	before := cs.Camera().Position()

	if got := cs.ToggleMode(); got != CameraModeFly {
		t.Errorf("expected CameraModeFly, got %v", got)
	}
	if got := cs.ToggleMode(); got != CameraModeOrbit {
		t.Errorf("expected CameraModeOrbit, got %v", got)
	}

	// Switching controllers never teleports the camera.
	vec3Near(t, cs.Camera().Position(), before)
}

func TestCameraSystemFlyLookTurnsInPlace(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	cs.ToggleMode()

	cs.HandleLook(90, 0)

	vec3Near(t, cs.Camera().Position(), math.NewVec3(0, 0, 5))
	if got := cs.Camera().Forward(); got.X < 0.9 {
		t.Errorf("expected the camera turned toward +x, forward %v", got)
	}
}

func TestCameraSystemMoveOnlyAppliesInFlyMode(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	cs.HandleMove(1, 0, 0, 0.5)
	vec3Near(t, cs.Camera().Position(), math.NewVec3(0, 0, 5))

	cs.ToggleMode()
	cs.HandleMove(1, 0, 0, 0.5)
	vec3Near(t, cs.Camera().Position(), math.NewVec3(0, 0, 4))
}

func TestCameraSystemReturningToOrbitRecentersOnView(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	cs.ToggleMode()
	cs.HandleMove(0, 1, 0, 1)
	cs.ToggleMode()

	// The orbit target is rebuilt ahead of the camera, so the next
	// rotation circles what the user is looking at.
	target := cs.Camera().Position().Add(cs.Camera().Forward().MulScalar(5))
	cs.HandleLook(45, 0)
	floatNear(t, cs.Camera().Position().Distance(target), 5)
}

func TestCameraSystemOnResizeIgnoresZeroSizes(t *testing.T) {
	cs, err := NewCameraSystem(testCameraConfig())
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	before := cs.Projection()

	cs.OnResize(0, 720)
	if cs.Projection() != before {
		t.Errorf("expected the projection unchanged for a zero width")
	}

	cs.OnResize(800, 600)
	if cs.Projection() == before {
		t.Errorf("expected the projection rebuilt for a new aspect ratio")
	}
}
