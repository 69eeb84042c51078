package components

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/math"
)

const testEpsilon float32 = 0.0001

func vec3Near(t *testing.T, got, want math.Vec3) {
	t.Helper()
	if !got.Compare(want, testEpsilon) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCameraDefaultLooksDownNegativeZ(t *testing.T) {
	c := NewCamera()
	vec3Near(t, c.Forward(), math.NewVec3(0, 0, -1))
	vec3Near(t, c.Right(), math.NewVec3(1, 0, 0))
	vec3Near(t, c.Up(), math.NewVec3(0, 1, 0))
}

func TestCameraViewMovesWorldOppositeToPosition(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(0, 0, 5))

	// The world origin must end up 5 units in front of the camera.
	p := math.NewVec3Zero().Transform(c.View(), 1)
	vec3Near(t, p, math.NewVec3(0, 0, -5))
}

func TestCameraViewMatchesLookAt(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(-6.81, 1.71, -0.72))
	c.LookAlong(math.NewVec3(1, 0, 0))

	want := math.NewMat4LookAt(c.Position(), c.Position().Add(math.NewVec3(1, 0, 0)), math.NewVec3Up())
	got := c.View()
	for i := range got.Data {
		if math.Abs(got.Data[i]-want.Data[i]) > testEpsilon {
			t.Errorf("view element %d: expected %f, got %f", i, want.Data[i], got.Data[i])
		}
	}
}

func TestCameraLookAlongRoundTrips(t *testing.T) {
	c := NewCamera()
	direction := math.NewVec3(1, 0.5, -0.25).Normalized()
	c.LookAlong(direction)
	vec3Near(t, c.Forward(), direction)
}

func TestCameraPitchClamped(t *testing.T) {
	c := NewCamera()
	c.AddPitch(math.DegToRad(170))
	if c.Pitch() > math.DegToRad(89)+testEpsilon {
		t.Errorf("expected pitch clamped to 89 degrees, got %f degrees", math.RadToDeg(c.Pitch()))
	}
	c.AddPitch(math.DegToRad(-500))
	if c.Pitch() < -math.DegToRad(89)-testEpsilon {
		t.Errorf("expected pitch clamped to -89 degrees, got %f degrees", math.RadToDeg(c.Pitch()))
	}
}

func TestCameraMoveForwardFollowsLookDirection(t *testing.T) {
	c := NewCamera()
	c.LookAlong(math.NewVec3(1, 0, 0))
	c.MoveForward(3)
	vec3Near(t, c.Position(), math.NewVec3(3, 0, 0))

	c.MoveRight(2)
	vec3Near(t, c.Position(), math.NewVec3(3, 0, 2))

	c.MoveUp(1)
	vec3Near(t, c.Position(), math.NewVec3(3, 1, 2))
}

func TestOrbitCameraKeepsDistanceWhileRotating(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(0, 0, 5))
	target := math.NewVec3Zero()
	orbit := NewOrbitCamera(c, target)

	for _, yaw := range []float32{0.3, 1.1, -2.4} {
		orbit.Rotate(yaw, 0.1)
		d := c.Position().Distance(target)
		if math.Abs(d-orbit.Distance()) > testEpsilon {
			t.Errorf("expected distance %f after rotate, got %f", orbit.Distance(), d)
		}
	}
}

func TestOrbitCameraAlwaysFacesTarget(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(0, 2, 5))
	target := math.NewVec3Zero()
	orbit := NewOrbitCamera(c, target)
	orbit.Rotate(0.5, -0.2)

	toTarget := target.Sub(c.Position()).Normalized()
	vec3Near(t, c.Forward(), toTarget)
}

func TestOrbitCameraZoomClampsDistance(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(0, 0, 5))
	orbit := NewOrbitCamera(c, math.NewVec3Zero())

	orbit.Zoom(1000)
	if orbit.Distance() != minOrbitDistance {
		t.Errorf("expected distance clamped to %f, got %f", minOrbitDistance, orbit.Distance())
	}
	orbit.Zoom(-1000)
	if orbit.Distance() != maxOrbitDistance {
		t.Errorf("expected distance clamped to %f, got %f", maxOrbitDistance, orbit.Distance())
	}
}

func TestOrbitCameraSyncAfterFlyMovement(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(0, 0, 5))
	orbit := NewOrbitCamera(c, math.NewVec3Zero())
	fly := NewFlyCamera(c, 6, 0.25)

	// Fly somewhere else, then hand control back to the orbit camera.
	fly.Move(1, 1, 0, 1)
	fly.Look(120, -40)
	orbit.Sync()

	want := c.Position().Add(c.Forward().MulScalar(orbit.Distance()))
	vec3Near(t, orbit.Target(), want)

	// Rotating afterwards must revolve around the synced target.
	target := orbit.Target()
	orbit.Rotate(0.7, 0)
	d := c.Position().Distance(target)
	if math.Abs(d-orbit.Distance()) > testEpsilon {
		t.Errorf("expected distance %f around synced target, got %f", orbit.Distance(), d)
	}
}

func TestFlyCameraLookTurnsTowardMouse(t *testing.T) {
	c := NewCamera()
	fly := NewFlyCamera(c, 6, 1)

	// Mouse to the right turns right: forward swings toward +X.
	fly.Look(90, 0)
	if c.Forward().X <= 0 {
		t.Errorf("expected forward to swing toward positive X, got %v", c.Forward())
	}

	c.Reset()
	// Mouse upward (negative dy) looks up.
	fly.Look(0, -45)
	if c.Forward().Y <= 0 {
		t.Errorf("expected forward to tilt upward, got %v", c.Forward())
	}
}

func TestFlyCameraMoveScalesWithSpeedAndDelta(t *testing.T) {
	c := NewCamera()
	fly := NewFlyCamera(c, 4, 0.25)

	fly.Move(1, 0, 0, 0.5)
	vec3Near(t, c.Position(), math.NewVec3(0, 0, -2))
}
