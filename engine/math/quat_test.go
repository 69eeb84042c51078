package math

import (
	"testing"
)

func TestQuatIdentityRotation(t *testing.T) {
	q := NewQuatIdentity()
	vec3Near(t, q.RotateVec3(NewVec3(1, 2, 3)), NewVec3(1, 2, 3))
}

func TestQuatAxisAngle(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3Up(), DegToRad(90), true)
	vec3Near(t, q.RotateVec3(NewVec3(1, 0, 0)), NewVec3(0, 0, -1))
}

func TestQuatMatrixAgreesWithRotate(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3(1, 1, 0).Normalized(), 0.9, true)
	v := NewVec3(0.3, -1.2, 2.5)

	byQuat := q.RotateVec3(v)
	byMatrix := v.Transform(q.ToMat4(), 0)
	vec3Near(t, byMatrix, byQuat)
}

func TestQuatMulComposes(t *testing.T) {
	first := NewQuatFromAxisAngle(NewVec3Up(), DegToRad(90), true)
	second := NewQuatFromAxisAngle(NewVec3Up(), DegToRad(90), true)

	combined := second.Mul(first)
	vec3Near(t, combined.RotateVec3(NewVec3(1, 0, 0)), NewVec3(-1, 0, 0))
}

func TestQuatFromEuler(t *testing.T) {
	// Pure yaw must match a rotation about the Y axis.
	q := NewQuatFromEuler(0, DegToRad(90), 0)
	vec3Near(t, q.RotateVec3(NewVec3(1, 0, 0)), NewVec3(0, 0, -1))
}

func TestQuatNormalized(t *testing.T) {
	q := Quaternion{X: 0, Y: 2, Z: 0, W: 0}
	n := q.Normalized()
	if abs(n.Normal()-1) > testEpsilon {
		t.Errorf("expected unit quaternion, got normal %f", n.Normal())
	}
}
