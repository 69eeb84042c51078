package math

import (
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	vec3Near(t, a.Add(b), NewVec3(5, 7, 9))
	vec3Near(t, b.Sub(a), NewVec3(3, 3, 3))
	vec3Near(t, a.MulScalar(2), NewVec3(2, 4, 6))
}

func TestVec3DotCross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)

	if d := x.Dot(y); d != 0 {
		t.Errorf("expected orthogonal dot product 0, got %f", d)
	}
	vec3Near(t, x.Cross(y), NewVec3(0, 0, 1))
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4)
	n := v.Normalized()

	if abs(n.Length()-1) > testEpsilon {
		t.Errorf("expected unit length, got %f", n.Length())
	}
	vec3Near(t, n, NewVec3(0.6, 0, 0.8))

	// A zero vector must survive normalization.
	zero := NewVec3Zero()
	zero.Normalize()
	vec3Near(t, zero, NewVec3Zero())
}

func TestVec3Distance(t *testing.T) {
	a := NewVec3(1, 1, 1)
	b := NewVec3(1, 1, 5)
	if d := a.Distance(b); abs(d-4) > testEpsilon {
		t.Errorf("expected distance 4, got %f", d)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := NewVec3Zero()
	b := NewVec3(10, 0, 0)
	vec3Near(t, a.Lerp(b, 0.5), NewVec3(5, 0, 0))
}

func TestVec4Transform(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	out := NewVec4(0, 0, 0, 1).Transform(m)
	if out.X != 1 || out.Y != 2 || out.Z != 3 || out.W != 1 {
		t.Errorf("expected (1,2,3,1), got %v", out)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(float32(1.5), 0, 1); got != 1 {
		t.Errorf("expected clamp to 1, got %f", got)
	}
	if got := Clamp(float32(-0.5), 0, 1); got != 0 {
		t.Errorf("expected clamp to 0, got %f", got)
	}
	if got := Clamp(7, 0, 10); got != 7 {
		t.Errorf("expected in-range value unchanged, got %d", got)
	}
}
