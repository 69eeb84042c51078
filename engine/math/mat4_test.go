package math

import (
	"testing"
)

const testEpsilon float32 = 0.0001

func vec3Near(t *testing.T, got, want Vec3) {
	t.Helper()
	if !got.Compare(want, testEpsilon) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMat4Identity(t *testing.T) {
	id := NewMat4Identity()
	for i, v := range id.Data {
		var want float32
		if i%5 == 0 {
			want = 1
		}
		if v != want {
			t.Errorf("identity element %d: expected %f, got %f", i, want, v)
		}
	}
}

func TestMat4MulIdentity(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	out := m.Mul(NewMat4Identity())
	if out != m {
		t.Errorf("expected multiplication with identity to be a no-op, got %v", out)
	}
}

func TestMat4TranslationTransformsPoint(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	p := NewVec3Zero().Transform(m, 1)
	vec3Near(t, p, NewVec3(1, 2, 3))

	// A direction must not pick up the translation.
	d := NewVec3(0, 0, -1).Transform(m, 0)
	vec3Near(t, d, NewVec3(0, 0, -1))
}

func TestMat4MulAppliesRightFirst(t *testing.T) {
	translate := NewMat4Translation(NewVec3(5, 0, 0))
	scale := NewMat4Scale(NewVec3(2, 2, 2))

	// Scale first, then translate.
	m := translate.Mul(scale)
	p := NewVec3(1, 1, 1).Transform(m, 1)
	vec3Near(t, p, NewVec3(7, 2, 2))
}

func TestMat4EulerYRotation(t *testing.T) {
	m := NewMat4EulerY(DegToRad(90))
	p := NewVec3(1, 0, 0).Transform(m, 0)
	vec3Near(t, p, NewVec3(0, 0, -1))
}

func TestMat4Perspective(t *testing.T) {
	proj := NewMat4Perspective(DegToRad(60), 16.0/9.0, 0.3, 1000.0)

	if proj.Data[11] != -1 {
		t.Errorf("expected perspective element 11 to be -1, got %f", proj.Data[11])
	}
	if proj.Data[15] != 0 {
		t.Errorf("expected perspective element 15 to be 0, got %f", proj.Data[15])
	}
	if proj.Data[5] >= 0 {
		t.Errorf("expected perspective to invert Y, got %f", proj.Data[5])
	}

	// A point on the near plane must land at zero depth, the far plane at one.
	near := NewVec4(0, 0, -0.3, 1).Transform(proj)
	if abs(near.Z/near.W) > testEpsilon {
		t.Errorf("expected near plane depth 0, got %f", near.Z/near.W)
	}
	far := NewVec4(0, 0, -1000, 1).Transform(proj)
	if abs(far.Z/far.W-1) > testEpsilon {
		t.Errorf("expected far plane depth 1, got %f", far.Z/far.W)
	}
}

func TestMat4Orthographic(t *testing.T) {
	proj := NewMat4Orthographic(0, 800, 0, 600, -1, 1)

	topLeft := NewVec4(0, 0, 0, 1).Transform(proj)
	if abs(topLeft.X+1) > testEpsilon || abs(topLeft.Y+1) > testEpsilon {
		t.Errorf("expected origin to map to (-1,-1), got (%f,%f)", topLeft.X, topLeft.Y)
	}
	bottomRight := NewVec4(800, 600, 0, 1).Transform(proj)
	if abs(bottomRight.X-1) > testEpsilon || abs(bottomRight.Y-1) > testEpsilon {
		t.Errorf("expected extent to map to (1,1), got (%f,%f)", bottomRight.X, bottomRight.Y)
	}
}

func TestMat4LookAt(t *testing.T) {
	view := NewMat4LookAt(NewVec3(0, 0, 5), NewVec3Zero(), NewVec3Up())

	// The target ends up in front of the camera on the negative Z axis.
	p := NewVec3Zero().Transform(view, 1)
	vec3Near(t, p, NewVec3(0, 0, -5))

	// The camera position maps to the view space origin.
	eye := NewVec3(0, 0, 5).Transform(view, 1)
	vec3Near(t, eye, NewVec3Zero())
}

func TestMat4Inverse(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, -2, 3)).
		Mul(NewMat4EulerY(0.7)).
		Mul(NewMat4Scale(NewVec3(2, 2, 2)))

	roundTrip := m.Mul(m.Inverse())
	id := NewMat4Identity()
	for i := range roundTrip.Data {
		if abs(roundTrip.Data[i]-id.Data[i]) > testEpsilon {
			t.Errorf("element %d: expected %f, got %f", i, id.Data[i], roundTrip.Data[i])
		}
	}
}

func TestMat4Transposed(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3))
	tr := m.Transposed()
	if tr.Data[3] != 1 || tr.Data[7] != 2 || tr.Data[11] != 3 {
		t.Errorf("expected translation moved to the last row, got %v", tr.Data)
	}
}
