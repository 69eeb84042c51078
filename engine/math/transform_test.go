package math

import (
	"testing"
)

func TestTransformLocalComposition(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(NewVec3(1, 2, 3))
	tr.SetScale(NewVec3(2, 2, 2))

	p := NewVec3(1, 1, 1).Transform(tr.GetLocal(), 1)
	vec3Near(t, p, NewVec3(3, 4, 5))
}

func TestTransformDirtyTracking(t *testing.T) {
	tr := NewTransform()
	first := tr.GetLocal()
	if tr.IsDirty {
		t.Error("expected transform to be clean after GetLocal")
	}

	tr.Translate(NewVec3(1, 0, 0))
	if !tr.IsDirty {
		t.Error("expected translate to mark the transform dirty")
	}
	second := tr.GetLocal()
	if first == second {
		t.Error("expected local matrix to change after translate")
	}
}

func TestTransformParentChain(t *testing.T) {
	parent := NewTransform()
	parent.SetPosition(NewVec3(10, 0, 0))

	child := NewTransform()
	child.SetPosition(NewVec3(1, 0, 0))
	child.Parent = parent

	world := child.GetWorld()
	vec3Near(t, world.Position(), NewVec3(11, 0, 0))
}

func TestTransformRotationAffectsChildren(t *testing.T) {
	parent := NewTransform()
	parent.SetRotation(NewQuatFromAxisAngle(NewVec3Up(), DegToRad(90), true))

	child := NewTransform()
	child.SetPosition(NewVec3(1, 0, 0))
	child.Parent = parent

	vec3Near(t, child.GetWorld().Position(), NewVec3(0, 0, -1))
}
