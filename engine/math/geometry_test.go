package math

import (
	"testing"
)

func TestGeometryGenerateNormals(t *testing.T) {
	// A single triangle in the XZ plane, wound so that its face normal
	// points up.
	vertices := []Vertex3D{
		{Position: NewVec3(0, 0, 0)},
		{Position: NewVec3(1, 0, 0)},
		{Position: NewVec3(0, 0, -1)},
	}
	indices := []uint32{0, 1, 2}

	GeometryGenerateNormals(vertices, indices)

	for i := range vertices {
		vec3Near(t, vertices[i].Normal, NewVec3Up())
	}
}

func TestCalculateExtents(t *testing.T) {
	vertices := []Vertex3D{
		{Position: NewVec3(-1, 5, 0)},
		{Position: NewVec3(2, -3, 1)},
		{Position: NewVec3(0, 0, -7)},
	}

	extents := CalculateExtents(vertices)
	vec3Near(t, extents.Min, NewVec3(-1, -3, -7))
	vec3Near(t, extents.Max, NewVec3(2, 5, 1))
}
