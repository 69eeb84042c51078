package systems

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// triangleCross returns the cross product of the triangle's edges, which
// points out of the face for counter clockwise winding.
func triangleCross(vertices []math.Vertex3D, i0, i1, i2 uint32) math.Vec3 {
	a := vertices[i0].Position
	b := vertices[i1].Position
	c := vertices[i2].Position
	return b.Sub(a).Cross(c.Sub(b))
}

func triangleCentroid(vertices []math.Vertex3D, i0, i1, i2 uint32) math.Vec3 {
	a := vertices[i0].Position
	b := vertices[i1].Position
	c := vertices[i2].Position
	return a.Add(b).Add(c).MulScalar(1.0 / 3.0)
}

func TestGeneratePlaneConfig(t *testing.T) {
	config, err := GeneratePlaneConfig(4, 2, 2, 2, 2, 3, "test_plane", "ground")
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	if got := len(config.Vertices); got != 9 {
		t.Errorf("expected 9 vertices, got %d", got)
	}
	if got := len(config.Indices); got != 24 {
		t.Errorf("expected 24 indices, got %d", got)
	}

	vec3Near(t, config.MinExtents, math.NewVec3(-2, 0, -1))
	vec3Near(t, config.MaxExtents, math.NewVec3(2, 0, 1))
	vec3Near(t, config.Center, math.NewVec3(0, 0, 0))

	for i, vertex := range config.Vertices {
		if !vertex.Normal.Compare(math.NewVec3(0, 1, 0), testEpsilon) {
			t.Errorf("vertex %d: expected an up normal, got %v", i, vertex.Normal)
		}
	}

	// The last vertex sits at the far corner and carries the full tiling.
	last := config.Vertices[len(config.Vertices)-1]
	floatNear(t, last.Texcoord.X, 2)
	floatNear(t, last.Texcoord.Y, 3)

	for i := 0; i+2 < len(config.Indices); i += 3 {
		cross := triangleCross(config.Vertices, config.Indices[i], config.Indices[i+1], config.Indices[i+2])
		if cross.Y <= 0 {
			t.Errorf("triangle %d: expected counter clockwise winding seen from above, cross %v", i/3, cross)
		}
	}
}

func TestGeneratePlaneConfigValidation(t *testing.T) {
	if _, err := GeneratePlaneConfig(0, 2, 1, 1, 1, 1, "bad", ""); err == nil {
		t.Errorf("expected an error for a zero width")
	}
	if _, err := GeneratePlaneConfig(2, 2, 0, 1, 1, 1, "bad", ""); err == nil {
		t.Errorf("expected an error for zero segments")
	}
}

func TestGenerateCubeConfig(t *testing.T) {
	config, err := GenerateCubeConfig(2, 4, 6, 1, 1, "test_cube", "crate")
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	if got := len(config.Vertices); got != 24 {
		t.Errorf("expected 24 vertices, got %d", got)
	}
	if got := len(config.Indices); got != 36 {
		t.Errorf("expected 36 indices, got %d", got)
	}

	vec3Near(t, config.MinExtents, math.NewVec3(-1, -2, -3))
	vec3Near(t, config.MaxExtents, math.NewVec3(1, 2, 3))
	vec3Near(t, config.Center, math.NewVec3(0, 0, 0))

	// Each face's triangles must wind counter clockwise seen from
	// outside, which means the winding cross points along the normal.
	for i := 0; i+2 < len(config.Indices); i += 3 {
		i0 := config.Indices[i]
		cross := triangleCross(config.Vertices, i0, config.Indices[i+1], config.Indices[i+2])
		if cross.Dot(config.Vertices[i0].Normal) <= 0 {
			t.Errorf("triangle %d: winding disagrees with the face normal %v", i/3, config.Vertices[i0].Normal)
		}
	}

	if _, err := GenerateCubeConfig(0, 1, 1, 1, 1, "bad", ""); err == nil {
		t.Errorf("expected an error for a zero dimension")
	}
}

func TestGenerateSphereConfig(t *testing.T) {
	const radius float32 = 2
	config, err := GenerateSphereConfig(radius, 8, 16, "test_sphere", "sky")
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	if got := len(config.Vertices); got != 153 {
		t.Errorf("expected 153 vertices, got %d", got)
	}
	// The cap rings drop one of their two triangles per sector.
	if got := len(config.Indices); got != 672 {
		t.Errorf("expected 672 indices, got %d", got)
	}

	for i, vertex := range config.Vertices {
		floatNear(t, vertex.Position.Length(), radius)
		floatNear(t, vertex.Normal.Length(), 1)
		if !vertex.Position.Normalized().Compare(vertex.Normal, testEpsilon) {
			t.Errorf("vertex %d: expected the normal to point away from the center", i)
		}
	}

	// Every triangle winds counter clockwise seen from outside the
	// sphere, so its winding cross points away from the center.
	for i := 0; i+2 < len(config.Indices); i += 3 {
		i0, i1, i2 := config.Indices[i], config.Indices[i+1], config.Indices[i+2]
		cross := triangleCross(config.Vertices, i0, i1, i2)
		centroid := triangleCentroid(config.Vertices, i0, i1, i2)
		if cross.Dot(centroid) <= 0 {
			t.Errorf("triangle %d: expected outward winding, cross %v at %v", i/3, cross, centroid)
		}
	}

	vec3Near(t, config.Center, math.NewVec3(0, 0, 0))
}

func TestGenerateSphereConfigValidation(t *testing.T) {
	if _, err := GenerateSphereConfig(0, 8, 16, "bad", ""); err == nil {
		t.Errorf("expected an error for a zero radius")
	}
	if _, err := GenerateSphereConfig(1, 1, 16, "bad", ""); err == nil {
		t.Errorf("expected an error for too few rings")
	}
	if _, err := GenerateSphereConfig(1, 8, 2, "bad", ""); err == nil {
		t.Errorf("expected an error for too few sectors")
	}
}

func TestNewGeometrySystemValidatesConfig(t *testing.T) {
	if _, err := NewGeometrySystem(GeometrySystemConfig{}, nil, nil); err == nil {
		t.Errorf("expected an error for a zero geometry capacity")
	}
}

func TestAcquireFromConfigRejectsEmptyGeometry(t *testing.T) {
	gs := &GeometrySystem{
		config:     GeometrySystemConfig{MaxGeometryCount: 4},
		geometries: map[uint32]*metadata.Geometry{},
	}

	if _, err := gs.AcquireFromConfig(&metadata.GeometryConfig{Name: "empty"}); err == nil {
		t.Errorf("expected an error for a geometry with no vertices")
	}

	config, err := GenerateCubeConfig(1, 1, 1, 1, 1, "cube", "")
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	config.Indices = nil
	if _, err := gs.AcquireFromConfig(config); err == nil {
		t.Errorf("expected an error for a geometry with no indices")
	}
}
