package systems

import (
	"fmt"
	m "math"
	"sync"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

/** @brief The configuration for the geometry system. */
type GeometrySystemConfig struct {
	/** @brief The maximum number of geometries that can be loaded at once. */
	MaxGeometryCount uint32
}

/**
 * @brief Uploads geometry configurations to the device and tracks the
 * resulting geometries until they are released.
 */
type GeometrySystem struct {
	config    GeometrySystemConfig
	renderer  *renderer.Renderer
	materials *MaterialSystem

	mu         sync.Mutex
	geometries map[uint32]*metadata.Geometry
	nextID     uint32
}

func NewGeometrySystem(config GeometrySystemConfig, materials *MaterialSystem, r *renderer.Renderer) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		return nil, fmt.Errorf("geometry system requires MaxGeometryCount greater than zero")
	}
	return &GeometrySystem{
		config:     config,
		renderer:   r,
		materials:  materials,
		geometries: map[uint32]*metadata.Geometry{},
	}, nil
}

/**
 * @brief Uploads the configuration's vertex and index data and returns
 * the geometry ready to draw. The configuration's material name is
 * resolved through the material system, falling back to the default
 * material when unknown.
 */
func (gs *GeometrySystem) AcquireFromConfig(config *metadata.GeometryConfig) (*metadata.Geometry, error) {
	if len(config.Vertices) == 0 {
		return nil, fmt.Errorf("geometry %s has no vertices", config.Name)
	}
	if len(config.Indices) == 0 {
		return nil, fmt.Errorf("geometry %s has no indices", config.Name)
	}

	gs.mu.Lock()
	defer gs.mu.Unlock()

	if uint32(len(gs.geometries)) >= gs.config.MaxGeometryCount {
		return nil, fmt.Errorf("geometry system is full, %d geometries loaded", len(gs.geometries))
	}

	material := gs.materials.Material(config.MaterialName)
	if material == nil {
		if config.MaterialName != "" {
			core.LogWarn("geometry %s wants unknown material %s, using the default", config.Name, config.MaterialName)
		}
		material = gs.materials.DefaultMaterial()
	}

	gs.nextID++
	geometry := &metadata.Geometry{
		ID:     gs.nextID,
		Center: config.Center,
		Extents: math.Extents3D{
			Min: config.MinExtents,
			Max: config.MaxExtents,
		},
		Name:     config.Name,
		Material: material,
	}
	if err := gs.renderer.CreateGeometry(geometry, config.Vertices, config.Indices); err != nil {
		return nil, fmt.Errorf("create geometry %s: %w", config.Name, err)
	}
	gs.geometries[geometry.ID] = geometry
	return geometry, nil
}

/** @brief Releases the geometry and frees its device buffers. */
func (gs *GeometrySystem) Release(geometry *metadata.Geometry) {
	if geometry == nil {
		return
	}
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, ok := gs.geometries[geometry.ID]; !ok {
		return
	}
	if err := gs.renderer.DestroyGeometry(geometry); err != nil {
		core.LogError("destroy geometry %s: %s", geometry.Name, err)
	}
	delete(gs.geometries, geometry.ID)
}

func (gs *GeometrySystem) Shutdown() error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	for _, geometry := range gs.geometries {
		if err := gs.renderer.DestroyGeometry(geometry); err != nil {
			core.LogError("destroy geometry %s: %s", geometry.Name, err)
		}
	}
	gs.geometries = map[uint32]*metadata.Geometry{}
	return nil
}

// finishConfig fills in the derived fields every generator shares.
func finishConfig(config *metadata.GeometryConfig) *metadata.GeometryConfig {
	extents := math.CalculateExtents(config.Vertices)
	config.MinExtents = extents.Min
	config.MaxExtents = extents.Max
	config.Center = extents.Min.Add(extents.Max).MulScalar(0.5)
	return config
}

/**
 * @brief Generates a flat plane in the xz plane, centered on the
 * origin, facing up. Texture coordinates run tileX and tileY times
 * across the full plane.
 */
func GeneratePlaneConfig(width, depth float32, xSegments, zSegments uint32, tileX, tileY float32, name, materialName string) (*metadata.GeometryConfig, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("plane %s requires a positive width and depth", name)
	}
	if xSegments < 1 || zSegments < 1 {
		return nil, fmt.Errorf("plane %s requires at least one segment per axis", name)
	}

	vertexColumns := xSegments + 1
	vertices := make([]math.Vertex3D, 0, vertexColumns*(zSegments+1))
	for iz := uint32(0); iz <= zSegments; iz++ {
		for ix := uint32(0); ix <= xSegments; ix++ {
			fx := float32(ix) / float32(xSegments)
			fz := float32(iz) / float32(zSegments)
			vertices = append(vertices, math.Vertex3D{
				Position: math.NewVec3((fx-0.5)*width, 0, (fz-0.5)*depth),
				Normal:   math.NewVec3(0, 1, 0),
				Texcoord: math.NewVec2(fx*tileX, fz*tileY),
			})
		}
	}

	indices := make([]uint32, 0, xSegments*zSegments*6)
	for iz := uint32(0); iz < zSegments; iz++ {
		for ix := uint32(0); ix < xSegments; ix++ {
			i00 := iz*vertexColumns + ix
			i10 := i00 + 1
			i01 := i00 + vertexColumns
			i11 := i01 + 1
			indices = append(indices, i00, i01, i11, i00, i11, i10)
		}
	}

	return finishConfig(&metadata.GeometryConfig{
		Vertices:     vertices,
		Indices:      indices,
		Name:         name,
		MaterialName: materialName,
	}), nil
}

// quad corner order is bottom left, bottom right, top right, top left
// as seen from outside the face.
func appendQuad(vertices []math.Vertex3D, indices []uint32, corners [4]math.Vertex3D) ([]math.Vertex3D, []uint32) {
	base := uint32(len(vertices))
	vertices = append(vertices, corners[0], corners[1], corners[2], corners[3])
	indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	return vertices, indices
}

/**
 * @brief Generates a box centered on the origin with outward faces.
 */
func GenerateCubeConfig(width, height, depth, tileX, tileY float32, name, materialName string) (*metadata.GeometryConfig, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("cube %s requires positive dimensions", name)
	}

	hx, hy, hz := width/2, height/2, depth/2
	corner := func(x, y, z float32, normal math.Vec3, u, v float32) math.Vertex3D {
		return math.Vertex3D{
			Position: math.NewVec3(x, y, z),
			Normal:   normal,
			Texcoord: math.NewVec2(u*tileX, v*tileY),
		}
	}

	var vertices []math.Vertex3D
	var indices []uint32

	front := math.NewVec3(0, 0, 1)
	vertices, indices = appendQuad(vertices, indices, [4]math.Vertex3D{
		corner(-hx, -hy, hz, front, 0, 1),
		corner(hx, -hy, hz, front, 1, 1),
		corner(hx, hy, hz, front, 1, 0),
		corner(-hx, hy, hz, front, 0, 0),
	})
	back := math.NewVec3(0, 0, -1)
	vertices, indices = appendQuad(vertices, indices, [4]math.Vertex3D{
		corner(hx, -hy, -hz, back, 0, 1),
		corner(-hx, -hy, -hz, back, 1, 1),
		corner(-hx, hy, -hz, back, 1, 0),
		corner(hx, hy, -hz, back, 0, 0),
	})
	right := math.NewVec3(1, 0, 0)
	vertices, indices = appendQuad(vertices, indices, [4]math.Vertex3D{
		corner(hx, -hy, hz, right, 0, 1),
		corner(hx, -hy, -hz, right, 1, 1),
		corner(hx, hy, -hz, right, 1, 0),
		corner(hx, hy, hz, right, 0, 0),
	})
	left := math.NewVec3(-1, 0, 0)
	vertices, indices = appendQuad(vertices, indices, [4]math.Vertex3D{
		corner(-hx, -hy, -hz, left, 0, 1),
		corner(-hx, -hy, hz, left, 1, 1),
		corner(-hx, hy, hz, left, 1, 0),
		corner(-hx, hy, -hz, left, 0, 0),
	})
	top := math.NewVec3(0, 1, 0)
	vertices, indices = appendQuad(vertices, indices, [4]math.Vertex3D{
		corner(-hx, hy, hz, top, 0, 1),
		corner(hx, hy, hz, top, 1, 1),
		corner(hx, hy, -hz, top, 1, 0),
		corner(-hx, hy, -hz, top, 0, 0),
	})
	bottom := math.NewVec3(0, -1, 0)
	vertices, indices = appendQuad(vertices, indices, [4]math.Vertex3D{
		corner(-hx, -hy, -hz, bottom, 0, 1),
		corner(hx, -hy, -hz, bottom, 1, 1),
		corner(hx, -hy, hz, bottom, 1, 0),
		corner(-hx, -hy, hz, bottom, 0, 0),
	})

	return finishConfig(&metadata.GeometryConfig{
		Vertices:     vertices,
		Indices:      indices,
		Name:         name,
		MaterialName: materialName,
	}), nil
}

/**
 * @brief Generates a uv sphere centered on the origin. Rings run from
 * pole to pole, sectors around the equator.
 */
func GenerateSphereConfig(radius float32, rings, sectors uint32, name, materialName string) (*metadata.GeometryConfig, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sphere %s requires a positive radius", name)
	}
	if rings < 2 || sectors < 3 {
		return nil, fmt.Errorf("sphere %s requires at least 2 rings and 3 sectors", name)
	}

	vertexColumns := sectors + 1
	vertices := make([]math.Vertex3D, 0, vertexColumns*(rings+1))
	for ring := uint32(0); ring <= rings; ring++ {
		theta := float64(ring) / float64(rings) * m.Pi
		y := float32(m.Cos(theta))
		ringRadius := float32(m.Sin(theta))
		for sector := uint32(0); sector <= sectors; sector++ {
			phi := float64(sector) / float64(sectors) * 2 * m.Pi
			normal := math.NewVec3(ringRadius*float32(m.Sin(phi)), y, ringRadius*float32(m.Cos(phi)))
			vertices = append(vertices, math.Vertex3D{
				Position: normal.MulScalar(radius),
				Normal:   normal,
				Texcoord: math.NewVec2(float32(sector)/float32(sectors), float32(ring)/float32(rings)),
			})
		}
	}

	indices := make([]uint32, 0, rings*sectors*6)
	for ring := uint32(0); ring < rings; ring++ {
		for sector := uint32(0); sector < sectors; sector++ {
			i00 := ring*vertexColumns + sector
			i01 := i00 + 1
			i10 := i00 + vertexColumns
			i11 := i10 + 1
			// The triangle touching two coincident pole vertices is
			// dropped at either cap.
			if ring < rings-1 {
				indices = append(indices, i00, i10, i11)
			}
			if ring > 0 {
				indices = append(indices, i00, i11, i01)
			}
		}
	}

	return finishConfig(&metadata.GeometryConfig{
		Vertices:     vertices,
		Indices:      indices,
		Name:         name,
		MaterialName: materialName,
	}), nil
}
