package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// objCornerKey identifies one face corner by its resolved, zero based
// attribute indices. Absent attributes are -1.
type objCornerKey struct {
	position int
	texcoord int
	normal   int
}

// objSubmesh accumulates one geometry while parsing. A new submesh starts
// whenever the object name or the active material changes.
type objSubmesh struct {
	name       string
	material   string
	vertices   []math.Vertex3D
	indices    []uint32
	lookup     map[objCornerKey]uint32
	hasNormals bool
}

func newObjSubmesh(name, material string) *objSubmesh {
	return &objSubmesh{
		name:     name,
		material: material,
		lookup:   make(map[objCornerKey]uint32),
	}
}

// LoadWavefrontModel parses a wavefront OBJ file into one geometry
// configuration per object and material group, plus the materials of every
// referenced library. Faces with more than three corners are triangulated
// as a fan, corners shared between faces are deduplicated and normals are
// generated for geometry that comes without them.
func LoadWavefrontModel(path string) ([]*metadata.GeometryConfig, []*metadata.MaterialConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	var (
		positions []math.Vec3
		texcoords []math.Vec2
		normals   []math.Vec3
		materials []*metadata.MaterialConfig
		configs   []*metadata.GeometryConfig
	)
	usedNames := make(map[string]int)
	baseName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	current := newObjSubmesh(baseName, "")

	flush := func() {
		if len(current.indices) == 0 {
			return
		}
		configs = append(configs, current.finish(usedNames))
		current = newObjSubmesh(current.name, current.material)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		keyword := fields[0]
		args := fields[1:]

		switch keyword {
		case "v":
			point, err := parseVec3(args)
			if err != nil {
				return nil, nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
			}
			positions = append(positions, point)
		case "vt":
			if len(args) < 2 {
				return nil, nil, fmt.Errorf("%s:%d: expected 2 texture coordinates, got %d", path, lineNumber, len(args))
			}
			u, errU := strconv.ParseFloat(args[0], 32)
			v, errV := strconv.ParseFloat(args[1], 32)
			if errU != nil || errV != nil {
				return nil, nil, fmt.Errorf("%s:%d: invalid texture coordinate", path, lineNumber)
			}
			texcoords = append(texcoords, math.NewVec2(float32(u), float32(v)))
		case "vn":
			normal, err := parseVec3(args)
			if err != nil {
				return nil, nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
			}
			normals = append(normals, normal)
		case "f":
			if len(args) < 3 {
				return nil, nil, fmt.Errorf("%s:%d: face needs at least 3 corners, got %d", path, lineNumber, len(args))
			}
			corners := make([]uint32, len(args))
			for i, token := range args {
				key, err := parseObjCorner(token, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
				}
				corners[i] = current.addCorner(key, positions, texcoords, normals)
			}
			for i := 2; i < len(corners); i++ {
				current.indices = append(current.indices, corners[0], corners[i-1], corners[i])
			}
		case "o", "g":
			flush()
			if len(args) > 0 {
				current.name = args[0]
			}
		case "usemtl":
			if len(args) < 1 {
				return nil, nil, fmt.Errorf("%s:%d: usemtl without a name", path, lineNumber)
			}
			flush()
			current.material = args[0]
		case "mtllib":
			for _, lib := range args {
				libMaterials, err := ParseMaterialLibrary(filepath.Join(filepath.Dir(path), lib))
				if err != nil {
					return nil, nil, err
				}
				materials = append(materials, libMaterials...)
			}
		case "s":
			// Smoothing groups carry no information we use.
		default:
			core.LogDebug("%s:%d: skipping unknown statement '%s'", path, lineNumber, keyword)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	flush()

	if len(configs) == 0 {
		return nil, nil, fmt.Errorf("%s contains no faces", path)
	}
	return configs, materials, nil
}

// addCorner deduplicates corners so a position shared by several faces
// becomes a single vertex as long as its texcoord and normal match too.
func (sm *objSubmesh) addCorner(key objCornerKey, positions []math.Vec3, texcoords []math.Vec2, normals []math.Vec3) uint32 {
	if index, ok := sm.lookup[key]; ok {
		return index
	}
	vertex := math.Vertex3D{Position: positions[key.position]}
	if key.texcoord >= 0 {
		// Wavefront texture coordinates have their origin bottom left,
		// sampled images have it top left.
		tc := texcoords[key.texcoord]
		vertex.Texcoord = math.NewVec2(tc.X, 1-tc.Y)
	}
	if key.normal >= 0 {
		vertex.Normal = normals[key.normal]
		sm.hasNormals = true
	}
	index := uint32(len(sm.vertices))
	sm.vertices = append(sm.vertices, vertex)
	sm.lookup[key] = index
	return index
}

func (sm *objSubmesh) finish(usedNames map[string]int) *metadata.GeometryConfig {
	if !sm.hasNormals {
		math.GeometryGenerateNormals(sm.vertices, sm.indices)
	}
	extents := math.CalculateExtents(sm.vertices)

	name := sm.name
	if count := usedNames[sm.name]; count > 0 {
		name = fmt.Sprintf("%s_%d", sm.name, count)
	}
	usedNames[sm.name]++

	return &metadata.GeometryConfig{
		Vertices:     sm.vertices,
		Indices:      sm.indices,
		Center:       extents.Min.Add(extents.Max).MulScalar(0.5),
		MinExtents:   extents.Min,
		MaxExtents:   extents.Max,
		Name:         name,
		MaterialName: sm.material,
	}
}

func parseVec3(args []string) (math.Vec3, error) {
	if len(args) < 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(args))
	}
	var components [3]float32
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("invalid component %q", args[i])
		}
		components[i] = float32(value)
	}
	return math.NewVec3(components[0], components[1], components[2]), nil
}

// parseObjCorner resolves a face corner token such as "3", "3/1" or
// "3//7" into zero based indices. Negative indices count back from the
// most recently defined attribute.
func parseObjCorner(token string, positionCount, texcoordCount, normalCount int) (objCornerKey, error) {
	parts := strings.Split(token, "/")
	if len(parts) > 3 || parts[0] == "" {
		return objCornerKey{}, fmt.Errorf("malformed face corner %q", token)
	}

	key := objCornerKey{texcoord: -1, normal: -1}
	position, err := resolveObjIndex(parts[0], positionCount)
	if err != nil {
		return objCornerKey{}, fmt.Errorf("corner %q: %w", token, err)
	}
	key.position = position

	if len(parts) > 1 && parts[1] != "" {
		texcoord, err := resolveObjIndex(parts[1], texcoordCount)
		if err != nil {
			return objCornerKey{}, fmt.Errorf("corner %q: %w", token, err)
		}
		key.texcoord = texcoord
	}
	if len(parts) > 2 && parts[2] != "" {
		normal, err := resolveObjIndex(parts[2], normalCount)
		if err != nil {
			return objCornerKey{}, fmt.Errorf("corner %q: %w", token, err)
		}
		key.normal = normal
	}
	return key, nil
}

func resolveObjIndex(raw string, count int) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", raw)
	}
	switch {
	case index > 0:
		if index > count {
			return 0, fmt.Errorf("index %d out of range, only %d defined", index, count)
		}
		return index - 1, nil
	case index < 0:
		if -index > count {
			return 0, fmt.Errorf("relative index %d out of range, only %d defined", index, count)
		}
		return count + index, nil
	default:
		return 0, fmt.Errorf("wavefront indices are one based")
	}
}
