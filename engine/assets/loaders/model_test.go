package loaders

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadWavefrontModelTriangulatesAndDeduplicates(t *testing.T) {
	obj := `# a single quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`
	path := writeTestFile(t, t.TempDir(), "quad.obj", obj)

	configs, materials, err := LoadWavefrontModel(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(configs) != 1 {
		t.Fatalf("expected 1 geometry, got %d", len(configs))
	}
	if len(materials) != 0 {
		t.Errorf("expected no materials, got %d", len(materials))
	}

	geometry := configs[0]
	if geometry.Name != "quad" {
		t.Errorf("expected geometry named after the file, got %q", geometry.Name)
	}
	if len(geometry.Vertices) != 4 {
		t.Errorf("expected corners shared between triangles, got %d vertices", len(geometry.Vertices))
	}
	if len(geometry.Indices) != 6 {
		t.Errorf("expected a fan of 2 triangles, got %d indices", len(geometry.Indices))
	}
	// Texture coordinates are flipped to a top left origin.
	if geometry.Vertices[0].Texcoord.Y != 1 {
		t.Errorf("expected v=0 to flip to 1, got %f", geometry.Vertices[0].Texcoord.Y)
	}
	if geometry.Vertices[0].Normal.Z != 1 {
		t.Errorf("expected authored normal kept, got %v", geometry.Vertices[0].Normal)
	}
	if geometry.MaxExtents.X != 1 || geometry.MinExtents.X != 0 {
		t.Errorf("unexpected extents %v %v", geometry.MinExtents, geometry.MaxExtents)
	}
	if geometry.Center.X != 0.5 || geometry.Center.Y != 0.5 {
		t.Errorf("unexpected center %v", geometry.Center)
	}
}

func TestLoadWavefrontModelSplitsPerMaterial(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "boxes.mtl", `newmtl red
Kd 1 0 0
newmtl blue
Kd 0 0 1
`)
	obj := `mtllib boxes.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
usemtl red
f 1 2 3
usemtl blue
f 1 3 4
`
	path := writeTestFile(t, dir, "boxes.obj", obj)

	configs, materials, err := LoadWavefrontModel(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("expected one geometry per material group, got %d", len(configs))
	}
	if configs[0].MaterialName != "red" || configs[1].MaterialName != "blue" {
		t.Errorf("expected material names red and blue, got %q and %q", configs[0].MaterialName, configs[1].MaterialName)
	}
	if configs[0].Name == configs[1].Name {
		t.Errorf("expected distinct geometry names, both are %q", configs[0].Name)
	}
	if len(materials) != 2 {
		t.Fatalf("expected 2 materials from the library, got %d", len(materials))
	}
	if materials[0].Name != "red" || materials[0].DiffuseColour.X != 1 {
		t.Errorf("unexpected first material %+v", materials[0])
	}
}

func TestLoadWavefrontModelGeneratesMissingNormals(t *testing.T) {
	obj := `v 0 0 0
v 1 0 0
v 0 0 -1
f 1 2 3
`
	path := writeTestFile(t, t.TempDir(), "tri.obj", obj)

	configs, _, err := LoadWavefrontModel(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	normal := configs[0].Vertices[0].Normal
	if normal.Y != 1 || normal.X != 0 || normal.Z != 0 {
		t.Errorf("expected generated up normal for a floor triangle, got %v", normal)
	}
}

func TestLoadWavefrontModelNegativeIndices(t *testing.T) {
	obj := `v 0 0 0
v 1 0 0
v 1 1 0
f -3 -2 -1
`
	path := writeTestFile(t, t.TempDir(), "neg.obj", obj)

	configs, _, err := LoadWavefrontModel(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(configs[0].Vertices) != 3 {
		t.Errorf("expected 3 vertices, got %d", len(configs[0].Vertices))
	}
	if configs[0].Vertices[2].Position.Y != 1 {
		t.Errorf("expected -1 to resolve to the last position, got %v", configs[0].Vertices[2].Position)
	}
}

func TestLoadWavefrontModelRejectsBadIndex(t *testing.T) {
	obj := `v 0 0 0
f 1 2 3
`
	path := writeTestFile(t, t.TempDir(), "bad.obj", obj)

	if _, _, err := LoadWavefrontModel(path); err == nil {
		t.Error("expected an out of range index to fail")
	}
}

func TestLoadWavefrontModelRejectsEmpty(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "empty.obj", "v 0 0 0\n")

	if _, _, err := LoadWavefrontModel(path); err == nil {
		t.Error("expected a file without faces to fail")
	}
}

func TestParseMaterialLibrary(t *testing.T) {
	mtl := `# exported material
newmtl painted
Kd 0.8 0.2 0.1
Ka 0.5 0.5 0.5
Ks 1 1 1
Ke 0.1 0 0
Ns 96.0
d 0.75
map_Kd paint_diff.png
map_bump -bm 0.5 paint_norm.png
illum 2
`
	path := writeTestFile(t, t.TempDir(), "painted.mtl", mtl)

	materials, err := ParseMaterialLibrary(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(materials) != 1 {
		t.Fatalf("expected 1 material, got %d", len(materials))
	}
	material := materials[0]
	if material.Name != "painted" {
		t.Errorf("expected name painted, got %q", material.Name)
	}
	if material.DiffuseColour.X != 0.8 {
		t.Errorf("expected Kd red 0.8, got %f", material.DiffuseColour.X)
	}
	if material.Shininess != 96 {
		t.Errorf("expected shininess 96, got %f", material.Shininess)
	}
	if material.Opacity != 0.75 {
		t.Errorf("expected opacity 0.75, got %f", material.Opacity)
	}
	if material.DiffuseMapName != "paint_diff.png" {
		t.Errorf("expected diffuse map, got %q", material.DiffuseMapName)
	}
	if material.NormalMapName != "paint_norm.png" {
		t.Errorf("expected the map option skipped, got %q", material.NormalMapName)
	}
	if material.EmissiveColour.X != 0.1 {
		t.Errorf("expected Ke kept, got %v", material.EmissiveColour)
	}
}

func TestParseMaterialLibraryRejectsStatementBeforeNewmtl(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "loose.mtl", "Kd 1 1 1\n")

	if _, err := ParseMaterialLibrary(path); err == nil {
		t.Error("expected a statement before newmtl to fail")
	}
}
