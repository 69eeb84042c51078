package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

func writeTestScene(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_scene.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSceneAppliesDefaults(t *testing.T) {
	path := writeTestScene(t, `
[[models]]
mesh = "meshes/crate.obj"
position = [1.0, 0.0, -2.0]

[[lights]]
type = "ambient"
color = [0.1, 0.1, 0.1]
`)

	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if scene.Name != "test_scene" {
		t.Errorf("expected name from the file name, got %q", scene.Name)
	}
	if len(scene.Models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(scene.Models))
	}
	model := scene.Models[0]
	if model.Name != "crate" {
		t.Errorf("expected model named after the mesh, got %q", model.Name)
	}
	if model.Scale != [3]float32{1, 1, 1} {
		t.Errorf("expected unit scale default, got %v", model.Scale)
	}
	if model.Position != [3]float32{1, 0, -2} {
		t.Errorf("unexpected position %v", model.Position)
	}
	if len(scene.Lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(scene.Lights))
	}
	if scene.Lights[0].Name == "" {
		t.Error("expected a generated light name")
	}
}

func TestLoadSceneRejectsUnknownLightType(t *testing.T) {
	path := writeTestScene(t, `
[[lights]]
type = "volumetric"
`)
	if _, err := LoadScene(path); err == nil {
		t.Error("expected an unknown light type to fail")
	}
}

func TestLoadSceneRejectsModelWithoutMesh(t *testing.T) {
	path := writeTestScene(t, `
[[models]]
name = "ghost"
`)
	if _, err := LoadScene(path); err == nil {
		t.Error("expected a model without a mesh to fail")
	}
}

func TestSceneLightToLightSource(t *testing.T) {
	spot := SceneLightConfig{
		Name:             "lamp",
		Type:             "spot",
		Color:            [3]float32{1, 0.9, 0.8},
		Position:         [3]float32{0, 3, 0},
		Direction:        [3]float32{0, -1, 0},
		InnerConeDegrees: 15,
		OuterConeDegrees: 25,
	}
	light, err := spot.ToLightSource()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if light.Type != metadata.LightTypeSpot {
		t.Errorf("expected spot type, got %v", light.Type)
	}
	if light.InnerConeAngle != math.DegToRad(15) {
		t.Errorf("expected inner angle in radians, got %f", light.InnerConeAngle)
	}
	if light.AttenuationConstant == 0 {
		t.Error("expected attenuation defaults for a spot light")
	}

	point := SceneLightConfig{Type: "point", Color: [3]float32{1, 1, 1}}
	pointLight, err := point.ToLightSource()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if pointLight.AttenuationConstant != 1 {
		t.Errorf("expected constant attenuation default 1, got %f", pointLight.AttenuationConstant)
	}

	directional := SceneLightConfig{Type: "directional", Color: [3]float32{1, 1, 1}}
	directionalLight, err := directional.ToLightSource()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if directionalLight.Direction.LengthSquared() == 0 {
		t.Error("expected a default direction for a directional light")
	}

	bad := SceneLightConfig{Type: "laser"}
	if _, err := bad.ToLightSource(); err == nil {
		t.Error("expected an unknown type to fail")
	}
}
