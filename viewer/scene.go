package viewer

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/lumina/engine"
	"github.com/spaghettifunk/lumina/engine/assets/loaders"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
	"github.com/spaghettifunk/lumina/engine/systems"
)

// Scene is what the viewer draws every frame once loading is done.
type Scene struct {
	Name       string
	Geometries []metadata.GeometryRenderData
}

// loadScene builds the scene named in the configuration, or the built
// in demo scene when no scene file is configured. A configured path
// that fails to load is an error, not a fallback.
func loadScene(g *engine.Game) (*Scene, error) {
	if path := g.Config.Scene.Path; path != "" {
		return loadSceneFile(g, path)
	}
	return buildDemoScene(g)
}

func loadSceneFile(g *engine.Game, path string) (*Scene, error) {
	sceneConfig, err := loaders.LoadScene(path)
	if err != nil {
		return nil, err
	}

	scene := &Scene{Name: sceneConfig.Name}
	sceneDir := filepath.Dir(path)

	for i := range sceneConfig.Models {
		model := &sceneConfig.Models[i]

		meshPath := model.Mesh
		if !filepath.IsAbs(meshPath) {
			meshPath = filepath.Join(sceneDir, meshPath)
		}

		geometryConfigs, materialConfigs, err := loaders.LoadWavefrontModel(meshPath)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", model.Name, err)
		}
		if err := g.SystemManager.Materials.AcquireFromConfigs(materialConfigs, filepath.Dir(meshPath)); err != nil {
			return nil, fmt.Errorf("model %s materials: %w", model.Name, err)
		}

		world := modelMatrix(model)
		for _, geometryConfig := range geometryConfigs {
			if err := scene.add(g, geometryConfig, world); err != nil {
				return nil, fmt.Errorf("model %s: %w", model.Name, err)
			}
		}
	}

	for i := range sceneConfig.Lights {
		source, err := sceneConfig.Lights[i].ToLightSource()
		if err != nil {
			return nil, err
		}
		g.SystemManager.Lights.Add(source)
	}

	return scene, nil
}

// add acquires the geometry and records a draw entry for it under the
// given world transform.
func (s *Scene) add(g *engine.Game, config *metadata.GeometryConfig, world math.Mat4) error {
	geometry, err := g.SystemManager.Geometries.AcquireFromConfig(config)
	if err != nil {
		return err
	}
	s.Geometries = append(s.Geometries, metadata.GeometryRenderData{
		Geometry:      geometry,
		Model:         world,
		MaterialIndex: g.SystemManager.Materials.MaterialIndex(config.MaterialName),
	})
	return nil
}

func modelMatrix(model *loaders.SceneModelConfig) math.Mat4 {
	rotation := math.NewQuatFromEuler(
		math.DegToRad(model.Rotation[0]),
		math.DegToRad(model.Rotation[1]),
		math.DegToRad(model.Rotation[2]))
	transform := math.NewTransformFromPositionRotationScale(
		math.NewVec3(model.Position[0], model.Position[1], model.Position[2]),
		rotation,
		math.NewVec3(model.Scale[0], model.Scale[1], model.Scale[2]))
	return transform.GetWorld()
}

// Checkerboard texture parameters for the demo ground.
const (
	demoCheckerSize    = 256
	demoCheckerSquares = 8
)

// buildDemoScene generates a small stage so the viewer shows something
// useful without any assets on disk: a checkered ground plane, a few
// boxes, a sphere and a light rig exercising every light type.
func buildDemoScene(g *engine.Game) (*Scene, error) {
	sm := g.SystemManager

	pixels := checkerboardPixels(demoCheckerSize, demoCheckerSquares,
		[4]uint8{235, 235, 235, 255}, [4]uint8{40, 40, 45, 255})
	if _, err := sm.Textures.CreateFromPixels("demo_checker",
		demoCheckerSize, demoCheckerSize, 4, pixels); err != nil {
		return nil, err
	}

	materials := []*metadata.MaterialConfig{
		{
			Name:              "demo_ground",
			DiffuseColour:     math.NewVec4One(),
			AmbientColour:     math.NewVec4One(),
			SpecularColour:    math.NewVec4(0.25, 0.25, 0.25, 1),
			EmissiveColour:    math.NewVec4(0, 0, 0, 1),
			Shininess:         16,
			ShininessStrength: 1,
			Opacity:           1,
			BumpScaling:       1,
			DiffuseMapName:    "demo_checker",
			OffsetTiling:      math.NewVec4(0, 0, 1, 1),
		},
		{
			Name:              "demo_box_red",
			DiffuseColour:     math.NewVec4(0.82, 0.16, 0.12, 1),
			AmbientColour:     math.NewVec4(0.82, 0.16, 0.12, 1),
			SpecularColour:    math.NewVec4(0.6, 0.6, 0.6, 1),
			EmissiveColour:    math.NewVec4(0, 0, 0, 1),
			Shininess:         32,
			ShininessStrength: 1,
			Opacity:           1,
			BumpScaling:       1,
			OffsetTiling:      math.NewVec4(0, 0, 1, 1),
		},
		{
			Name:              "demo_box_blue",
			DiffuseColour:     math.NewVec4(0.18, 0.35, 0.86, 1),
			AmbientColour:     math.NewVec4(0.18, 0.35, 0.86, 1),
			SpecularColour:    math.NewVec4(0.6, 0.6, 0.6, 1),
			EmissiveColour:    math.NewVec4(0, 0, 0, 1),
			Shininess:         32,
			ShininessStrength: 1,
			Opacity:           1,
			BumpScaling:       1,
			OffsetTiling:      math.NewVec4(0, 0, 1, 1),
		},
		{
			Name:              "demo_sphere",
			DiffuseColour:     math.NewVec4(1, 0.78, 0.3, 1),
			AmbientColour:     math.NewVec4(1, 0.78, 0.3, 1),
			SpecularColour:    math.NewVec4(0.9, 0.9, 0.9, 1),
			EmissiveColour:    math.NewVec4(0, 0, 0, 1),
			Shininess:         64,
			ShininessStrength: 1,
			Opacity:           1,
			BumpScaling:       1,
			OffsetTiling:      math.NewVec4(0, 0, 1, 1),
		},
	}
	if err := sm.Materials.AcquireFromConfigs(materials, ""); err != nil {
		return nil, err
	}

	scene := &Scene{Name: "demo"}

	ground, err := systems.GeneratePlaneConfig(24, 24, 4, 4, 1, 1, "demo_ground", "demo_ground")
	if err != nil {
		return nil, err
	}
	if err := scene.add(g, ground, math.NewMat4Identity()); err != nil {
		return nil, err
	}

	boxA, err := systems.GenerateCubeConfig(2, 2, 2, 1, 1, "demo_box_a", "demo_box_red")
	if err != nil {
		return nil, err
	}
	if err := scene.add(g, boxA, math.NewMat4Translation(math.NewVec3(3, 1, -1))); err != nil {
		return nil, err
	}

	boxB, err := systems.GenerateCubeConfig(1.2, 1.2, 1.2, 1, 1, "demo_box_b", "demo_box_blue")
	if err != nil {
		return nil, err
	}
	boxBTransform := math.NewTransformFromPositionRotationScale(
		math.NewVec3(-2.5, 0.6, 1.5),
		math.NewQuatFromAxisAngle(math.NewVec3Up(), math.DegToRad(30), true),
		math.NewVec3One())
	if err := scene.add(g, boxB, boxBTransform.GetWorld()); err != nil {
		return nil, err
	}

	boxC, err := systems.GenerateCubeConfig(1, 3, 1, 1, 1, "demo_box_c", "demo_box_blue")
	if err != nil {
		return nil, err
	}
	if err := scene.add(g, boxC, math.NewMat4Translation(math.NewVec3(-1, 1.5, -3.5))); err != nil {
		return nil, err
	}

	sphere, err := systems.GenerateSphereConfig(1, 24, 48, "demo_sphere", "demo_sphere")
	if err != nil {
		return nil, err
	}
	if err := scene.add(g, sphere, math.NewMat4Translation(math.NewVec3(0, 1, 0))); err != nil {
		return nil, err
	}

	addDemoLights(sm.Lights)
	return scene, nil
}

func addDemoLights(lights *systems.LightSystem) {
	lights.Add(&metadata.LightSource{
		Name:    "demo_ambient",
		Type:    metadata.LightTypeAmbient,
		Color:   math.NewVec3(0.08, 0.08, 0.1),
		Enabled: true,
	})
	lights.Add(&metadata.LightSource{
		Name:      "demo_sun",
		Type:      metadata.LightTypeDirectional,
		Color:     math.NewVec3(0.85, 0.82, 0.78),
		Direction: math.NewVec3(-0.35, -1, -0.25),
		Enabled:   true,
	})
	lights.Add(&metadata.LightSource{
		Name:                 "demo_point_warm",
		Type:                 metadata.LightTypePoint,
		Color:                math.NewVec3(1, 0.3, 0.2),
		Position:             math.NewVec3(2.5, 1.3, 2.5),
		AttenuationConstant:  1,
		AttenuationLinear:    0.14,
		AttenuationQuadratic: 0.07,
		Enabled:              true,
	})
	lights.Add(&metadata.LightSource{
		Name:                 "demo_point_cold",
		Type:                 metadata.LightTypePoint,
		Color:                math.NewVec3(0.2, 0.4, 1),
		Position:             math.NewVec3(-2.5, 1.3, -2.5),
		AttenuationConstant:  1,
		AttenuationLinear:    0.14,
		AttenuationQuadratic: 0.07,
		Enabled:              true,
	})
	lights.Add(&metadata.LightSource{
		Name:                 "demo_spot",
		Type:                 metadata.LightTypeSpot,
		Color:                math.NewVec3(0.9, 0.9, 0.8),
		Position:             math.NewVec3(0, 5, 3),
		Direction:            math.NewVec3(0, -1, -0.6),
		InnerConeAngle:       math.DegToRad(20),
		OuterConeAngle:       math.DegToRad(30),
		Falloff:              1,
		AttenuationConstant:  1,
		AttenuationLinear:    0.09,
		AttenuationQuadratic: 0.032,
		Enabled:              true,
	})
}

// checkerboardPixels fills an RGBA square with squares by squares
// checker cells.
func checkerboardPixels(size, squares int, light, dark [4]uint8) []uint8 {
	pixels := make([]uint8, size*size*4)
	cell := size / squares
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			colour := light
			if ((x/cell)+(y/cell))%2 == 1 {
				colour = dark
			}
			offset := (y*size + x) * 4
			copy(pixels[offset:offset+4], colour[:])
		}
	}
	return pixels
}
