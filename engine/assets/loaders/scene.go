package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// SceneModelConfig places one model file in the world.
type SceneModelConfig struct {
	Name     string     `toml:"name"`
	Mesh     string     `toml:"mesh"`
	Position [3]float32 `toml:"position"`
	// Euler angles in degrees, applied in x, y, z order.
	Rotation [3]float32 `toml:"rotation"`
	Scale    [3]float32 `toml:"scale"`
}

// SceneLightConfig describes one light source. Cone angles are half
// angles measured from the spot axis, in degrees.
type SceneLightConfig struct {
	Name                 string     `toml:"name"`
	Type                 string     `toml:"type"`
	Color                [3]float32 `toml:"color"`
	Position             [3]float32 `toml:"position"`
	Direction            [3]float32 `toml:"direction"`
	InnerConeDegrees     float32    `toml:"inner_cone_degrees"`
	OuterConeDegrees     float32    `toml:"outer_cone_degrees"`
	Falloff              float32    `toml:"falloff"`
	AttenuationConstant  float32    `toml:"attenuation_constant"`
	AttenuationLinear    float32    `toml:"attenuation_linear"`
	AttenuationQuadratic float32    `toml:"attenuation_quadratic"`
}

// SceneConfig is a viewer scene as described by a scene file.
type SceneConfig struct {
	Name   string             `toml:"name"`
	Models []SceneModelConfig `toml:"models"`
	Lights []SceneLightConfig `toml:"lights"`
}

// LoadScene reads and validates a TOML scene description.
func LoadScene(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scene SceneConfig
	if err := toml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}
	if scene.Name == "" {
		scene.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for i := range scene.Models {
		model := &scene.Models[i]
		if model.Mesh == "" {
			return nil, fmt.Errorf("scene %s: model %d has no mesh", path, i)
		}
		if model.Name == "" {
			model.Name = strings.TrimSuffix(filepath.Base(model.Mesh), filepath.Ext(model.Mesh))
		}
		if model.Scale == [3]float32{} {
			model.Scale = [3]float32{1, 1, 1}
		}
	}
	for i := range scene.Lights {
		light := &scene.Lights[i]
		if _, err := lightTypeFromString(light.Type); err != nil {
			return nil, fmt.Errorf("scene %s: light %d: %w", path, i, err)
		}
		if light.Name == "" {
			light.Name = fmt.Sprintf("%s_light_%d", scene.Name, i)
		}
	}
	return &scene, nil
}

// ToLightSource converts the scene entry into a light source, turning
// degrees into radians and filling in usable defaults.
func (lc *SceneLightConfig) ToLightSource() (*metadata.LightSource, error) {
	lightType, err := lightTypeFromString(lc.Type)
	if err != nil {
		return nil, err
	}

	light := &metadata.LightSource{
		Name:                 lc.Name,
		Type:                 lightType,
		Color:                math.NewVec3(lc.Color[0], lc.Color[1], lc.Color[2]),
		Position:             math.NewVec3(lc.Position[0], lc.Position[1], lc.Position[2]),
		Direction:            math.NewVec3(lc.Direction[0], lc.Direction[1], lc.Direction[2]),
		InnerConeAngle:       math.DegToRad(lc.InnerConeDegrees),
		OuterConeAngle:       math.DegToRad(lc.OuterConeDegrees),
		Falloff:              lc.Falloff,
		AttenuationConstant:  lc.AttenuationConstant,
		AttenuationLinear:    lc.AttenuationLinear,
		AttenuationQuadratic: lc.AttenuationQuadratic,
		Enabled:              true,
	}

	needsDirection := lightType == metadata.LightTypeDirectional || lightType == metadata.LightTypeSpot
	if needsDirection && light.Direction.LengthSquared() == 0 {
		light.Direction = math.NewVec3(0, -1, 0)
	}
	needsAttenuation := lightType == metadata.LightTypePoint || lightType == metadata.LightTypeSpot
	if needsAttenuation && light.AttenuationConstant == 0 && light.AttenuationLinear == 0 && light.AttenuationQuadratic == 0 {
		light.AttenuationConstant = 1
		light.AttenuationLinear = 0.09
		light.AttenuationQuadratic = 0.032
	}
	if lightType == metadata.LightTypeSpot && light.OuterConeAngle == 0 {
		light.InnerConeAngle = math.DegToRad(20)
		light.OuterConeAngle = math.DegToRad(30)
	}
	if light.Falloff == 0 {
		light.Falloff = 1
	}
	return light, nil
}

func lightTypeFromString(name string) (metadata.LightType, error) {
	switch strings.ToLower(name) {
	case "ambient":
		return metadata.LightTypeAmbient, nil
	case "directional":
		return metadata.LightTypeDirectional, nil
	case "point":
		return metadata.LightTypePoint, nil
	case "spot":
		return metadata.LightTypeSpot, nil
	default:
		return 0, fmt.Errorf("unknown light type %q", name)
	}
}
