package systems

import (
	"testing"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// testMaterialSystem wires a material system against hand built default
// textures, skipping the device uploads that need a live renderer.
func testMaterialSystem(maxMaterials uint32) *MaterialSystem {
	textures := &TextureSystem{
		config:                 TextureSystemConfig{MaxTextureCount: 8},
		references:             map[string]*textureReference{},
		defaultTexture:         &metadata.Texture{Name: metadata.DEFAULT_TEXTURE_NAME, SamplerIndex: 0},
		defaultDiffuseTexture:  &metadata.Texture{Name: metadata.DEFAULT_DIFFUSE_TEXTURE_NAME, SamplerIndex: 1},
		defaultSpecularTexture: &metadata.Texture{Name: metadata.DEFAULT_SPECULAR_TEXTURE_NAME, SamplerIndex: 2},
		defaultNormalTexture:   &metadata.Texture{Name: metadata.DEFAULT_NORMAL_TEXTURE_NAME, SamplerIndex: 3},
	}
	ms := &MaterialSystem{
		config:    MaterialSystemConfig{MaxMaterialCount: maxMaterials},
		textures:  textures,
		materials: map[string]*metadata.Material{},
	}
	ms.createDefaultMaterial()
	return ms
}

func colorOnlyConfig(name string, color math.Vec4) *metadata.MaterialConfig {
	return &metadata.MaterialConfig{
		Name:              name,
		DiffuseColour:     color,
		AmbientColour:     math.NewVec4One(),
		SpecularColour:    math.NewVec4One(),
		EmissiveColour:    math.NewVec4(0, 0, 0, 1),
		Shininess:         32,
		ShininessStrength: 1,
		Opacity:           1,
		BumpScaling:       1,
		OffsetTiling:      math.NewVec4(0, 0, 1, 1),
	}
}

func TestMaterialIndicesAreDense(t *testing.T) {
	ms := testMaterialSystem(8)

	configs := []*metadata.MaterialConfig{
		colorOnlyConfig("stone", math.NewVec4(0.5, 0.5, 0.5, 1)),
		colorOnlyConfig("grass", math.NewVec4(0.1, 0.8, 0.2, 1)),
	}
	if err := ms.AcquireFromConfigs(configs, ""); err != nil {
		t.Fatalf("expected acquire to succeed, got %v", err)
	}

	if got := ms.DefaultMaterial().ShaderIndex; got != 0 {
		t.Errorf("expected the default material at index 0, got %d", got)
	}
	if got := ms.MaterialIndex("stone"); got != 1 {
		t.Errorf("expected stone at index 1, got %d", got)
	}
	if got := ms.MaterialIndex("grass"); got != 2 {
		t.Errorf("expected grass at index 2, got %d", got)
	}
}

func TestMaterialIndexUnknownName(t *testing.T) {
	ms := testMaterialSystem(8)

	if got := ms.MaterialIndex("never_registered"); got != 0 {
		t.Errorf("expected the default index 0 for an unknown name, got %d", got)
	}
}

func TestAcquireFromConfigsFirstRegistrationWins(t *testing.T) {
	ms := testMaterialSystem(8)

	first := colorOnlyConfig("crate", math.NewVec4(1, 0, 0, 1))
	second := colorOnlyConfig("crate", math.NewVec4(0, 0, 1, 1))
	if err := ms.AcquireFromConfigs([]*metadata.MaterialConfig{first, second}, ""); err != nil {
		t.Fatalf("expected acquire to succeed, got %v", err)
	}

	material := ms.Material("crate")
	if material == nil {
		t.Fatal("expected crate to be registered")
	}
	if material.DiffuseColour != first.DiffuseColour {
		t.Errorf("expected the first registration to win, got colour %v", material.DiffuseColour)
	}
}

func TestAcquireFromConfigsFullTable(t *testing.T) {
	// Room for the default material and one more.
	ms := testMaterialSystem(2)

	configs := []*metadata.MaterialConfig{
		colorOnlyConfig("fits", math.NewVec4One()),
		colorOnlyConfig("overflows", math.NewVec4One()),
	}
	if err := ms.AcquireFromConfigs(configs, ""); err == nil {
		t.Fatal("expected an error once the table is full")
	}
	if ms.Material("fits") == nil {
		t.Error("expected the material registered before the overflow to remain")
	}
}

func TestResolveMapMissingFallsBackToUseDefault(t *testing.T) {
	ms := testMaterialSystem(8)

	// A non nil loaded set marks a batch resolve, a miss must not touch
	// the loader path.
	textureMap := ms.resolveMap("missing_n.png", "", metadata.TextureUseMapNormal, map[string]*metadata.Texture{})
	if textureMap == nil {
		t.Fatal("expected a texture map for a named normal map")
	}
	if textureMap.Texture != ms.textures.defaultNormalTexture {
		t.Errorf("expected the default normal texture, got %v", textureMap.Texture)
	}
}

func TestTextureIndexOf(t *testing.T) {
	if got := textureIndexOf(nil); got != -1 {
		t.Errorf("expected -1 for a material without a map, got %d", got)
	}

	textureMap := &metadata.TextureMap{Texture: &metadata.Texture{SamplerIndex: 7}}
	if got := textureIndexOf(textureMap); got != 7 {
		t.Errorf("expected the sampler slot 7, got %d", got)
	}
}
