package systems

import (
	"fmt"
	"path/filepath"
	"sync"
	"unsafe"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

/** @brief The configuration for the material system. */
type MaterialSystemConfig struct {
	/** @brief The maximum number of materials the shader table can hold. */
	MaxMaterialCount uint32
}

/**
 * @brief Turns material configurations into materials with resolved
 * texture maps and packs them into the shader material table. Materials
 * are immutable once acquired, the table is uploaded once per scene.
 */
type MaterialSystem struct {
	config   MaterialSystemConfig
	renderer *renderer.Renderer
	textures *TextureSystem

	mu            sync.Mutex
	materials     map[string]*metadata.Material
	ordered       []*metadata.Material
	acquiredPaths []string
	nextID        uint32
}

func NewMaterialSystem(config MaterialSystemConfig, textures *TextureSystem, r *renderer.Renderer) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		return nil, fmt.Errorf("material system requires MaxMaterialCount greater than zero")
	}
	ms := &MaterialSystem{
		config:    config,
		renderer:  r,
		textures:  textures,
		materials: map[string]*metadata.Material{},
	}
	ms.createDefaultMaterial()
	return ms, nil
}

// createDefaultMaterial registers the material geometries fall back to
// when their own material is missing. The checkerboard diffuse map
// makes the fallback impossible to miss on screen.
func (ms *MaterialSystem) createDefaultMaterial() {
	ms.nextID++
	material := &metadata.Material{
		ID:                ms.nextID,
		ShaderIndex:       0,
		Name:              metadata.DefaultMaterialName,
		DiffuseColour:     math.NewVec4One(),
		AmbientColour:     math.NewVec4One(),
		SpecularColour:    math.NewVec4One(),
		EmissiveColour:    math.NewVec4(0, 0, 0, 1),
		Shininess:         32,
		ShininessStrength: 1,
		Opacity:           1,
		BumpScaling:       1,
		OffsetTiling:      math.NewVec4(0, 0, 1, 1),
		DiffuseMap: &metadata.TextureMap{
			Texture: ms.textures.DefaultTexture(),
			Use:     metadata.TextureUseMapDiffuse,
		},
	}
	ms.materials[material.Name] = material
	ms.ordered = append(ms.ordered, material)
}

/**
 * @brief Builds materials for every configuration, loading all their
 * texture maps in one batch first. Map names are resolved relative to
 * textureDir. A configuration whose name is already registered is
 * skipped, the first registration wins.
 */
func (ms *MaterialSystem) AcquireFromConfigs(configs []*metadata.MaterialConfig, textureDir string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var paths []string
	seen := map[string]bool{}
	for _, cfg := range configs {
		if _, ok := ms.materials[cfg.Name]; ok {
			continue
		}
		for _, name := range []string{cfg.DiffuseMapName, cfg.SpecularMapName, cfg.EmissiveMapName, cfg.NormalMapName} {
			if name == "" {
				continue
			}
			path := filepath.Join(textureDir, name)
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}

	loaded := map[string]*metadata.Texture{}
	if len(paths) > 0 {
		textures, err := ms.textures.AcquireBatch(paths)
		if err != nil {
			return err
		}
		for i, path := range paths {
			if textures[i] == nil {
				continue
			}
			loaded[path] = textures[i]
			ms.acquiredPaths = append(ms.acquiredPaths, path)
		}
	}

	for _, cfg := range configs {
		if _, ok := ms.materials[cfg.Name]; ok {
			continue
		}
		if _, err := ms.insertLocked(cfg, textureDir, loaded); err != nil {
			return err
		}
	}
	return nil
}

/**
 * @brief Builds a single material from its configuration, loading any
 * texture maps it names. Returns the existing material if the name is
 * already registered.
 */
func (ms *MaterialSystem) AcquireFromConfig(cfg *metadata.MaterialConfig, textureDir string) (*metadata.Material, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if material, ok := ms.materials[cfg.Name]; ok {
		return material, nil
	}
	return ms.insertLocked(cfg, textureDir, nil)
}

func (ms *MaterialSystem) insertLocked(cfg *metadata.MaterialConfig, textureDir string, loaded map[string]*metadata.Texture) (*metadata.Material, error) {
	if uint32(len(ms.ordered)) >= ms.config.MaxMaterialCount {
		return nil, fmt.Errorf("material system is full, %d materials registered", len(ms.ordered))
	}

	ms.nextID++
	material := &metadata.Material{
		ID:                ms.nextID,
		ShaderIndex:       int32(len(ms.ordered)),
		Name:              cfg.Name,
		DiffuseColour:     cfg.DiffuseColour,
		AmbientColour:     cfg.AmbientColour,
		SpecularColour:    cfg.SpecularColour,
		EmissiveColour:    cfg.EmissiveColour,
		Shininess:         cfg.Shininess,
		ShininessStrength: cfg.ShininessStrength,
		Opacity:           cfg.Opacity,
		BumpScaling:       cfg.BumpScaling,
		OffsetTiling:      cfg.OffsetTiling,
	}
	material.DiffuseMap = ms.resolveMap(cfg.DiffuseMapName, textureDir, metadata.TextureUseMapDiffuse, loaded)
	material.SpecularMap = ms.resolveMap(cfg.SpecularMapName, textureDir, metadata.TextureUseMapSpecular, loaded)
	material.EmissiveMap = ms.resolveMap(cfg.EmissiveMapName, textureDir, metadata.TextureUseMapEmissive, loaded)
	material.NormalMap = ms.resolveMap(cfg.NormalMapName, textureDir, metadata.TextureUseMapNormal, loaded)

	ms.materials[material.Name] = material
	ms.ordered = append(ms.ordered, material)
	return material, nil
}

// resolveMap turns a map name from a material configuration into a
// texture map. An empty name means the material has no such map. A
// name that fails to load falls back to the default for that use, so
// one bad file cannot take the scene down.
func (ms *MaterialSystem) resolveMap(name, textureDir string, use metadata.TextureUse, loaded map[string]*metadata.Texture) *metadata.TextureMap {
	if name == "" {
		return nil
	}
	path := filepath.Join(textureDir, name)

	texture, ok := loaded[path]
	if !ok && loaded == nil {
		acquired, err := ms.textures.Acquire(path)
		if err != nil {
			core.LogWarn("load texture %s: %s", path, err)
		} else {
			texture = acquired
			ms.acquiredPaths = append(ms.acquiredPaths, path)
		}
	}
	if texture == nil {
		core.LogWarn("material map %s missing, using the default for its use", path)
		texture = ms.textures.DefaultForUse(use)
	}
	return &metadata.TextureMap{
		Texture:       texture,
		Use:           use,
		FilterMinify:  metadata.TextureFilterModeLinear,
		FilterMagnify: metadata.TextureFilterModeLinear,
		RepeatU:       metadata.TextureRepeatRepeat,
		RepeatV:       metadata.TextureRepeatRepeat,
	}
}

/** @brief Returns the material with the given name, nil if unknown. */
func (ms *MaterialSystem) Material(name string) *metadata.Material {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.materials[name]
}

/**
 * @brief Returns the shader table index for the named material, or the
 * default material's index if the name is unknown.
 */
func (ms *MaterialSystem) MaterialIndex(name string) int32 {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if material, ok := ms.materials[name]; ok {
		return material.ShaderIndex
	}
	return 0
}

/** @brief Returns the fallback material at shader index zero. */
func (ms *MaterialSystem) DefaultMaterial() *metadata.Material {
	return ms.ordered[0]
}

/**
 * @brief Packs every registered material into the shader layout and
 * replaces the device material table. Call once after scene load, the
 * table is not meant to change during the frame loop.
 */
func (ms *MaterialSystem) UploadMaterials() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	table := make([]metadata.MaterialShaderData, len(ms.ordered))
	for i, material := range ms.ordered {
		table[i] = metadata.MaterialShaderData{
			DiffuseColor:  material.DiffuseColour,
			AmbientColor:  material.AmbientColour,
			SpecularColor: material.SpecularColour,
			EmissiveColor: material.EmissiveColour,

			Shininess:         material.Shininess,
			ShininessStrength: material.ShininessStrength,
			Opacity:           material.Opacity,
			BumpScaling:       material.BumpScaling,

			DiffuseTexIndex:  textureIndexOf(material.DiffuseMap),
			SpecularTexIndex: textureIndexOf(material.SpecularMap),
			EmissiveTexIndex: textureIndexOf(material.EmissiveMap),
			NormalTexIndex:   textureIndexOf(material.NormalMap),

			DiffuseTexOffsetTiling:  material.OffsetTiling,
			SpecularTexOffsetTiling: material.OffsetTiling,
			EmissiveTexOffsetTiling: material.OffsetTiling,
			NormalTexOffsetTiling:   material.OffsetTiling,
		}
	}

	size := len(table) * int(unsafe.Sizeof(metadata.MaterialShaderData{}))
	data := unsafe.Slice((*byte)(unsafe.Pointer(&table[0])), size)
	core.LogDebug("uploading %d materials", len(table))
	return ms.renderer.SetMaterials(data)
}

// textureIndexOf returns the sampler slot a map's texture occupies, or
// -1 when the material has no such map and the shader should use the
// material colour alone.
func textureIndexOf(textureMap *metadata.TextureMap) int32 {
	if textureMap == nil || textureMap.Texture == nil {
		return -1
	}
	return textureMap.Texture.SamplerIndex
}

func (ms *MaterialSystem) Shutdown() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, path := range ms.acquiredPaths {
		ms.textures.Release(path)
	}
	ms.acquiredPaths = nil
	ms.materials = map[string]*metadata.Material{}
	ms.ordered = nil
	return nil
}
