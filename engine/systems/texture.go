package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/lumina/engine/assets/loaders"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

/** @brief The configuration for the texture system. */
type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
}

type textureReference struct {
	texture        *metadata.Texture
	referenceCount uint64
}

/**
 * @brief Loads textures from disk, keeps them cached by path and owns
 * the set of default textures materials fall back to.
 */
type TextureSystem struct {
	config   TextureSystemConfig
	renderer *renderer.Renderer
	jobs     *JobSystem

	mu         sync.Mutex
	references map[string]*textureReference
	nextID     uint32

	defaultTexture         *metadata.Texture
	defaultDiffuseTexture  *metadata.Texture
	defaultSpecularTexture *metadata.Texture
	defaultNormalTexture   *metadata.Texture
}

func NewTextureSystem(config TextureSystemConfig, jobs *JobSystem, r *renderer.Renderer) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		return nil, fmt.Errorf("texture system requires MaxTextureCount greater than zero")
	}
	ts := &TextureSystem{
		config:     config,
		renderer:   r,
		jobs:       jobs,
		references: map[string]*textureReference{},
	}
	if err := ts.createDefaultTextures(); err != nil {
		return nil, err
	}
	return ts, nil
}

// createDefaultTextures builds the generated fallbacks. The checkerboard
// goes first and fills the whole sampler array, so a material whose maps
// failed to load renders visibly wrong instead of crashing.
func (ts *TextureSystem) createDefaultTextures() error {
	dimension, pixels := metadata.GenerateDefaultPixels()
	texture, err := ts.createTexture(metadata.DEFAULT_TEXTURE_NAME, dimension, dimension, 4, pixels, metadata.TextureRepeatRepeat)
	if err != nil {
		return err
	}
	if err := ts.renderer.ApplyDefaultTexture(texture); err != nil {
		return err
	}
	ts.defaultTexture = texture

	dimension, pixels = metadata.GenerateDefaultDiffusePixels()
	if ts.defaultDiffuseTexture, err = ts.createTexture(metadata.DEFAULT_DIFFUSE_TEXTURE_NAME, dimension, dimension, 4, pixels, metadata.TextureRepeatRepeat); err != nil {
		return err
	}
	dimension, pixels = metadata.GenerateDefaultSpecularPixels()
	if ts.defaultSpecularTexture, err = ts.createTexture(metadata.DEFAULT_SPECULAR_TEXTURE_NAME, dimension, dimension, 4, pixels, metadata.TextureRepeatRepeat); err != nil {
		return err
	}
	dimension, pixels = metadata.GenerateDefaultNormalPixels()
	if ts.defaultNormalTexture, err = ts.createTexture(metadata.DEFAULT_NORMAL_TEXTURE_NAME, dimension, dimension, 4, pixels, metadata.TextureRepeatRepeat); err != nil {
		return err
	}
	return nil
}

func (ts *TextureSystem) createTexture(name string, width, height uint32, channelCount uint8, pixels []uint8, repeat metadata.TextureRepeat) (*metadata.Texture, error) {
	ts.nextID++
	texture := &metadata.Texture{
		ID:           ts.nextID,
		Width:        width,
		Height:       height,
		ChannelCount: channelCount,
		Name:         name,
		SamplerIndex: -1,
	}
	if pixelsHaveTransparency(pixels) {
		texture.Flags |= metadata.TextureFlagBits(metadata.TextureFlagHasTransparency)
	}
	textureMap := &metadata.TextureMap{
		FilterMinify:  metadata.TextureFilterModeLinear,
		FilterMagnify: metadata.TextureFilterModeLinear,
		RepeatU:       repeat,
		RepeatV:       repeat,
	}
	if err := ts.renderer.CreateTexture(texture, textureMap, pixels); err != nil {
		return nil, fmt.Errorf("create texture %s: %w", name, err)
	}
	return texture, nil
}

func pixelsHaveTransparency(pixels []uint8) bool {
	for i := 3; i < len(pixels); i += 4 {
		if pixels[i] < 255 {
			return true
		}
	}
	return false
}

/**
 * @brief Returns the texture at the given path, loading it on first
 * use. Subsequent acquires of the same path share one texture.
 */
func (ts *TextureSystem) Acquire(path string) (*metadata.Texture, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ref, ok := ts.references[path]; ok {
		ref.referenceCount++
		return ref.texture, nil
	}

	img, err := loaders.LoadImage(path)
	if err != nil {
		return nil, err
	}
	texture, err := ts.insertLocked(path, img)
	if err != nil {
		return nil, err
	}
	ts.references[path].referenceCount++
	return texture, nil
}

/**
 * @brief Loads all given paths, decoding images on the job system
 * workers. Uploads still happen one by one on the calling goroutine.
 * The result slice matches the input order; paths already cached or
 * repeated in the batch share one texture. A path that fails to decode
 * yields a nil entry so the caller can substitute a default, only the
 * upload itself can fail the batch.
 */
func (ts *TextureSystem) AcquireBatch(paths []string) ([]*metadata.Texture, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	var pending []string
	seen := map[string]bool{}
	for _, path := range paths {
		if _, ok := ts.references[path]; ok || seen[path] {
			continue
		}
		seen[path] = true
		pending = append(pending, path)
	}

	images := make([]*loaders.ImageData, len(pending))
	jobs := make([]func() error, len(pending))
	for i := range pending {
		i := i
		jobs[i] = func() error {
			img, err := loaders.LoadImage(pending[i])
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		}
	}
	for i, err := range ts.jobs.RunBatch(jobs) {
		if err != nil {
			core.LogWarn("load texture %s: %s", pending[i], err)
		}
	}

	for i, path := range pending {
		if images[i] == nil {
			continue
		}
		if _, err := ts.insertLocked(path, images[i]); err != nil {
			return nil, err
		}
	}

	textures := make([]*metadata.Texture, len(paths))
	for i, path := range paths {
		ref, ok := ts.references[path]
		if !ok {
			continue
		}
		ref.referenceCount++
		textures[i] = ref.texture
	}
	return textures, nil
}

func (ts *TextureSystem) insertLocked(path string, img *loaders.ImageData) (*metadata.Texture, error) {
	if uint32(len(ts.references)) >= ts.config.MaxTextureCount {
		return nil, fmt.Errorf("texture system is full, %d textures loaded", len(ts.references))
	}
	texture, err := ts.createTexture(path, img.Width, img.Height, img.ChannelCount, img.Pixels, metadata.TextureRepeatRepeat)
	if err != nil {
		return nil, err
	}
	ts.references[path] = &textureReference{texture: texture}
	core.LogDebug("loaded texture %s (%dx%d)", path, img.Width, img.Height)
	return texture, nil
}

/**
 * @brief Creates a texture straight from pixels, bypassing the loader.
 * Used for atlases generated in code, such as font pages.
 */
func (ts *TextureSystem) CreateFromPixels(name string, width, height uint32, channelCount uint8, pixels []uint8) (*metadata.Texture, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, ok := ts.references[name]; ok {
		return nil, fmt.Errorf("texture %s already exists", name)
	}
	if uint32(len(ts.references)) >= ts.config.MaxTextureCount {
		return nil, fmt.Errorf("texture system is full, %d textures loaded", len(ts.references))
	}
	texture, err := ts.createTexture(name, width, height, channelCount, pixels, metadata.TextureRepeatClampToEdge)
	if err != nil {
		return nil, err
	}
	ts.references[name] = &textureReference{texture: texture, referenceCount: 1}
	return texture, nil
}

/**
 * @brief Releases one reference to the texture at the given path. The
 * texture is destroyed once the last reference is gone.
 */
func (ts *TextureSystem) Release(path string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ref, ok := ts.references[path]
	if !ok {
		core.LogWarn("released texture %s which was never acquired", path)
		return
	}
	if ref.referenceCount > 0 {
		ref.referenceCount--
	}
	if ref.referenceCount == 0 {
		if err := ts.renderer.DestroyTexture(ref.texture); err != nil {
			core.LogError("destroy texture %s: %s", path, err)
		}
		delete(ts.references, path)
	}
}

/** @brief Returns the fallback texture for the given map use. */
func (ts *TextureSystem) DefaultForUse(use metadata.TextureUse) *metadata.Texture {
	switch use {
	case metadata.TextureUseMapDiffuse:
		return ts.defaultDiffuseTexture
	case metadata.TextureUseMapSpecular:
		return ts.defaultSpecularTexture
	case metadata.TextureUseMapEmissive:
		// Black, a failed emissive map must not glow.
		return ts.defaultSpecularTexture
	case metadata.TextureUseMapNormal:
		return ts.defaultNormalTexture
	}
	return ts.defaultTexture
}

/** @brief Returns the blue and white checkerboard texture. */
func (ts *TextureSystem) DefaultTexture() *metadata.Texture {
	return ts.defaultTexture
}

func (ts *TextureSystem) Shutdown() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for path, ref := range ts.references {
		if err := ts.renderer.DestroyTexture(ref.texture); err != nil {
			core.LogError("destroy texture %s: %s", path, err)
		}
	}
	ts.references = map[string]*textureReference{}

	// The checkerboard goes last. Released sampler slots are pointed
	// back at it, so it must stay valid until everything else is gone.
	for _, texture := range []*metadata.Texture{ts.defaultNormalTexture, ts.defaultSpecularTexture, ts.defaultDiffuseTexture, ts.defaultTexture} {
		if texture == nil {
			continue
		}
		if err := ts.renderer.DestroyTexture(texture); err != nil {
			core.LogError("destroy texture %s: %s", texture.Name, err)
		}
	}
	return nil
}
