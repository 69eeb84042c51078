package metadata

const (
	/** @brief The default texture name. */
	DEFAULT_TEXTURE_NAME string = "default"
	/** @brief The default diffuse texture name. */
	DEFAULT_DIFFUSE_TEXTURE_NAME string = "default_DIFF"
	/** @brief The default specular texture name. */
	DEFAULT_SPECULAR_TEXTURE_NAME string = "default_SPEC"
	/** @brief The default normal texture name. */
	DEFAULT_NORMAL_TEXTURE_NAME string = "default_NORM"
)

type TextureFlag int

const (
	/** @brief Indicates if the texture has transparency. */
	TextureFlagHasTransparency TextureFlag = 0x1
	/** @brief Indicates if the texture can be written (rendered) to. */
	TextureFlagIsWriteable TextureFlag = 0x2
)

/** @brief Holds bit flags for textures. */
type TextureFlagBits uint8

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uint32
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels in the texture. */
	ChannelCount uint8
	/** @brief Holds various Flags for this texture. */
	Flags TextureFlagBits
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
	/** @brief The texture Name. */
	Name string
	/** @brief The slot the texture occupies in the shader sampler array. */
	SamplerIndex int32
	/** @brief Render API specific data, owned by the renderer backend. */
	InternalData interface{}
}

/** @brief A collection of texture uses */
type TextureUse int

const (
	/** @brief An unknown use. This is default, but should never actually be used. */
	TextureUseUnknown TextureUse = 0x00
	/** @brief The texture is used as a diffuse map. */
	TextureUseMapDiffuse TextureUse = 0x01
	/** @brief The texture is used as a specular map. */
	TextureUseMapSpecular TextureUse = 0x02
	/** @brief The texture is used as an emissive map. */
	TextureUseMapEmissive TextureUse = 0x03
	/** @brief The texture is used as a normal map. */
	TextureUseMapNormal TextureUse = 0x04
)

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

type TextureRepeat int

const (
	TextureRepeatRepeat         TextureRepeat = 0x1
	TextureRepeatMirroredRepeat TextureRepeat = 0x2
	TextureRepeatClampToEdge    TextureRepeat = 0x3
	TextureRepeatClampToBorder  TextureRepeat = 0x4
)

/**
 * @brief A structure which maps a texture, use and
 * other properties.
 */
type TextureMap struct {
	/** @brief A pointer to a Texture. */
	Texture *Texture
	/** @brief The Use of the texture */
	Use TextureUse
	/** @brief Texture filtering mode for minification. */
	FilterMinify TextureFilter
	/** @brief Texture filtering mode for magnification. */
	FilterMagnify TextureFilter
	/** @brief The repeat mode on the U axis (or X, or S) */
	RepeatU TextureRepeat
	/** @brief The repeat mode on the V axis (or Y, or T) */
	RepeatV TextureRepeat
}

const defaultTextureDimension uint32 = 256

// GenerateDefaultPixels returns a 256x256 blue and white checkerboard
// pattern, done in code to eliminate asset dependencies.
func GenerateDefaultPixels() (uint32, []uint8) {
	channels := uint32(4)
	pixelCount := defaultTextureDimension * defaultTextureDimension

	pixels := make([]uint8, pixelCount*channels)
	for i := range pixels {
		pixels[i] = 255
	}

	for row := uint32(0); row < defaultTextureDimension; row++ {
		for col := uint32(0); col < defaultTextureDimension; col++ {
			index := (row * defaultTextureDimension) + col
			indexBpp := index * channels
			if (row/16+col/16)%2 == 0 {
				// Zero out red and green to leave a blue square.
				pixels[indexBpp+0] = 0
				pixels[indexBpp+1] = 0
			}
		}
	}
	return defaultTextureDimension, pixels
}

// GenerateDefaultDiffusePixels returns an all white 16x16 diffuse map.
func GenerateDefaultDiffusePixels() (uint32, []uint8) {
	pixels := make([]uint8, 16*16*4)
	for i := range pixels {
		pixels[i] = 255
	}
	return 16, pixels
}

// GenerateDefaultSpecularPixels returns an all black 16x16 specular map,
// meaning no specular contribution by default.
func GenerateDefaultSpecularPixels() (uint32, []uint8) {
	pixels := make([]uint8, 16*16*4)
	for i := 3; i < len(pixels); i += 4 {
		pixels[i] = 255
	}
	return 16, pixels
}

// GenerateDefaultNormalPixels returns a 16x16 normal map pointing straight
// along the z axis.
func GenerateDefaultNormalPixels() (uint32, []uint8) {
	pixels := make([]uint8, 16*16*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i+0] = 128
		pixels[i+1] = 128
		pixels[i+2] = 255
		pixels[i+3] = 255
	}
	return 16, pixels
}
