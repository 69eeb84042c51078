package metadata

import "github.com/spaghettifunk/lumina/engine/math"

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief Material configuration typically loaded from
 * a file or created in code to load a material from.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string
	/** @brief The diffuse colour of the material. */
	DiffuseColour math.Vec4
	/** @brief The ambient colour of the material. */
	AmbientColour math.Vec4
	/** @brief The specular colour of the material. */
	SpecularColour math.Vec4
	/** @brief The emissive colour of the material. */
	EmissiveColour math.Vec4
	/** @brief The shininess of the material. */
	Shininess float32
	/** @brief Scales the specular contribution. */
	ShininessStrength float32
	/** @brief The opacity of the material. */
	Opacity float32
	/** @brief Scales values sampled from the normal map. */
	BumpScaling float32
	/** @brief The diffuse map name. */
	DiffuseMapName string
	/** @brief The specular map name. */
	SpecularMapName string
	/** @brief The emissive map name. */
	EmissiveMapName string
	/** @brief The normal map name. */
	NormalMapName string
	/** @brief Texture coordinate offset and tiling as (offset u, offset v, tiling u, tiling v). */
	OffsetTiling math.Vec4
}

/**
 * @brief A material, which represents various properties
 * of a surface in the world such as texture, colour,
 * bumpiness, shininess and more.
 */
type Material struct {
	/** @brief The material id. */
	ID uint32
	/** @brief The material generation. Incremented every time the material is changed. */
	Generation uint32
	/** @brief The index of this material in the shader material buffer. */
	ShaderIndex int32
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	/** @brief The ambient colour. */
	AmbientColour math.Vec4
	/** @brief The specular colour. */
	SpecularColour math.Vec4
	/** @brief The emissive colour. */
	EmissiveColour math.Vec4
	/** @brief The material shininess, determines how concentrated the specular lighting is. */
	Shininess float32
	/** @brief Scales the specular contribution. */
	ShininessStrength float32
	/** @brief The opacity of the material. */
	Opacity float32
	/** @brief Scales values sampled from the normal map. */
	BumpScaling float32
	/** @brief The diffuse texture map. */
	DiffuseMap *TextureMap
	/** @brief The specular texture map. */
	SpecularMap *TextureMap
	/** @brief The emissive texture map. */
	EmissiveMap *TextureMap
	/** @brief The normal texture map. */
	NormalMap *TextureMap
	/** @brief Texture coordinate offset and tiling. */
	OffsetTiling math.Vec4
}

/**
 * @brief The material layout the fragment shader reads from the material
 * storage buffer. Field order and alignment must not change without also
 * changing the shader declaration.
 */
type MaterialShaderData struct {
	DiffuseColor  math.Vec4
	AmbientColor  math.Vec4
	SpecularColor math.Vec4
	EmissiveColor math.Vec4

	Shininess         float32
	ShininessStrength float32
	Opacity           float32
	BumpScaling       float32

	DiffuseTexIndex  int32
	SpecularTexIndex int32
	EmissiveTexIndex int32
	NormalTexIndex   int32

	DiffuseTexOffsetTiling  math.Vec4
	SpecularTexOffsetTiling math.Vec4
	EmissiveTexOffsetTiling math.Vec4
	NormalTexOffsetTiling   math.Vec4
}
