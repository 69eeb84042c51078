package metadata

import (
	"unsafe"

	"github.com/spaghettifunk/lumina/engine/math"
)

/** @brief The maximum number of light sources the shader buffer can hold. */
const MaxLightsources = 128

/**
 * @brief The kinds of light source the lighting pass understands. The
 * numeric order also determines how lights are grouped in the shader
 * buffer.
 */
type LightType int32

const (
	LightTypeAmbient     LightType = 0
	LightTypeDirectional LightType = 1
	LightTypePoint       LightType = 2
	LightTypeSpot        LightType = 3
)

func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	}
	return "unknown"
}

/**
 * @brief A single light source in the world. Which fields are meaningful
 * depends on the light type: ambient lights only use the colour,
 * directional lights add a direction, point lights a position and
 * attenuation, spot lights all of them plus the cone angles.
 */
type LightSource struct {
	/** @brief The light name. */
	Name string
	/** @brief The light type. */
	Type LightType
	/** @brief The light colour, scaled by intensity. */
	Color math.Vec3
	/** @brief The direction the light shines in, in world space. */
	Direction math.Vec3
	/** @brief The position of the light, in world space. */
	Position math.Vec3
	/** @brief The cosine falloff start angle for spot lights, in radians. */
	InnerConeAngle float32
	/** @brief The cosine falloff end angle for spot lights, in radians. */
	OuterConeAngle float32
	/** @brief The exponent shaping the falloff between the cone angles. */
	Falloff float32
	/** @brief Constant, linear and quadratic attenuation coefficients. */
	AttenuationConstant  float32
	AttenuationLinear    float32
	AttenuationQuadratic float32
	/** @brief Disabled lights are skipped when the shader buffer is packed. */
	Enabled bool
}

/**
 * @brief The per light layout the fragment shader reads from the light
 * storage buffer. Direction and position are expected in view space.
 */
type LightShaderData struct {
	/** @brief rgb holds the colour, w is unused. */
	Color math.Vec4
	/** @brief xyz holds the view space direction, w is unused. */
	Direction math.Vec4
	/** @brief xyz holds the view space position, w is unused. */
	Position math.Vec4
	/** @brief x holds the cosine of the outer cone angle, y the cosine of the inner cone angle, z the falloff exponent. */
	Angles math.Vec4
	/** @brief x, y, z hold the constant, linear and quadratic coefficients. */
	Attenuation math.Vec4
	/** @brief x holds the light type. */
	Info [4]int32
}

/**
 * @brief Index ranges grouping the light buffer by type. Every range is
 * half open, with To pointing one past the last light of that type. A
 * type with no lights has From equal to To.
 */
type LightRanges struct {
	AmbientFrom     uint32
	AmbientTo       uint32
	DirectionalFrom uint32
	DirectionalTo   uint32
	PointFrom       uint32
	PointTo         uint32
	SpotFrom        uint32
	SpotTo          uint32
}

// Count returns the total number of lights covered by the ranges.
func (r LightRanges) Count() uint32 {
	return r.SpotTo - r.AmbientFrom
}

/**
 * @brief The complete light buffer as the fragment shader sees it: the
 * ranges header followed by the fixed size light array. The buffer is
 * uploaded whole every frame, unused slots are left as they are.
 */
type LightsBlock struct {
	Ranges LightRanges
	Lights [MaxLightsources]LightShaderData
}

// Bytes returns the raw view of the block for the renderer upload.
func (b *LightsBlock) Bytes() []byte {
	const size = int(unsafe.Sizeof(LightsBlock{}))
	return unsafe.Slice((*byte)(unsafe.Pointer(b)), size)
}
