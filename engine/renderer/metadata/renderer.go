package metadata

import (
	"github.com/spaghettifunk/lumina/engine/math"
)

/**
 * @brief The render data for a single geometry draw, produced once per
 * visible geometry per frame.
 */
type GeometryRenderData struct {
	/** @brief The geometry to draw. */
	Geometry *Geometry
	/** @brief The model matrix placing the geometry in the world. */
	Model math.Mat4
	/** @brief The index into the material shader buffer. */
	MaterialIndex int32
}

/**
 * @brief Screen space geometry drawn on top of the scene, typically text.
 */
type OverlayRenderData struct {
	/** @brief Interleaved screen space vertices. */
	Vertices []math.Vertex2D
	/** @brief Triangle indices into the vertex array. */
	Indices []uint32
	/** @brief The slot of the atlas texture in the shader sampler array. */
	AtlasIndex int32
}

/**
 * @brief The sky drawn behind everything else.
 */
type SkyRenderData struct {
	/** @brief The geometry the sky is rasterized with, a generated sphere. */
	Geometry *Geometry
}

/**
 * @brief A packet holding everything the renderer needs to draw one frame.
 */
type RenderPacket struct {
	/** @brief The time in seconds since the last frame. */
	DeltaTime float64
	/** @brief The packed frame uniform data, written into the frame UBO. */
	FrameUniforms []byte
	/** @brief The packed light ranges and records, uploaded to the light UBO. */
	Lights []byte
	/** @brief The scene geometries to draw, in submission order. */
	Geometries []GeometryRenderData
	/** @brief The sky, drawn first when present. */
	Sky *SkyRenderData
	/** @brief The overlay, drawn last when present. */
	Overlay *OverlayRenderData
}
