package viewer

import (
	"unsafe"

	"github.com/spaghettifunk/lumina/engine/math"
)

/**
 * @brief The per frame uniform block shared by every pipeline. The
 * shaders declare the same block field for field, so layout changes
 * here must be mirrored there.
 */
type FrameUniforms struct {
	/** @brief The camera view matrix. */
	View math.Mat4
	/** @brief The camera projection matrix. */
	Projection math.Mat4
	/** @brief The camera world position as a translation matrix. */
	CameraPosition math.Mat4
	/** @brief Free viewer values for the shaders, x holds the normal map strength. */
	UserInput math.Vec4
}

// Bytes exposes the uniforms in the exact layout the UBO expects.
func (fu *FrameUniforms) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(fu)), int(unsafe.Sizeof(*fu)))
}
