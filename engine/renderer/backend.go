package renderer

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// RendererBackend is the contract a render API backend fulfills. Frame
// recording happens between BeginFrame and EndFrame; resource creation
// and pipeline management happen outside of a frame, except for light
// uploads which belong inside one.
type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32)

	BeginFrame(deltaTime float64) error
	EndFrame() error
	WriteFrameUniforms(data []byte) error
	UploadLights(data []byte) (vk.Semaphore, error)
	AddPresentWait(semaphore vk.Semaphore)

	SetMaterials(data []byte) error
	CreateTexture(texture *metadata.Texture, textureMap *metadata.TextureMap, pixels []uint8) error
	DestroyTexture(texture *metadata.Texture) error
	ApplyDefaultTexture(texture *metadata.Texture) error
	CreateGeometry(geometry *metadata.Geometry, vertices []math.Vertex3D, indices []uint32) error
	DestroyGeometry(geometry *metadata.Geometry) error

	CreatePipeline(config metadata.PipelineConfig, vertexSPV, fragmentSPV []byte) error
	ReloadPipeline(config metadata.PipelineConfig, vertexSPV, fragmentSPV []byte) error
	UsePipeline(name string) error

	DrawGeometry(data metadata.GeometryRenderData) error
	DrawSky(data *metadata.SkyRenderData) error
	DrawOverlay(overlay *metadata.OverlayRenderData) error

	WaitIdle() error
}
