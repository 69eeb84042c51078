package renderer

import (
	"errors"

	"github.com/spaghettifunk/lumina/engine/config"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/platform"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
	"github.com/spaghettifunk/lumina/engine/renderer/vulkan"
)

// Names of the pipelines the frame loop binds for the fixed passes. The
// application creates pipelines under these names at startup.
const (
	ScenePipelineName   = "scene"
	SkyPipelineName     = "sky"
	OverlayPipelineName = "overlay"
)

// Renderer is the front end the rest of the engine talks to. It owns
// the backend and turns a render packet into one recorded frame.
type Renderer struct {
	backend RendererBackend
}

func New(p *platform.Platform, cfg *config.Config) *Renderer {
	return &Renderer{
		backend: vulkan.New(p, vulkan.VulkanBackendConfig{
			PresentMode:     cfg.Renderer.PresentMode,
			FramesInFlight:  uint32(cfg.Renderer.FramesInFlight),
			SwapchainImages: uint32(cfg.Renderer.SwapchainImages),
			Debug:           cfg.Logging.Level == "debug",
		}),
	}
}

func (r *Renderer) Initialize(appName string, width, height uint32) error {
	return r.backend.Initialize(appName, width, height)
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) {
	r.backend.Resized(width, height)
}

// DrawFrame records and submits one frame from the packet: frame
// uniforms and lights first, then the sky, the scene geometries and
// the overlay. A frame skipped because the swapchain is out of date is
// not an error, the next frame starts over with a fresh swapchain.
func (r *Renderer) DrawFrame(packet *metadata.RenderPacket) error {
	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		if errors.Is(err, core.ErrSwapchainOutOfDate) {
			return nil
		}
		return err
	}

	if len(packet.FrameUniforms) > 0 {
		if err := r.backend.WriteFrameUniforms(packet.FrameUniforms); err != nil {
			return err
		}
	}
	if len(packet.Lights) > 0 {
		semaphore, err := r.backend.UploadLights(packet.Lights)
		if err != nil {
			return err
		}
		r.backend.AddPresentWait(semaphore)
	}

	// The sky has depth testing disabled, so it must land before
	// anything that should appear in front of it.
	if packet.Sky != nil {
		if err := r.backend.UsePipeline(SkyPipelineName); err != nil {
			return err
		}
		if err := r.backend.DrawSky(packet.Sky); err != nil {
			return err
		}
	}

	if len(packet.Geometries) > 0 {
		if err := r.backend.UsePipeline(ScenePipelineName); err != nil {
			return err
		}
		for i := range packet.Geometries {
			if err := r.backend.DrawGeometry(packet.Geometries[i]); err != nil {
				return err
			}
		}
	}

	if packet.Overlay != nil {
		if err := r.backend.UsePipeline(OverlayPipelineName); err != nil {
			return err
		}
		if err := r.backend.DrawOverlay(packet.Overlay); err != nil {
			return err
		}
	}

	return r.backend.EndFrame()
}

func (r *Renderer) SetMaterials(data []byte) error {
	return r.backend.SetMaterials(data)
}

func (r *Renderer) CreateTexture(texture *metadata.Texture, textureMap *metadata.TextureMap, pixels []uint8) error {
	return r.backend.CreateTexture(texture, textureMap, pixels)
}

func (r *Renderer) DestroyTexture(texture *metadata.Texture) error {
	return r.backend.DestroyTexture(texture)
}

func (r *Renderer) ApplyDefaultTexture(texture *metadata.Texture) error {
	return r.backend.ApplyDefaultTexture(texture)
}

func (r *Renderer) CreateGeometry(geometry *metadata.Geometry, vertices []math.Vertex3D, indices []uint32) error {
	return r.backend.CreateGeometry(geometry, vertices, indices)
}

func (r *Renderer) DestroyGeometry(geometry *metadata.Geometry) error {
	return r.backend.DestroyGeometry(geometry)
}

func (r *Renderer) CreatePipeline(config metadata.PipelineConfig, vertexSPV, fragmentSPV []byte) error {
	return r.backend.CreatePipeline(config, vertexSPV, fragmentSPV)
}

func (r *Renderer) ReloadPipeline(config metadata.PipelineConfig, vertexSPV, fragmentSPV []byte) error {
	return r.backend.ReloadPipeline(config, vertexSPV, fragmentSPV)
}

func (r *Renderer) WaitIdle() error {
	return r.backend.WaitIdle()
}
