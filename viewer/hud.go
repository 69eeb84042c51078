package viewer

import (
	"fmt"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// Screen position of the first HUD line, in pixels.
const (
	hudMarginX float32 = 12
	hudMarginY float32 = 12
)

// buildHud turns the frame statistics into overlay text quads.
func (v *Viewer) buildHud(state *viewerState) *metadata.OverlayRenderData {
	fonts := v.SystemManager.Fonts

	fps, frameTime := core.MetricsFrame()
	text := fmt.Sprintf("FPS: %5.1f (%5.2f ms)\nCamera: %s\nNormal map: %.2f",
		fps, frameTime, v.SystemManager.Cameras.Mode(), state.normalMapStrength)

	vertices, indices := fonts.GenerateText(text, hudMarginX, hudMarginY)
	if len(vertices) == 0 {
		return nil
	}
	return &metadata.OverlayRenderData{
		Vertices:   vertices,
		Indices:    indices,
		AtlasIndex: fonts.Atlas().SamplerIndex,
	}
}
