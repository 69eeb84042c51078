package viewer

import (
	"github.com/spaghettifunk/lumina/engine"
	"github.com/spaghettifunk/lumina/engine/config"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
	"github.com/spaghettifunk/lumina/engine/systems"
)

// Normal map strength change per +/- key press.
const normalMapStrengthStep float32 = 0.05

type viewerState struct {
	scene *Scene
	sky   *metadata.SkyRenderData

	hudVisible        bool
	normalMapStrength float32
	cursorCaptured    bool
	scrollDelta       float32

	width  uint32
	height uint32
}

// Viewer is the model viewer application built on top of the engine.
type Viewer struct {
	*engine.Game
}

func New(cfg *config.Config) *Viewer {
	v := &Viewer{
		Game: &engine.Game{
			State: &viewerState{
				hudVisible:        cfg.Hud.Enabled,
				normalMapStrength: 1.0,
				width:             uint32(cfg.Window.Width),
				height:            uint32(cfg.Window.Height),
			},
		},
	}

	v.FnInitialize = v.Initialize
	v.FnUpdate = v.Update
	v.FnRender = v.Render
	v.FnOnResize = v.OnResize
	v.FnShutdown = v.Shutdown

	return v
}

func (v *Viewer) Initialize() error {
	state := v.State.(*viewerState)

	if err := v.createPipelines(); err != nil {
		return err
	}

	scene, err := loadScene(v.Game)
	if err != nil {
		return err
	}
	state.scene = scene
	core.LogInfo("scene %s loaded with %d geometries and %d lights",
		scene.Name, len(scene.Geometries), v.SystemManager.Lights.Count())

	sky, err := createSky(v.SystemManager)
	if err != nil {
		return err
	}
	state.sky = sky

	// Every material the scene will ever use is registered by now.
	if err := v.SystemManager.Materials.UploadMaterials(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_MOUSE_WHEEL, v.onMouseWheel)
	return nil
}

func (v *Viewer) createPipelines() error {
	configs := []metadata.PipelineConfig{
		{
			Name:               "scene",
			VertexShaderFile:   "shaders/scene.vert.spv",
			FragmentShaderFile: "shaders/scene.frag.spv",
			Layout:             metadata.VertexLayoutScene,
			CullMode:           metadata.FaceCullModeBack,
			DepthTest:          true,
			DepthWrite:         true,
		},
		{
			Name:               "sky",
			VertexShaderFile:   "shaders/sky.vert.spv",
			FragmentShaderFile: "shaders/sky.frag.spv",
			Layout:             metadata.VertexLayoutPosition,
			CullMode:           metadata.FaceCullModeNone,
		},
		{
			Name:               "overlay",
			VertexShaderFile:   "shaders/overlay.vert.spv",
			FragmentShaderFile: "shaders/overlay.frag.spv",
			Layout:             metadata.VertexLayoutScreen,
			CullMode:           metadata.FaceCullModeNone,
			Blend:              true,
		},
	}
	for _, config := range configs {
		if err := v.Engine.CreatePipeline(config); err != nil {
			return err
		}
	}
	return nil
}

func (v *Viewer) Update(deltaTime float64) error {
	state := v.State.(*viewerState)
	cameras := v.SystemManager.Cameras

	if core.InputWasKeyPressed(core.KEY_ESCAPE) {
		if state.cursorCaptured {
			// First escape only hands the cursor back.
			state.cursorCaptured = false
			v.Engine.SetCursorCaptured(false)
		} else {
			core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
			return nil
		}
	}

	if core.InputWasKeyPressed(core.KEY_TAB) {
		mode := cameras.ToggleMode()
		state.cursorCaptured = mode == systems.CameraModeFly
		v.Engine.SetCursorCaptured(state.cursorCaptured)
		core.LogInfo("camera mode: %s", mode)
	}

	if core.InputWasKeyPressed(core.KEY_H) {
		state.hudVisible = !state.hudVisible
	}

	if core.InputWasKeyPressed(core.KEY_L) {
		if v.SystemManager.Lights.ToggleAnimation() {
			core.LogInfo("light animation resumed")
		} else {
			core.LogInfo("light animation paused")
		}
	}

	if core.InputWasKeyPressed(core.KEY_PLUS) || core.InputWasKeyPressed(core.KEY_ADD) {
		state.normalMapStrength = math.Clamp(state.normalMapStrength+normalMapStrengthStep, 0, 1)
	}
	if core.InputWasKeyPressed(core.KEY_MINUS) || core.InputWasKeyPressed(core.KEY_SUBTRACT) {
		state.normalMapStrength = math.Clamp(state.normalMapStrength-normalMapStrengthStep, 0, 1)
	}

	v.handleLook(state, cameras)
	v.handleMove(cameras, deltaTime)

	if state.scrollDelta != 0 {
		cameras.HandleScroll(state.scrollDelta)
		state.scrollDelta = 0
	}

	v.SystemManager.Lights.Update(deltaTime)
	return nil
}

// handleLook feeds mouse deltas to the camera. The fly camera looks
// around whenever it holds the cursor, the orbit camera only while the
// left button drags.
func (v *Viewer) handleLook(state *viewerState, cameras *systems.CameraSystem) {
	x, y := core.InputGetMousePosition()
	previousX, previousY := core.InputGetPreviousMousePosition()
	dx := float32(x - previousX)
	dy := float32(y - previousY)
	if dx == 0 && dy == 0 {
		return
	}

	switch cameras.Mode() {
	case systems.CameraModeFly:
		if state.cursorCaptured {
			cameras.HandleLook(dx, dy)
		}
	case systems.CameraModeOrbit:
		if core.InputIsButtonDown(core.BUTTON_LEFT) {
			cameras.HandleLook(dx, dy)
		}
	}
}

func (v *Viewer) handleMove(cameras *systems.CameraSystem, deltaTime float64) {
	var forward, right, up float32
	if core.InputIsKeyDown(core.KEY_W) {
		forward++
	}
	if core.InputIsKeyDown(core.KEY_S) {
		forward--
	}
	if core.InputIsKeyDown(core.KEY_D) {
		right++
	}
	if core.InputIsKeyDown(core.KEY_A) {
		right--
	}
	if core.InputIsKeyDown(core.KEY_SPACE) || core.InputIsKeyDown(core.KEY_E) {
		up++
	}
	if core.InputIsKeyDown(core.KEY_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		cameras.HandleMove(forward, right, up, deltaTime)
	}
}

func (v *Viewer) onMouseWheel(context core.EventContext) {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		core.LogError("wrong event payload associated with the event type `%d`", context.Type)
		return
	}
	state := v.State.(*viewerState)
	state.scrollDelta += float32(me.Scroll)
}

func (v *Viewer) Render(packet *metadata.RenderPacket, deltaTime float64) error {
	state := v.State.(*viewerState)
	cameras := v.SystemManager.Cameras

	view := cameras.View()
	uniforms := &FrameUniforms{
		View:           view,
		Projection:     cameras.Projection(),
		CameraPosition: math.NewMat4Translation(cameras.Camera().Position()),
		UserInput:      math.NewVec4(state.normalMapStrength, 0, 0, 0),
	}

	packet.FrameUniforms = uniforms.Bytes()
	packet.Lights = v.SystemManager.Lights.Pack(view)
	packet.Geometries = state.scene.Geometries
	packet.Sky = state.sky
	if state.hudVisible {
		packet.Overlay = v.buildHud(state)
	}
	return nil
}

func (v *Viewer) OnResize(width uint32, height uint32) error {
	state := v.State.(*viewerState)
	state.width = width
	state.height = height
	return nil
}

func (v *Viewer) Shutdown() error {
	state := v.State.(*viewerState)
	if state.cursorCaptured {
		state.cursorCaptured = false
		v.Engine.SetCursorCaptured(false)
	}
	return nil
}
