package engine

import (
	"fmt"

	"github.com/spaghettifunk/lumina/engine/assets"
	"github.com/spaghettifunk/lumina/engine/config"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/platform"
	"github.com/spaghettifunk/lumina/engine/renderer"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
	"github.com/spaghettifunk/lumina/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Milliseconds to hand back to the OS per loop while minimized.
const suspendedSleepMS = 100

type Engine struct {
	currentStage  Stage
	config        *config.Config
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	renderer      *renderer.Renderer
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64

	pipelines pipelineRegistry
}

func New(cfg *config.Config, g *Game) (*Engine, error) {
	p, err := platform.New()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager(cfg.Scene.AssetsDir)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		config:       cfg,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		assetManager: am,
		isRunning:    true,
		isSuspended:  false,
		width:        uint32(cfg.Window.Width),
		height:       uint32(cfg.Window.Height),
		lastTime:     0,
	}
	e.pipelines.entries = make(map[string]metadata.PipelineConfig)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	if err := core.InputInitialize(); err != nil {
		return err
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)
	core.EventRegister(core.EVENT_CODE_WATCHED_FILE_WRITTEN, e.onWatchedFile)

	if err := e.platform.Startup(e.config.Window.Title, e.width, e.height, e.config.Window.Resizable); err != nil {
		return err
	}

	e.renderer = renderer.New(e.platform, e.config)
	if err := e.renderer.Initialize(e.config.Window.Title, e.width, e.height); err != nil {
		return err
	}

	if err := e.assetManager.Initialize(); err != nil {
		return err
	}

	sm, err := systems.NewSystemManager(e.config, e.renderer)
	if err != nil {
		return err
	}
	e.systemManager = sm

	e.gameInstance.Engine = e
	e.gameInstance.Config = e.config
	e.gameInstance.SystemManager = sm
	e.gameInstance.AssetManager = e.assetManager

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64 = 0
	if e.config.Renderer.FPSLimit > 0 {
		targetFrameSeconds = 1.0 / float64(e.config.Renderer.FPSLimit)
	}

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
			break
		}

		if e.isSuspended {
			e.platform.Sleep(suspendedSleepMS)
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := e.platform.GetAbsoluteTime()

		// Shaders rewritten since the previous frame are swapped in
		// before anything records against their pipelines.
		e.reloadPendingPipelines()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err.Error())
			e.isRunning = false
			break
		}

		packet := &metadata.RenderPacket{
			DeltaTime: delta,
		}
		if err := e.gameInstance.FnRender(packet, delta); err != nil {
			core.LogError("game render failed, shutting down: %s", err.Error())
			e.isRunning = false
			break
		}

		if err := e.renderer.DrawFrame(packet); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		frameElapsedTime := e.platform.GetAbsoluteTime() - frameStartTime
		core.MetricsUpdate(frameElapsedTime)

		if targetFrameSeconds > 0 {
			remainingSeconds := targetFrameSeconds - frameElapsedTime
			remainingMS := remainingSeconds * 1000
			if remainingMS > 1 {
				// Give what is left of the frame back to the OS,
				// minus a little to absorb scheduler wakeup jitter.
				e.platform.Sleep(uint64(remainingMS - 1))
			}
		}

		// Input state copying happens after everything that wants to
		// read it. Keep this the last call of the frame.
		core.InputUpdate(delta)

		e.lastTime = currentTime
	}

	e.isRunning = false
	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	if e.renderer != nil {
		if err := e.renderer.WaitIdle(); err != nil {
			core.LogError("wait for device idle: %s", err.Error())
		}
	}

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown: %s", err.Error())
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			core.LogError("system shutdown: %s", err.Error())
		}
	}
	if e.renderer != nil {
		if err := e.renderer.Shutdown(); err != nil {
			core.LogError("renderer shutdown: %s", err.Error())
		}
	}
	if err := e.assetManager.Shutdown(); err != nil {
		core.LogError("asset manager shutdown: %s", err.Error())
	}
	if err := e.platform.Shutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	return core.EventSystemShutdown()
}

// RequestClose asks the run loop to stop after the current frame. Safe
// to call from any goroutine.
func (e *Engine) RequestClose() {
	e.platform.RequestClose()
}

// SetCursorCaptured hides the cursor and locks it to the window while
// captured. The fly camera uses this for unbounded mouse look.
func (e *Engine) SetCursorCaptured(captured bool) {
	e.platform.SetCursorCaptured(captured)
}

// GetFramebufferSize returns the width and height (in this order) of
// the window framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("application quit requested, shutting down")
		e.isRunning = false
	}
}

func (e *Engine) onResized(context core.EventContext) {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event payload associated with the event type `%d`", context.Type)
		return
	}

	width := se.WindowWidth
	height := se.WindowHeight
	if width == e.width && height == e.height {
		return
	}
	e.width = width
	e.height = height

	core.LogDebug("window resize: %d, %d", width, height)

	// Handle minimization.
	if width == 0 || height == 0 {
		core.LogInfo("window minimized, suspending application")
		e.isSuspended = true
		return
	}

	if e.isSuspended {
		core.LogInfo("window restored, resuming application")
		e.isSuspended = false
	}
	e.renderer.OnResize(width, height)
	e.systemManager.Cameras.OnResize(width, height)
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("game resize: %s", err.Error())
		}
	}
}
