package engine

import (
	"github.com/spaghettifunk/lumina/engine/assets"
	"github.com/spaghettifunk/lumina/engine/config"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
	"github.com/spaghettifunk/lumina/engine/systems"
)

// Game is the application the engine drives. The engine fills in the
// service fields before FnInitialize runs, everything else is up to
// the callbacks.
type Game struct {
	Engine        *Engine
	Config        *config.Config
	SystemManager *systems.SystemManager
	AssetManager  *assets.AssetManager
	State         interface{}

	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *metadata.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
