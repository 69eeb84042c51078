package systems

import (
	"runtime"

	"github.com/spaghettifunk/lumina/engine/config"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer"
)

// Capacities of the shader facing tables. The texture and material
// counts must match the array sizes the shaders declare.
const (
	maxTextureCount  = 256
	maxMaterialCount = 1024
	maxGeometryCount = 4096
	jobQueueSize     = 64
)

/**
 * @brief Builds and owns every engine system in dependency order. The
 * application reaches the systems through the exported fields.
 */
type SystemManager struct {
	Jobs       *JobSystem
	Textures   *TextureSystem
	Materials  *MaterialSystem
	Geometries *GeometrySystem
	Lights     *LightSystem
	Fonts      *FontSystem
	Cameras    *CameraSystem
}

func NewSystemManager(cfg *config.Config, r *renderer.Renderer) (*SystemManager, error) {
	js, err := NewJobSystem(runtime.NumCPU(), jobQueueSize)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(TextureSystemConfig{MaxTextureCount: maxTextureCount}, js, r)
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(MaterialSystemConfig{MaxMaterialCount: maxMaterialCount}, ts, r)
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem(GeometrySystemConfig{MaxGeometryCount: maxGeometryCount}, ms, r)
	if err != nil {
		return nil, err
	}
	ls := NewLightSystem(LightSystemConfig{
		Animate:    cfg.Lights.Animate,
		OrbitSpeed: cfg.Lights.Speed,
	})
	fs, err := NewFontSystem(FontSystemConfig{FontPath: cfg.Hud.FontPath}, ts)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(CameraSystemConfig{
		Position:      vec3FromSlice(cfg.Camera.Position),
		LookDirection: vec3FromSlice(cfg.Camera.LookDirection),
		OrbitTarget:   vec3FromSlice(cfg.Camera.OrbitTarget),
		FovDegrees:    cfg.Camera.FovDegrees,
		NearClip:      cfg.Camera.NearClip,
		FarClip:       cfg.Camera.FarClip,
		MoveSpeed:     cfg.Camera.MoveSpeed,
		TurnSpeed:     cfg.Camera.TurnSpeed,
		Width:         uint32(cfg.Window.Width),
		Height:        uint32(cfg.Window.Height),
	})
	if err != nil {
		return nil, err
	}

	return &SystemManager{
		Jobs:       js,
		Textures:   ts,
		Materials:  ms,
		Geometries: gs,
		Lights:     ls,
		Fonts:      fs,
		Cameras:    cs,
	}, nil
}

// Shutdown tears the systems down in reverse construction order. A
// failing system is logged and the teardown keeps going, the first
// error is reported at the end.
func (sm *SystemManager) Shutdown() error {
	var firstErr error
	shutdown := func(name string, fn func() error) {
		if err := fn(); err != nil {
			core.LogError("shutdown %s system: %s", name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	shutdown("camera", sm.Cameras.Shutdown)
	shutdown("font", sm.Fonts.Shutdown)
	shutdown("light", sm.Lights.Shutdown)
	shutdown("geometry", sm.Geometries.Shutdown)
	shutdown("material", sm.Materials.Shutdown)
	shutdown("texture", sm.Textures.Shutdown)
	shutdown("job", sm.Jobs.Shutdown)
	return firstErr
}

func vec3FromSlice(values []float32) math.Vec3 {
	out := math.NewVec3Zero()
	if len(values) > 0 {
		out.X = values[0]
	}
	if len(values) > 1 {
		out.Y = values[1]
	}
	if len(values) > 2 {
		out.Z = values[2]
	}
	return out
}
