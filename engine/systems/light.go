package systems

import (
	m "math"
	"sync"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

/** @brief The configuration for the light system. */
type LightSystemConfig struct {
	/** @brief Whether point lights start out animated. */
	Animate bool
	/** @brief The angular speed of the point light orbit, in radians per second. */
	OrbitSpeed float32
}

// How far point lights circle away from their spawn position.
const pointOrbitRadius float32 = 1.0

type trackedLight struct {
	source        *metadata.LightSource
	spawnPosition math.Vec3
	phase         float32
}

/**
 * @brief Owns every light source in the scene, animates them and packs
 * the shader light buffer each frame: lights grouped into contiguous
 * ranges in type order, directions and positions brought into view
 * space, and everything over capacity dropped from the back.
 */
type LightSystem struct {
	config LightSystemConfig

	mu          sync.Mutex
	lights      []*trackedLight
	elapsed     float64
	animate     bool
	lastDropped int

	block metadata.LightsBlock
}

func NewLightSystem(config LightSystemConfig) *LightSystem {
	if config.OrbitSpeed == 0 {
		config.OrbitSpeed = 0.5
	}
	return &LightSystem{
		config:  config,
		animate: config.Animate,
	}
}

/**
 * @brief Registers a light source. The position at registration time
 * becomes the center point lights revolve around.
 */
func (ls *LightSystem) Add(source *metadata.LightSource) *metadata.LightSource {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.lights = append(ls.lights, &trackedLight{
		source:        source,
		spawnPosition: source.Position,
		// Spread the orbits so lights added together do not move in
		// lockstep.
		phase: float32(len(ls.lights)) * (m.Pi / 4),
	})
	return source
}

/** @brief Removes the named light. Returns false if it was not found. */
func (ls *LightSystem) Remove(name string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	for i, light := range ls.lights {
		if light.source.Name == name {
			ls.lights = append(ls.lights[:i], ls.lights[i+1:]...)
			return true
		}
	}
	return false
}

/** @brief Returns the number of registered lights. */
func (ls *LightSystem) Count() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.lights)
}

/** @brief Flips the point light animation and returns the new state. */
func (ls *LightSystem) ToggleAnimation() bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.animate = !ls.animate
	return ls.animate
}

func (ls *LightSystem) Animating() bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.animate
}

/**
 * @brief Advances the animation clock and moves every enabled point
 * light along its orbit around the spawn position.
 */
func (ls *LightSystem) Update(deltaTime float64) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if !ls.animate {
		return
	}
	ls.elapsed += deltaTime

	angle := float32(ls.elapsed) * ls.config.OrbitSpeed
	for _, light := range ls.lights {
		if light.source.Type != metadata.LightTypePoint || !light.source.Enabled {
			continue
		}
		a := float64(angle + light.phase)
		offset := math.NewVec3(float32(m.Cos(a))*pointOrbitRadius, 0, float32(m.Sin(a))*pointOrbitRadius)
		light.source.Position = light.spawnPosition.Add(offset)
	}
}

/**
 * @brief Fills the shader light buffer for the current frame and
 * returns its raw bytes. Enabled lights are packed into four contiguous
 * ranges in type order; directions and positions are transformed into
 * the space of the given view matrix. Lights beyond the buffer capacity
 * are dropped, starting with the types packed last.
 */
func (ls *LightSystem) Pack(view math.Mat4) []byte {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	var ranges metadata.LightRanges
	cursor := uint32(0)
	dropped := 0

	pack := func(lightType metadata.LightType) (uint32, uint32) {
		from := cursor
		for _, light := range ls.lights {
			if light.source.Type != lightType || !light.source.Enabled {
				continue
			}
			if cursor >= metadata.MaxLightsources {
				dropped++
				continue
			}
			ls.block.Lights[cursor] = shaderLightFor(light.source, view)
			cursor++
		}
		return from, cursor
	}

	ranges.AmbientFrom, ranges.AmbientTo = pack(metadata.LightTypeAmbient)
	ranges.DirectionalFrom, ranges.DirectionalTo = pack(metadata.LightTypeDirectional)
	ranges.PointFrom, ranges.PointTo = pack(metadata.LightTypePoint)
	ranges.SpotFrom, ranges.SpotTo = pack(metadata.LightTypeSpot)
	ls.block.Ranges = ranges

	if dropped != ls.lastDropped {
		if dropped > 0 {
			core.LogWarn("light buffer holds %d lights, dropping %d", metadata.MaxLightsources, dropped)
		}
		ls.lastDropped = dropped
	}

	return ls.block.Bytes()
}

// shaderLightFor converts one light into the layout the fragment shader
// reads. Directions and positions land in view space, the cone angles
// are stored as cosines so the shader compares them against dot
// products directly.
func shaderLightFor(source *metadata.LightSource, view math.Mat4) metadata.LightShaderData {
	data := metadata.LightShaderData{
		Color: source.Color.ToVec4(1),
		Info:  [4]int32{int32(source.Type), 0, 0, 0},
	}

	hasDirection := source.Type == metadata.LightTypeDirectional || source.Type == metadata.LightTypeSpot
	if hasDirection {
		direction := source.Direction.Normalized().Transform(view, 0)
		data.Direction = direction.ToVec4(0)
	}
	hasPosition := source.Type == metadata.LightTypePoint || source.Type == metadata.LightTypeSpot
	if hasPosition {
		position := source.Position.Transform(view, 1)
		data.Position = position.ToVec4(1)
		data.Attenuation = math.NewVec4(source.AttenuationConstant, source.AttenuationLinear, source.AttenuationQuadratic, 0)
	}
	if source.Type == metadata.LightTypeSpot {
		data.Angles = math.NewVec4(
			float32(m.Cos(float64(source.OuterConeAngle))),
			float32(m.Cos(float64(source.InnerConeAngle))),
			source.Falloff,
			0,
		)
	}
	return data
}

func (ls *LightSystem) Shutdown() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.lights = nil
	return nil
}
