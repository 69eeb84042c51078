package viewer

import (
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
	"github.com/spaghettifunk/lumina/engine/systems"
)

// createSky builds the dome the gradient is drawn on. The sphere only
// needs enough segments to hide faceting near the horizon.
func createSky(sm *systems.SystemManager) (*metadata.SkyRenderData, error) {
	config, err := systems.GenerateSphereConfig(1, 16, 32, "sky_dome", "")
	if err != nil {
		return nil, err
	}
	geometry, err := sm.Geometries.AcquireFromConfig(config)
	if err != nil {
		return nil, err
	}
	return &metadata.SkyRenderData{Geometry: geometry}, nil
}
