// Package config handles application configuration loading and management.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/lumina/engine/core"
)

var (
	flagConfig = flag.String("config", "", "path to a TOML configuration file")
	flagWidth  = flag.Int("width", 0, "override the window width")
	flagHeight = flag.Int("height", 0, "override the window height")
	flagScene  = flag.String("scene", "", "override the scene description to load")
	flagDebug  = flag.Bool("debug", false, "enable debug logging")
)

// Config holds all application settings.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Camera   CameraConfig   `toml:"camera"`
	Scene    SceneConfig    `toml:"scene"`
	Hud      HudConfig      `toml:"hud"`
	Lights   LightsConfig   `toml:"lights"`
	Logging  LoggingConfig  `toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

// RendererConfig holds swapchain and frame pacing settings.
type RendererConfig struct {
	FramesInFlight  int    `toml:"frames_in_flight"`
	SwapchainImages int    `toml:"swapchain_images"`
	PresentMode     string `toml:"present_mode"`
	FPSLimit        int    `toml:"fps_limit"`
}

// CameraConfig holds the starting state shared by all cameras.
type CameraConfig struct {
	Position      []float32 `toml:"position"`
	LookDirection []float32 `toml:"look_direction"`
	OrbitTarget   []float32 `toml:"orbit_target"`
	FovDegrees    float32   `toml:"fov_degrees"`
	NearClip      float32   `toml:"near_clip"`
	FarClip       float32   `toml:"far_clip"`
	MoveSpeed     float32   `toml:"move_speed"`
	TurnSpeed     float32   `toml:"turn_speed"`
}

// SceneConfig holds the scene description to load and the asset search path.
type SceneConfig struct {
	Path      string `toml:"path"`
	AssetsDir string `toml:"assets_dir"`
}

// HudConfig holds the overlay settings.
type HudConfig struct {
	Enabled  bool   `toml:"enabled"`
	FontPath string `toml:"font_path"`
}

// LightsConfig holds light animation settings.
type LightsConfig struct {
	Animate bool    `toml:"animate"`
	Speed   float32 `toml:"speed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "Lumina Viewer",
			Width:     1920,
			Height:    1080,
			Resizable: true,
		},
		Renderer: RendererConfig{
			FramesInFlight:  3,
			SwapchainImages: 5,
			PresentMode:     "mailbox",
			FPSLimit:        0,
		},
		Camera: CameraConfig{
			Position:      []float32{-6.81, 1.71, -0.72},
			LookDirection: []float32{1, 0, 0},
			OrbitTarget:   []float32{0, 0, 0},
			FovDegrees:    60,
			NearClip:      0.3,
			FarClip:       1000,
			MoveSpeed:     6,
			TurnSpeed:     0.25,
		},
		Scene: SceneConfig{
			Path:      "",
			AssetsDir: "assets",
		},
		Hud: HudConfig{
			Enabled:  true,
			FontPath: "",
		},
		Lights: LightsConfig{
			Animate: true,
			Speed:   0.5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration from defaults, an optional TOML
// file and command line flags, in increasing order of priority.
func Load() (*Config, error) {
	if !flag.Parsed() {
		flag.Parse()
	}

	cfg := Default()

	path := *flagConfig
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", core.ErrConfiguration, path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", core.ErrConfiguration, path, err)
	}
	return nil
}

// findConfigFile looks for a lumina.toml next to the executable working
// directory. Returns an empty string when none exists.
func findConfigFile() string {
	for _, candidate := range []string{"lumina.toml", "config.toml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func applyFlags(cfg *Config) {
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
}

// Validate checks the configuration for values the renderer cannot work with.
func (cfg *Config) Validate() error {
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d is not valid", core.ErrConfiguration, cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Renderer.FramesInFlight < 1 {
		return fmt.Errorf("%w: frames_in_flight must be at least 1, got %d", core.ErrConfiguration, cfg.Renderer.FramesInFlight)
	}
	if cfg.Renderer.SwapchainImages < 2 {
		return fmt.Errorf("%w: swapchain_images must be at least 2, got %d", core.ErrConfiguration, cfg.Renderer.SwapchainImages)
	}
	switch cfg.Renderer.PresentMode {
	case "mailbox", "fifo", "immediate":
	default:
		return fmt.Errorf("%w: unknown present_mode %q", core.ErrConfiguration, cfg.Renderer.PresentMode)
	}
	if len(cfg.Camera.Position) != 3 {
		return fmt.Errorf("%w: camera position needs 3 components, got %d", core.ErrConfiguration, len(cfg.Camera.Position))
	}
	if len(cfg.Camera.LookDirection) != 3 {
		return fmt.Errorf("%w: camera look_direction needs 3 components, got %d", core.ErrConfiguration, len(cfg.Camera.LookDirection))
	}
	if cfg.Camera.FovDegrees <= 0 || cfg.Camera.FovDegrees >= 180 {
		return fmt.Errorf("%w: fov_degrees %f out of range", core.ErrConfiguration, cfg.Camera.FovDegrees)
	}
	if cfg.Camera.NearClip <= 0 || cfg.Camera.FarClip <= cfg.Camera.NearClip {
		return fmt.Errorf("%w: clip planes near %f far %f are not valid", core.ErrConfiguration, cfg.Camera.NearClip, cfg.Camera.FarClip)
	}
	return nil
}
