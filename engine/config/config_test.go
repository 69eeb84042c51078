package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/lumina/engine/core"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if !cfg.Window.Resizable {
		t.Error("expected the window to be resizable by default")
	}
	if cfg.Renderer.FramesInFlight != 3 {
		t.Errorf("expected 3 frames in flight, got %d", cfg.Renderer.FramesInFlight)
	}
	if cfg.Renderer.SwapchainImages != 5 {
		t.Errorf("expected 5 swapchain images, got %d", cfg.Renderer.SwapchainImages)
	}
	if cfg.Renderer.PresentMode != "mailbox" {
		t.Errorf("expected mailbox present mode, got %s", cfg.Renderer.PresentMode)
	}
	if cfg.Camera.FovDegrees != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FovDegrees)
	}
	if cfg.Camera.NearClip != 0.3 || cfg.Camera.FarClip != 1000 {
		t.Errorf("expected clip planes 0.3/1000, got %f/%f", cfg.Camera.NearClip, cfg.Camera.FarClip)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "lumina.toml")

	tomlContent := `
[window]
title = "Custom Window"
width = 1280
height = 720
resizable = false

[renderer]
frames_in_flight = 2
present_mode = "fifo"

[camera]
fov_degrees = 45.0

[scene]
path = "scenes/test.toml"

[logging]
level = "debug"
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Title != "Custom Window" {
		t.Errorf("expected title 'Custom Window', got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Resizable {
		t.Error("expected resizable false")
	}
	if cfg.Renderer.FramesInFlight != 2 {
		t.Errorf("expected 2 frames in flight, got %d", cfg.Renderer.FramesInFlight)
	}
	if cfg.Renderer.PresentMode != "fifo" {
		t.Errorf("expected fifo, got %s", cfg.Renderer.PresentMode)
	}
	if cfg.Camera.FovDegrees != 45 {
		t.Errorf("expected fov 45, got %f", cfg.Camera.FovDegrees)
	}
	if cfg.Scene.Path != "scenes/test.toml" {
		t.Errorf("expected scene path override, got %s", cfg.Scene.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}

	// Untouched sections keep their defaults.
	if cfg.Renderer.SwapchainImages != 5 {
		t.Errorf("expected swapchain images to keep default 5, got %d", cfg.Renderer.SwapchainImages)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "broken.toml")

	if err := os.WriteFile(configPath, []byte("[window\nwidth = oops"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	err := loadFromFile(Default(), configPath)
	if err == nil {
		t.Fatal("expected error loading invalid TOML, got nil")
	}
	if !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("expected a configuration error, got %v", err)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	err := loadFromFile(Default(), "/nonexistent/path/lumina.toml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
	if !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("expected a configuration error, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"no frames in flight", func(c *Config) { c.Renderer.FramesInFlight = 0 }},
		{"single swapchain image", func(c *Config) { c.Renderer.SwapchainImages = 1 }},
		{"unknown present mode", func(c *Config) { c.Renderer.PresentMode = "quadbuffer" }},
		{"short camera position", func(c *Config) { c.Camera.Position = []float32{1, 2} }},
		{"fov too wide", func(c *Config) { c.Camera.FovDegrees = 180 }},
		{"far before near", func(c *Config) { c.Camera.NearClip = 10; c.Camera.FarClip = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, core.ErrConfiguration) {
				t.Errorf("expected a configuration error, got %v", err)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	*flagWidth = 2560
	*flagHeight = 1440
	*flagScene = "scenes/override.toml"
	*flagDebug = true
	defer func() {
		*flagWidth = 0
		*flagHeight = 0
		*flagScene = ""
		*flagDebug = false
	}()

	cfg := Default()
	applyFlags(cfg)

	if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
		t.Errorf("expected 2560x1440 from flags, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Scene.Path != "scenes/override.toml" {
		t.Errorf("expected scene override, got %s", cfg.Scene.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
}
