package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/lumina/engine/assets/loaders"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// pipelineRegistry remembers the configuration each pipeline was
// created with so it can be rebuilt when one of its shader binaries is
// rewritten on disk. The watcher goroutine only queues names here, the
// rebuild itself happens on the render thread between frames.
type pipelineRegistry struct {
	mu      sync.Mutex
	entries map[string]metadata.PipelineConfig
	pending []string
}

// CreatePipeline loads the pipeline's shader binaries from the asset
// directory, hands them to the renderer and registers the pipeline for
// hot reloading. Shader paths in the config are relative to the asset
// root.
func (e *Engine) CreatePipeline(config metadata.PipelineConfig) error {
	vert, frag, err := e.loadShaderPair(config)
	if err != nil {
		return err
	}
	if err := e.renderer.CreatePipeline(config, vert, frag); err != nil {
		return err
	}

	e.pipelines.mu.Lock()
	e.pipelines.entries[config.Name] = config
	e.pipelines.mu.Unlock()
	return nil
}

func (e *Engine) loadShaderPair(config metadata.PipelineConfig) ([]byte, []byte, error) {
	vert, err := loaders.LoadShaderBinary(e.assetManager.Path(config.VertexShaderFile))
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline %s: %w", config.Name, err)
	}
	frag, err := loaders.LoadShaderBinary(e.assetManager.Path(config.FragmentShaderFile))
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline %s: %w", config.Name, err)
	}
	return vert, frag, nil
}

// onWatchedFile runs on the asset watcher goroutine. It only records
// which pipelines are affected by the written file.
func (e *Engine) onWatchedFile(context core.EventContext) {
	we, ok := context.Data.(*core.WatchedFileEvent)
	if !ok {
		core.LogError("wrong event payload associated with the event type `%d`", context.Type)
		return
	}
	if !strings.EqualFold(filepath.Ext(we.Path), ".spv") {
		return
	}

	written := filepath.Clean(we.Path)

	e.pipelines.mu.Lock()
	defer e.pipelines.mu.Unlock()
	for name, config := range e.pipelines.entries {
		usesShader := filepath.Clean(e.assetManager.Path(config.VertexShaderFile)) == written ||
			filepath.Clean(e.assetManager.Path(config.FragmentShaderFile)) == written
		if usesShader && !slices.Contains(e.pipelines.pending, name) {
			e.pipelines.pending = append(e.pipelines.pending, name)
		}
	}
}

// reloadPendingPipelines rebuilds every pipeline queued by the watcher.
// Runs on the render thread, between frames.
func (e *Engine) reloadPendingPipelines() {
	e.pipelines.mu.Lock()
	pending := e.pipelines.pending
	e.pipelines.pending = nil
	configs := make([]metadata.PipelineConfig, 0, len(pending))
	for _, name := range pending {
		if config, ok := e.pipelines.entries[name]; ok {
			configs = append(configs, config)
		}
	}
	e.pipelines.mu.Unlock()

	for _, config := range configs {
		vert, frag, err := e.loadShaderPair(config)
		if err != nil {
			core.LogError("hot reload: %s", err.Error())
			continue
		}
		if err := e.renderer.ReloadPipeline(config, vert, frag); err != nil {
			core.LogError("hot reload pipeline %s: %s", config.Name, err.Error())
			continue
		}
		core.LogInfo("pipeline %s reloaded", config.Name)
	}
}
