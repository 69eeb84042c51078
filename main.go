package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/lumina/engine"
	"github.com/spaghettifunk/lumina/engine/config"
	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/viewer"
)

// Exit codes distinguish configuration mistakes from device failures so
// scripts around the viewer can tell them apart.
const (
	exitConfiguration = 2
	exitRenderDevice  = 3
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		core.LogError(err.Error())
		os.Exit(exitConfiguration)
	}
	core.LogSetLevel(cfg.Logging.Level)

	app := viewer.New(cfg)

	e, err := engine.New(cfg, app.Game)
	if err != nil {
		exitOn(err)
	}
	if err := e.Initialize(); err != nil {
		exitOn(err)
	}

	// close the window on SIGTERM and friends so the run loop winds
	// down through the regular path
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		e.RequestClose()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		exitOn(runErr)
	}
}

func exitOn(err error) {
	core.LogError(err.Error())
	switch {
	case errors.Is(err, core.ErrConfiguration):
		os.Exit(exitConfiguration)
	case errors.Is(err, core.ErrRenderDevice):
		os.Exit(exitRenderDevice)
	default:
		os.Exit(1)
	}
}
