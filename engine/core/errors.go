package core

import (
	"errors"
)

// The two broad error classes surfaced at the top level: anything wrong with
// how the application was put together versus anything the render device
// reported while running. Call sites wrap with fmt.Errorf("...: %w", ...).
var (
	ErrConfiguration = errors.New("configuration error")
	ErrRenderDevice  = errors.New("render device error")
)

// ErrSwapchainOutOfDate is returned by the frame begin path when the
// swapchain had to be recreated. The frame is skipped, not failed.
var ErrSwapchainOutOfDate = errors.New("swapchain out of date, frame skipped")
