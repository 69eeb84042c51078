package platform

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/lumina/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type Platform struct {
	Window *glfw.Window
}

func New() (*Platform, error) {
	return &Platform{
		Window: nil,
	}, nil
}

func (p *Platform) Startup(applicationName string, width uint32, height uint32, resizable bool) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("%w: failed to initialize glfw: %v", core.ErrRenderDevice, err)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return fmt.Errorf("%w: glfw reports no vulkan loader", core.ErrRenderDevice)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	if resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Required for Vulkan.

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("%w: failed to create window: %v", core.ErrRenderDevice, err)
	}
	p.Window = window

	p.Window.SetKeyCallback(keyCallback)
	p.Window.SetMouseButtonCallback(mouseButtonCallback)
	p.Window.SetCursorPosCallback(cursorPosCallback)
	p.Window.SetScrollCallback(scrollCallback)
	p.Window.SetFramebufferSizeCallback(framebufferSizeCallback)
	p.Window.Show()

	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages processes queued window events. Returns false once the
// window has been asked to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

// RequestClose asks the window to close at the end of the current pump.
func (p *Platform) RequestClose() {
	p.Window.SetShouldClose(true)
}

// GetAbsoluteTime returns the time in seconds since the platform started.
func (p *Platform) GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

func (p *Platform) Sleep(ms uint64) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// GetFramebufferSize returns the size of the window framebuffer in pixels,
// which can differ from the window size on high DPI displays.
func (p *Platform) GetFramebufferSize() (uint32, uint32) {
	w, h := p.Window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

// SetCursorCaptured hides and grabs the cursor while a free look camera is
// active, releasing it again when captured is false.
func (p *Platform) SetCursorCaptured(captured bool) {
	if captured {
		p.Window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		p.Window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// GetRequiredInstanceExtensions returns the instance extensions the window
// system needs, with the null terminators a Vulkan loader expects.
func (p *Platform) GetRequiredInstanceExtensions() []string {
	extensions := p.Window.GetRequiredInstanceExtensions()
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		out = append(out, ext+"\x00")
	}
	return out
}

func keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := translateKey(key)
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		core.InputProcessKey(code, true)
	case glfw.Release:
		core.InputProcessKey(code, false)
	}
}

func mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	default:
		return
	}
	core.InputProcessButton(b, action == glfw.Press)
}

func cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	core.InputProcessMouseMove(uint16(xpos), uint16(ypos))
}

func scrollCallback(w *glfw.Window, xoff, yoff float64) {
	if yoff > 0 {
		core.InputProcessMouseWheel(1)
	} else if yoff < 0 {
		core.InputProcessMouseWheel(-1)
	}
}

func framebufferSizeCallback(w *glfw.Window, width, height int) {
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{
			WindowWidth:  uint32(width),
			WindowHeight: uint32(height),
		},
	})
}

// translateKey maps a GLFW key to the engine key code table. Letters and
// digits share values with GLFW already.
func translateKey(key glfw.Key) (core.KeyCode, bool) {
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		return core.KeyCode(key), true
	}
	switch key {
	case glfw.KeyEscape:
		return core.KEY_ESCAPE, true
	case glfw.KeyEnter:
		return core.KEY_ENTER, true
	case glfw.KeyTab:
		return core.KEY_TAB, true
	case glfw.KeyBackspace:
		return core.KEY_BACKSPACE, true
	case glfw.KeySpace:
		return core.KEY_SPACE, true
	case glfw.KeyLeft:
		return core.KEY_LEFT, true
	case glfw.KeyRight:
		return core.KEY_RIGHT, true
	case glfw.KeyUp:
		return core.KEY_UP, true
	case glfw.KeyDown:
		return core.KEY_DOWN, true
	case glfw.KeyHome:
		return core.KEY_HOME, true
	case glfw.KeyEnd:
		return core.KEY_END, true
	case glfw.KeyPageUp:
		return core.KEY_PRIOR, true
	case glfw.KeyPageDown:
		return core.KEY_NEXT, true
	case glfw.KeyInsert:
		return core.KEY_INSERT, true
	case glfw.KeyDelete:
		return core.KEY_DELETE, true
	case glfw.KeyLeftShift:
		return core.KEY_LSHIFT, true
	case glfw.KeyRightShift:
		return core.KEY_RSHIFT, true
	case glfw.KeyLeftControl:
		return core.KEY_LCONTROL, true
	case glfw.KeyRightControl:
		return core.KEY_RCONTROL, true
	case glfw.KeyLeftAlt:
		return core.KEY_LALT, true
	case glfw.KeyRightAlt:
		return core.KEY_RALT, true
	case glfw.KeyMinus:
		return core.KEY_MINUS, true
	case glfw.KeyEqual:
		return core.KEY_PLUS, true
	case glfw.KeyComma:
		return core.KEY_COMMA, true
	case glfw.KeyPeriod:
		return core.KEY_PERIOD, true
	case glfw.KeySlash:
		return core.KEY_SLASH, true
	case glfw.KeySemicolon:
		return core.KEY_SEMICOLON, true
	case glfw.KeyGraveAccent:
		return core.KEY_GRAVE, true
	case glfw.KeyKPAdd:
		return core.KEY_ADD, true
	case glfw.KeyKPSubtract:
		return core.KEY_SUBTRACT, true
	case glfw.KeyKPMultiply:
		return core.KEY_MULTIPLY, true
	case glfw.KeyKPDivide:
		return core.KEY_DIVIDE, true
	case glfw.KeyF1:
		return core.KEY_F1, true
	case glfw.KeyF2:
		return core.KEY_F2, true
	case glfw.KeyF3:
		return core.KEY_F3, true
	case glfw.KeyF4:
		return core.KEY_F4, true
	case glfw.KeyF5:
		return core.KEY_F5, true
	case glfw.KeyF6:
		return core.KEY_F6, true
	case glfw.KeyF7:
		return core.KEY_F7, true
	case glfw.KeyF8:
		return core.KEY_F8, true
	case glfw.KeyF9:
		return core.KEY_F9, true
	case glfw.KeyF10:
		return core.KEY_F10, true
	case glfw.KeyF11:
		return core.KEY_F11, true
	case glfw.KeyF12:
		return core.KEY_F12, true
	}
	return 0, false
}
