package core

import (
	"sync"
)

type EventCode uint16

// System internal event codes. Application should use codes beyond 255.
const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Keyboard key pressed. Data is a *KeyEvent.
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Keyboard key released. Data is a *KeyEvent.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Mouse button pressed. Data is a *MouseEvent.
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04
	// Mouse button released. Data is a *MouseEvent.
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05
	// Mouse moved. Data is a *MouseEvent.
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06
	// Mouse wheel scrolled. Data is a *MouseEvent.
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07
	// Resized/resolution changed from the OS. Data is a *SystemEvent.
	EVENT_CODE_RESIZED EventCode = 0x08
	// A watched asset file was written to. Data is a *WatchedFileEvent.
	EVENT_CODE_WATCHED_FILE_WRITTEN EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

// EventContext is what listeners receive: the fired code plus a
// code-specific payload.
type EventContext struct {
	Type EventCode
	Data interface{}
}

// KeyEvent is the payload for key pressed/released codes.
type KeyEvent struct {
	KeyCode KeyCode
}

// MouseEvent is the payload for every mouse related code.
type MouseEvent struct {
	Button Button
	PosX   uint16
	PosY   uint16
	Scroll int8
}

// SystemEvent is the payload for window level codes.
type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

// WatchedFileEvent is the payload fired when the asset watcher sees a write.
type WatchedFileEvent struct {
	Path string
}

type FnOnEvent func(context EventContext)

type eventSystemState struct {
	mu         sync.Mutex
	registered map[EventCode][]FnOnEvent
}

var onceEvent sync.Once
var eventState *eventSystemState

func EventSystemInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			registered: make(map[EventCode][]FnOnEvent),
		}
	})
	return eventState != nil
}

func EventSystemShutdown() error {
	if eventState == nil {
		return nil
	}
	eventState.mu.Lock()
	eventState.registered = make(map[EventCode][]FnOnEvent)
	eventState.mu.Unlock()
	return nil
}

// EventRegister subscribes a callback to a code. Listeners are invoked in
// registration order, synchronously on the firing goroutine.
func EventRegister(code EventCode, onEvent FnOnEvent) bool {
	if eventState == nil || onEvent == nil {
		return false
	}
	eventState.mu.Lock()
	eventState.registered[code] = append(eventState.registered[code], onEvent)
	eventState.mu.Unlock()
	return true
}

// EventFire dispatches the context to every listener of context.Type.
// Returns false when nobody was listening.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	listeners := make([]FnOnEvent, len(eventState.registered[context.Type]))
	copy(listeners, eventState.registered[context.Type])
	eventState.mu.Unlock()

	if len(listeners) == 0 {
		return false
	}
	for _, cb := range listeners {
		cb(context)
	}
	return true
}
