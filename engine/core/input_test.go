package core

import "testing"

func TestInputKeyTransitions(t *testing.T) {
	EventSystemInitialize()
	if err := InputInitialize(); err != nil {
		t.Fatalf("input initialize failed: %v", err)
	}

	InputProcessKey(KEY_TAB, true)
	if !InputIsKeyDown(KEY_TAB) {
		t.Error("tab should be down after press")
	}
	if !InputWasKeyPressed(KEY_TAB) {
		t.Error("tab should report a pressed edge before the frame flips state")
	}

	InputUpdate(0.016)
	if !InputWasKeyDown(KEY_TAB) {
		t.Error("previous state should remember tab as down")
	}
	if InputWasKeyPressed(KEY_TAB) {
		t.Error("held key should not report a pressed edge")
	}

	InputProcessKey(KEY_TAB, false)
	if InputIsKeyDown(KEY_TAB) {
		t.Error("tab should be up after release")
	}
}

func TestInputMouseState(t *testing.T) {
	EventSystemInitialize()
	InputInitialize()

	InputProcessButton(BUTTON_RIGHT, true)
	if !InputIsButtonDown(BUTTON_RIGHT) {
		t.Error("right button should be down")
	}

	InputProcessMouseMove(120, 240)
	x, y := InputGetMousePosition()
	if x != 120 || y != 240 {
		t.Errorf("expected mouse at (120, 240), got (%d, %d)", x, y)
	}

	InputUpdate(0.016)
	InputProcessMouseMove(121, 240)
	px, py := InputGetPreviousMousePosition()
	if px != 120 || py != 240 {
		t.Errorf("expected previous mouse at (120, 240), got (%d, %d)", px, py)
	}
}
