package core

import "testing"

func TestEventRegisterAndFire(t *testing.T) {
	if !EventSystemInitialize() {
		t.Fatal("event system failed to initialize")
	}

	var received EventContext
	calls := 0
	EventRegister(EVENT_CODE_KEY_PRESSED, func(context EventContext) {
		received = context
		calls++
	})

	fired := EventFire(EventContext{
		Type: EVENT_CODE_KEY_PRESSED,
		Data: &KeyEvent{KeyCode: KEY_ESCAPE},
	})
	if !fired {
		t.Fatal("expected fire to reach a listener")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	ke, ok := received.Data.(*KeyEvent)
	if !ok {
		t.Fatalf("expected *KeyEvent payload, got %T", received.Data)
	}
	if ke.KeyCode != KEY_ESCAPE {
		t.Errorf("expected escape key code, got 0x%X", ke.KeyCode)
	}
}

func TestEventFireWithoutListeners(t *testing.T) {
	EventSystemInitialize()

	if EventFire(EventContext{Type: MAX_EVENT_CODE}) {
		t.Error("firing a code nobody listens to should report false")
	}
}

func TestEventMultipleListenersInOrder(t *testing.T) {
	EventSystemInitialize()

	var order []int
	EventRegister(EVENT_CODE_RESIZED, func(EventContext) { order = append(order, 1) })
	EventRegister(EVENT_CODE_RESIZED, func(EventContext) { order = append(order, 2) })

	EventFire(EventContext{Type: EVENT_CODE_RESIZED, Data: &SystemEvent{WindowWidth: 800, WindowHeight: 600}})
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected listeners invoked in registration order, got %v", order)
	}
}
