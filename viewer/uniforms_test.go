package viewer

import (
	"testing"
	"unsafe"
)

func TestFrameUniformsLayout(t *testing.T) {
	if got := unsafe.Sizeof(FrameUniforms{}); got != 208 {
		t.Errorf("expected a 208 byte frame uniform block, got %d", got)
	}

	var fu FrameUniforms
	if got := unsafe.Offsetof(fu.Projection); got != 64 {
		t.Errorf("expected Projection at offset 64, got %d", got)
	}
	if got := unsafe.Offsetof(fu.CameraPosition); got != 128 {
		t.Errorf("expected CameraPosition at offset 128, got %d", got)
	}
	if got := unsafe.Offsetof(fu.UserInput); got != 192 {
		t.Errorf("expected UserInput at offset 192, got %d", got)
	}
}

func TestFrameUniformsBytes(t *testing.T) {
	fu := FrameUniforms{}
	if got := len(fu.Bytes()); got != 208 {
		t.Errorf("expected Bytes to cover the whole block, got %d", got)
	}
}
