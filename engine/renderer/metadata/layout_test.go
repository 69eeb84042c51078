package metadata

import (
	"testing"
	"unsafe"
)

// The shader declarations in assets/shaders mirror these structs field
// for field. These tests pin the sizes and offsets so a reordered Go
// field cannot silently shear the GPU view of the data.

func TestMaterialShaderDataLayout(t *testing.T) {
	if got := unsafe.Sizeof(MaterialShaderData{}); got != 160 {
		t.Errorf("expected a 160 byte material record, got %d", got)
	}

	var data MaterialShaderData
	if got := unsafe.Offsetof(data.Shininess); got != 64 {
		t.Errorf("expected Shininess at offset 64, got %d", got)
	}
	if got := unsafe.Offsetof(data.DiffuseTexIndex); got != 80 {
		t.Errorf("expected DiffuseTexIndex at offset 80, got %d", got)
	}
	if got := unsafe.Offsetof(data.DiffuseTexOffsetTiling); got != 96 {
		t.Errorf("expected DiffuseTexOffsetTiling at offset 96, got %d", got)
	}
}

func TestLightShaderDataLayout(t *testing.T) {
	if got := unsafe.Sizeof(LightShaderData{}); got != 96 {
		t.Errorf("expected a 96 byte light record, got %d", got)
	}

	var data LightShaderData
	if got := unsafe.Offsetof(data.Angles); got != 48 {
		t.Errorf("expected Angles at offset 48, got %d", got)
	}
	if got := unsafe.Offsetof(data.Info); got != 80 {
		t.Errorf("expected Info at offset 80, got %d", got)
	}
}

func TestLightsBlockLayout(t *testing.T) {
	if got := unsafe.Sizeof(LightRanges{}); got != 32 {
		t.Errorf("expected a 32 byte ranges header, got %d", got)
	}
	if got := unsafe.Sizeof(LightsBlock{}); got != 12320 {
		t.Errorf("expected a 12320 byte lights block, got %d", got)
	}

	var block LightsBlock
	if got := unsafe.Offsetof(block.Lights); got != 32 {
		t.Errorf("expected the light array right after the ranges, got offset %d", got)
	}
	if got := len(block.Bytes()); got != 12320 {
		t.Errorf("expected Bytes to cover the whole block, got %d", got)
	}
}
