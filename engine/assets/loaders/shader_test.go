package loaders

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadShaderBinaryAcceptsSPIRV(t *testing.T) {
	words := []uint32{spirvMagic, 0x00010300, 0, 1, 0}
	data := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	path := filepath.Join(t.TempDir(), "scene.vert.spv")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadShaderBinary(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != len(data) {
		t.Errorf("expected %d bytes, got %d", len(data), len(loaded))
	}
}

func TestLoadShaderBinaryRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.frag")
	if err := os.WriteFile(path, []byte("#version 450"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadShaderBinary(path); err == nil {
		t.Error("expected GLSL source to be rejected")
	}
}

func TestLoadShaderBinaryRejectsTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.spv")
	data := []byte{0x03, 0x02, 0x23, 0x07, 0xAA}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadShaderBinary(path); err == nil {
		t.Error("expected a size that is not a multiple of four words to be rejected")
	}
}
