package loaders

import (
	"encoding/binary"
	"fmt"
	"os"
)

// First word of every SPIR-V module.
const spirvMagic uint32 = 0x07230203

// LoadShaderBinary reads a compiled SPIR-V module from disk. The file is
// rejected when it cannot be a SPIR-V binary, which catches the common
// mistake of pointing a pipeline at GLSL source.
func LoadShaderBinary(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 4 || len(data)%4 != 0 {
		return nil, fmt.Errorf("%s is not a SPIR-V binary: size %d is not a multiple of four words", path, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[:4]); magic != spirvMagic {
		return nil, fmt.Errorf("%s is not a SPIR-V binary: bad magic number 0x%08x", path, magic)
	}
	return data, nil
}
