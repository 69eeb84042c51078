package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spaghettifunk/lumina/engine/core"
	"github.com/spaghettifunk/lumina/engine/math"
	"github.com/spaghettifunk/lumina/engine/renderer/metadata"
)

// ParseMaterialLibrary reads a wavefront .mtl file and returns the material
// configurations it defines, in file order.
func ParseMaterialLibrary(path string) ([]*metadata.MaterialConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var materials []*metadata.MaterialConfig
	var current *metadata.MaterialConfig

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		keyword := fields[0]
		args := fields[1:]

		if keyword == "newmtl" {
			if len(args) < 1 {
				return nil, fmt.Errorf("%s:%d: newmtl without a name", path, lineNumber)
			}
			current = defaultMaterialConfig(args[0])
			materials = append(materials, current)
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("%s:%d: statement '%s' before the first newmtl", path, lineNumber, keyword)
		}

		switch keyword {
		case "Kd":
			colour, err := parseColour(args)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
			}
			current.DiffuseColour = colour
		case "Ka":
			colour, err := parseColour(args)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
			}
			current.AmbientColour = colour
		case "Ks":
			colour, err := parseColour(args)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
			}
			current.SpecularColour = colour
		case "Ke":
			colour, err := parseColour(args)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
			}
			current.EmissiveColour = colour
		case "Ns":
			value, err := parseScalar(args)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
			}
			current.Shininess = value
		case "d":
			value, err := parseScalar(args)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
			}
			current.Opacity = value
		case "Tr":
			value, err := parseScalar(args)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNumber, err)
			}
			current.Opacity = 1 - value
		case "map_Kd":
			current.DiffuseMapName = mapName(args)
		case "map_Ks":
			current.SpecularMapName = mapName(args)
		case "map_Ke":
			current.EmissiveMapName = mapName(args)
		case "map_bump", "bump", "norm", "map_Kn":
			current.NormalMapName = mapName(args)
		case "Ni", "illum", "Tf", "map_d", "map_Ns":
			// Recognized but not part of the lighting model.
		default:
			core.LogDebug("%s:%d: skipping unknown statement '%s'", path, lineNumber, keyword)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return materials, nil
}

func defaultMaterialConfig(name string) *metadata.MaterialConfig {
	return &metadata.MaterialConfig{
		Name:              name,
		DiffuseColour:     math.NewVec4(1, 1, 1, 1),
		AmbientColour:     math.NewVec4(1, 1, 1, 1),
		SpecularColour:    math.NewVec4(1, 1, 1, 1),
		EmissiveColour:    math.NewVec4(0, 0, 0, 1),
		Shininess:         32,
		ShininessStrength: 1,
		Opacity:           1,
		BumpScaling:       1,
		OffsetTiling:      math.NewVec4(0, 0, 1, 1),
	}
}

func parseColour(args []string) (math.Vec4, error) {
	if len(args) < 3 {
		return math.Vec4{}, fmt.Errorf("expected 3 colour components, got %d", len(args))
	}
	var components [3]float32
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return math.Vec4{}, fmt.Errorf("invalid colour component %q", args[i])
		}
		components[i] = float32(value)
	}
	return math.NewVec4(components[0], components[1], components[2], 1), nil
}

func parseScalar(args []string) (float32, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("expected a value")
	}
	value, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", args[0])
	}
	return float32(value), nil
}

// mapName returns the file argument of a texture map statement. Options
// such as -bm come first, the file name is always the final argument.
func mapName(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[len(args)-1]
}
