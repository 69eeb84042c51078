//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var shaderNames = []string{"scene", "sky", "overlay"}
var shaderStages = []string{"vert", "frag"}

// Compiles every GLSL shader under assets/shaders to SPIR-V with glslc.
func (Build) Shaders() error {
	for _, name := range shaderNames {
		for _, stage := range shaderStages {
			source := filepath.Join("assets", "shaders", fmt.Sprintf("%s.%s", name, stage))
			if _, err := executeCmd("glslc", withArgs(source, "-o", source+".spv"), withStream()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Builds the viewer binary into bin/.
func (Build) App() error {
	mg.Deps(Build.Shaders)
	if _, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", "lumina"), "."), withStream()); err != nil {
		return err
	}
	return nil
}
