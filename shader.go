package gradmesh

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"
)

// Entry points of the embedded WGSL module.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

//go:embed shaders/mesh.wgsl
var meshShaderSource string

// ShaderSource returns the WGSL source of the shading stage. It is the GPU
// counterpart of VertexStage and FragmentStage and uses the attribute
// locations of VertexBufferLayout.
func ShaderSource() string {
	return meshShaderSource
}

var (
	spirvOnce sync.Once
	spirvCode []uint32
	spirvErr  error
)

// CompileShader compiles the WGSL source to SPIR-V words.
// The result is computed once and shared; callers must not modify it.
func CompileShader() ([]uint32, error) {
	spirvOnce.Do(func() {
		spirvCode, spirvErr = compileSPIRV(meshShaderSource)
		if spirvErr == nil {
			Logger().Debug("gradmesh: shader compiled", "words", len(spirvCode))
		}
	})
	return spirvCode, spirvErr
}

func compileSPIRV(source string) ([]uint32, error) {
	if source == "" {
		return nil, errors.New("gradmesh: shader source is empty")
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("gradmesh: compile shader: %w", err)
	}
	if len(spirvBytes) < 20 || len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("gradmesh: compile shader: malformed SPIR-V (%d bytes)", len(spirvBytes))
	}
	if magic := binary.LittleEndian.Uint32(spirvBytes); magic != spirv.MagicNumber {
		return nil, fmt.Errorf("gradmesh: compile shader: bad SPIR-V magic 0x%08X", magic)
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}
