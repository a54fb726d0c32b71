package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/overlayfx"
)

//go:embed shaders/passthrough.wgsl
var passthroughShaderSource string

//go:embed shaders/hologram.wgsl
var hologramShaderSource string

//go:embed shaders/warpfield.wgsl
var warpfieldShaderSource string

//go:embed shaders/electric_arc.wgsl
var electricArcShaderSource string

// ShaderSet holds the SPIR-V words of every effect program, compiled
// once at initialization. The set is immutable plain data: it survives
// device loss and is reused to rebuild pipelines on a fresh device.
type ShaderSet struct {
	Passthrough []uint32
	Hologram    []uint32
	WarpField   []uint32
	ElectricArc []uint32
}

// CompileShaders compiles all WGSL effect programs to SPIR-V. Any
// failure is fatal for the named effect kind and wraps
// overlayfx.ErrShaderMissing.
func CompileShaders() (*ShaderSet, error) {
	set := &ShaderSet{}
	for _, prog := range []struct {
		name   string
		source string
		out    *[]uint32
	}{
		{"passthrough", passthroughShaderSource, &set.Passthrough},
		{"hologram", hologramShaderSource, &set.Hologram},
		{"warpfield", warpfieldShaderSource, &set.WarpField},
		{"electric_arc", electricArcShaderSource, &set.ElectricArc},
	} {
		words, err := compileWGSL(prog.name, prog.source)
		if err != nil {
			return nil, err
		}
		*prog.out = words
	}
	overlayfx.Logger().Info("effect shaders compiled", "programs", 4)
	return set, nil
}

// compileWGSL compiles one WGSL program to SPIR-V uint32 words.
func compileWGSL(name, source string) ([]uint32, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: %s source is empty", overlayfx.ErrShaderMissing, name)
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: compile %s: %v", overlayfx.ErrShaderMissing, name, err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
