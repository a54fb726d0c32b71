package gpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/overlayfx"
)

func TestShaderSourcesEmbedded(t *testing.T) {
	sources := map[string]string{
		"passthrough":  passthroughShaderSource,
		"hologram":     hologramShaderSource,
		"warpfield":    warpfieldShaderSource,
		"electric_arc": electricArcShaderSource,
	}
	for name, src := range sources {
		if src == "" {
			t.Errorf("%s: source is empty", name)
			continue
		}
		for _, entry := range []string{"fn vs_main", "fn fs_main"} {
			if !strings.Contains(src, entry) {
				t.Errorf("%s: missing entry point %q", name, entry)
			}
		}
	}
}

func TestQuadShadersShareGate(t *testing.T) {
	// Every 2D program must evaluate the bounds gate before sampling
	// anything effect-specific. The gate condition is textual in the
	// WGSL; pin its presence in the gated programs.
	for name, src := range map[string]string{
		"hologram":  hologramShaderSource,
		"warpfield": warpfieldShaderSource,
	} {
		if !strings.Contains(src, "portal_active == 1u") {
			t.Errorf("%s: bounds gate missing", name)
		}
		if !strings.Contains(src, "params.bounds") {
			t.Errorf("%s: bounds not read", name)
		}
	}
}

func TestArcShaderGate(t *testing.T) {
	// The arc program carries its own gate block and discards outside
	// fragments, matching the software rasterizer's policy.
	src := electricArcShaderSource
	for _, want := range []string{"gate.active == 1u", "gate.bounds", "gate.resolution", "discard"} {
		if !strings.Contains(src, want) {
			t.Errorf("electric_arc: missing %q", want)
		}
	}
}

func TestCompileShaders(t *testing.T) {
	set, err := CompileShaders()
	if err != nil {
		t.Fatalf("CompileShaders() error = %v", err)
	}
	programs := map[string][]uint32{
		"passthrough":  set.Passthrough,
		"hologram":     set.Hologram,
		"warpfield":    set.WarpField,
		"electric_arc": set.ElectricArc,
	}
	for name, spirv := range programs {
		if len(spirv) == 0 {
			t.Errorf("%s: empty SPIR-V", name)
		}
	}
}

func TestCompileWGSLEmptySource(t *testing.T) {
	_, err := compileWGSL("hologram", "")
	if err == nil {
		t.Fatal("expected error for empty source")
	}
	if !strings.Contains(err.Error(), "hologram") {
		t.Errorf("error %q does not name the program", err)
	}
}

func TestBlendStateMapping(t *testing.T) {
	tests := []struct {
		mode     overlayfx.BlendMode
		colorSrc gputypes.BlendFactor
		colorDst gputypes.BlendFactor
	}{
		{overlayfx.BlendSourceOver, gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha},
		{overlayfx.BlendReplace, gputypes.BlendFactorOne, gputypes.BlendFactorZero},
		{overlayfx.BlendAdditive, gputypes.BlendFactorOne, gputypes.BlendFactorOne},
	}
	for _, tt := range tests {
		bs := blendState(tt.mode)
		if bs.Color.SrcFactor != tt.colorSrc || bs.Color.DstFactor != tt.colorDst {
			t.Errorf("%v: color blend = (%v, %v), want (%v, %v)",
				tt.mode, bs.Color.SrcFactor, bs.Color.DstFactor, tt.colorSrc, tt.colorDst)
		}
		if bs.Color.Operation != gputypes.BlendOperationAdd {
			t.Errorf("%v: operation = %v, want Add", tt.mode, bs.Color.Operation)
		}
	}
}

func TestBlendIndexClampsUnknownModes(t *testing.T) {
	tests := []struct {
		mode overlayfx.BlendMode
		want int
	}{
		{overlayfx.BlendSourceOver, 0},
		{overlayfx.BlendReplace, 1},
		{overlayfx.BlendAdditive, 2},
		{overlayfx.BlendMode(-1), 0},
		{overlayfx.BlendMode(99), 0},
	}
	for _, tt := range tests {
		if got := blendIndex(tt.mode); got != tt.want {
			t.Errorf("blendIndex(%v) = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestQuadBindEntries(t *testing.T) {
	// Texture view and sampler bind by their raw native handles.
	entries := quadBindEntries(0x10, 96, 0x20, 0x30)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	buf, ok := entries[0].Resource.(gputypes.BufferBinding)
	if !ok || buf.Buffer != 0x10 || buf.Size != 96 {
		t.Errorf("buffer entry = %+v", entries[0].Resource)
	}
	view, ok := entries[1].Resource.(gputypes.TextureViewBinding)
	if !ok || view.TextureView != 0x20 {
		t.Errorf("texture view entry = %+v", entries[1].Resource)
	}
	sampler, ok := entries[2].Resource.(gputypes.SamplerBinding)
	if !ok || sampler.Sampler != 0x30 {
		t.Errorf("sampler entry = %+v", entries[2].Resource)
	}
}

func TestArcVertexLayout(t *testing.T) {
	layouts := arcVertexLayout()
	if len(layouts) != 1 {
		t.Fatalf("got %d vertex buffers, want 1", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != overlayfx.Vertex3DStride {
		t.Errorf("stride = %d, want %d", l.ArrayStride, overlayfx.Vertex3DStride)
	}
	if len(l.Attributes) != 2 {
		t.Fatalf("got %d attributes, want 2", len(l.Attributes))
	}
	if l.Attributes[0].Offset != 0 || l.Attributes[0].Format != gputypes.VertexFormatFloat32x3 {
		t.Errorf("position attribute = %+v", l.Attributes[0])
	}
	if l.Attributes[1].Offset != 12 || l.Attributes[1].Format != gputypes.VertexFormatFloat32x4 {
		t.Errorf("color attribute = %+v", l.Attributes[1])
	}
}

func TestQuadBlockForSizes(t *testing.T) {
	prefix := overlayfx.QuadPrefix{WorldClip: mgl32.Ident4()}
	tests := []struct {
		params overlayfx.EffectParams
		size   int
	}{
		{overlayfx.PassthroughParams{}, overlayfx.PassthroughBlockSize},
		{overlayfx.DefaultHologramParams(), overlayfx.HologramBlockSize},
		{overlayfx.DefaultWarpFieldParams(), overlayfx.WarpFieldBlockSize},
		{nil, overlayfx.PassthroughBlockSize},
	}
	for _, tt := range tests {
		if got := len(quadBlockFor(prefix, tt.params)); got != tt.size {
			t.Errorf("%T: block size = %d, want %d", tt.params, got, tt.size)
		}
	}
}

func TestClassifyResourceErr(t *testing.T) {
	if classifyResourceErr("op", nil) != nil {
		t.Error("nil error should stay nil")
	}

	lost := classifyResourceErr("create buffer", errors.New("vulkan: device lost"))
	if !errors.Is(lost, overlayfx.ErrDeviceLost) {
		t.Errorf("device-lost not classified: %v", lost)
	}
	if errors.Is(lost, overlayfx.ErrResourceAllocation) {
		t.Error("device-lost also matched allocation sentinel")
	}

	alloc := classifyResourceErr("create texture", errors.New("out of memory"))
	if !errors.Is(alloc, overlayfx.ErrResourceAllocation) {
		t.Errorf("allocation failure not classified: %v", alloc)
	}
	if !strings.Contains(alloc.Error(), "create texture") {
		t.Errorf("missing op in %q", alloc)
	}
}
