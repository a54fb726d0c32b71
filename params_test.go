package overlayfx

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func f32At(t *testing.T, buf []byte, off int) float32 {
	t.Helper()
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
}

func u32At(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

func TestBlockSizesAligned(t *testing.T) {
	sizes := map[string]int{
		"passthrough":   PassthroughBlockSize,
		"hologram":      HologramBlockSize,
		"warpfield":     WarpFieldBlockSize,
		"arc transform": ArcTransformBlockSize,
		"arc time":      ArcTimeBlockSize,
		"arc gate":      ArcGateBlockSize,
	}
	for name, size := range sizes {
		if size%16 != 0 {
			t.Errorf("%s block size %d is not a 16-byte multiple", name, size)
		}
	}
}

func TestPackPrefixLayout(t *testing.T) {
	prefix := QuadPrefix{
		WorldClip: mgl32.Ident4(),
		Time:      12.5,
		Gate: PortalGate{
			Active: 1,
			Bounds: Bounds{Left: 0.25, Top: 0.125, Right: 0.75, Bottom: 0.875},
		},
		Resolution: [2]float32{800, 600},
	}
	buf := PackPassthroughBlock(prefix)

	if len(buf) != PassthroughBlockSize {
		t.Fatalf("block size = %d, want %d", len(buf), PassthroughBlockSize)
	}

	// Identity matrix: diagonal at column-major positions 0, 5, 10, 15.
	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if got := f32At(t, buf, i*4); got != want {
			t.Errorf("matrix element %d = %v, want %v", i, got, want)
		}
	}

	if got := f32At(t, buf, 64); got != 12.5 {
		t.Errorf("time at offset 64 = %v, want 12.5", got)
	}
	if got := u32At(buf, 68); got != 1 {
		t.Errorf("portal flag at offset 68 = %d, want 1", got)
	}
	if got := f32At(t, buf, 72); got != 800 {
		t.Errorf("resolution.x at offset 72 = %v, want 800", got)
	}
	if got := f32At(t, buf, 76); got != 600 {
		t.Errorf("resolution.y at offset 76 = %v, want 600", got)
	}
	wantBounds := []float32{0.25, 0.125, 0.75, 0.875}
	for i, want := range wantBounds {
		if got := f32At(t, buf, 80+i*4); got != want {
			t.Errorf("bounds[%d] at offset %d = %v, want %v", i, 80+i*4, got, want)
		}
	}
}

func TestPackHologramBlock(t *testing.T) {
	p := HologramParams{AberrationAmount: 0.005, GlitchSpeed: 10, ScanlineIntensity: 0.1}
	buf := PackHologramBlock(QuadPrefix{WorldClip: mgl32.Ident4()}, p)

	if len(buf) != HologramBlockSize {
		t.Fatalf("block size = %d, want %d", len(buf), HologramBlockSize)
	}
	if got := f32At(t, buf, 96); got != 0.005 {
		t.Errorf("aberration at 96 = %v", got)
	}
	if got := f32At(t, buf, 100); got != 10 {
		t.Errorf("glitch speed at 100 = %v", got)
	}
	if got := f32At(t, buf, 104); got != 0.1 {
		t.Errorf("scanline intensity at 104 = %v", got)
	}
	if got := f32At(t, buf, 108); got != 0 {
		t.Errorf("pad at 108 = %v, want 0", got)
	}
}

func TestPackWarpFieldBlock(t *testing.T) {
	p := DefaultWarpFieldParams()
	buf := PackWarpFieldBlock(QuadPrefix{WorldClip: mgl32.Ident4()}, p)

	if len(buf) != WarpFieldBlockSize {
		t.Fatalf("block size = %d, want %d", len(buf), WarpFieldBlockSize)
	}

	scalars := []struct {
		name string
		off  int
		want float32
	}{
		{"speed", 96, 1.0},
		{"density", 100, 2.0},
		{"star_base_size", 104, 0.003},
		{"glow_falloff", 108, 5.0},
		{"pulse_speed", 112, 1.8},
		{"motion_blur_strength", 116, 0.05},
		{"depth_blur_strength", 120, 0.0005},
		{"base_alpha", 124, 0.7},
		{"color_inner.r", 128, 0.1},
		{"color_inner.g", 132, 0.2},
		{"color_inner.b", 136, 0.6},
		{"color_outer.r", 144, 0.9},
		{"color_outer.g", 148, 0.1},
		{"color_outer.b", 152, 0.8},
		{"color_pulse.r", 160, 1.0},
		{"color_pulse.g", 164, 0.7},
		{"color_pulse.b", 168, 0.0},
		{"bloom_threshold", 176, 0.5},
		{"bloom_intensity", 180, 0.8},
	}
	for _, s := range scalars {
		if got := f32At(t, buf, s.off); got != s.want {
			t.Errorf("%s at offset %d = %v, want %v", s.name, s.off, got, s.want)
		}
	}

	// Vec3 tail padding must stay zero so the layout matches the WGSL
	// uniform struct exactly.
	for _, off := range []int{140, 156, 172, 184, 188} {
		if got := f32At(t, buf, off); got != 0 {
			t.Errorf("pad at offset %d = %v, want 0", off, got)
		}
	}
}

func TestPackArcBlocks(t *testing.T) {
	vp := mgl32.Perspective(mgl32.DegToRad(60), 4.0/3.0, 0.1, 100)
	buf := PackArcTransform(vp)
	if len(buf) != ArcTransformBlockSize {
		t.Fatalf("transform block size = %d, want %d", len(buf), ArcTransformBlockSize)
	}
	for i := 0; i < 16; i++ {
		if got := f32At(t, buf, i*4); got != vp[i] {
			t.Errorf("transform element %d = %v, want %v", i, got, vp[i])
		}
	}

	tb := PackArcTime(3.25)
	if len(tb) != ArcTimeBlockSize {
		t.Fatalf("time block size = %d, want %d", len(tb), ArcTimeBlockSize)
	}
	if got := f32At(t, tb, 0); got != 3.25 {
		t.Errorf("time at 0 = %v, want 3.25", got)
	}
	for off := 4; off < ArcTimeBlockSize; off += 4 {
		if got := u32At(tb, off); got != 0 {
			t.Errorf("time pad at %d = %d, want 0", off, got)
		}
	}
}

func TestPackArcGateBlock(t *testing.T) {
	gate := PortalGate{
		Active: 1,
		Bounds: Bounds{Left: 0.25, Top: 0.125, Right: 0.75, Bottom: 0.875},
	}
	buf := PackArcGateBlock(gate, [2]float32{800, 600})
	if len(buf) != ArcGateBlockSize {
		t.Fatalf("gate block size = %d, want %d", len(buf), ArcGateBlockSize)
	}

	wantBounds := []float32{0.25, 0.125, 0.75, 0.875}
	for i, want := range wantBounds {
		if got := f32At(t, buf, i*4); got != want {
			t.Errorf("bounds[%d] at offset %d = %v, want %v", i, i*4, got, want)
		}
	}
	if got := f32At(t, buf, 16); got != 800 {
		t.Errorf("resolution.x at 16 = %v, want 800", got)
	}
	if got := f32At(t, buf, 20); got != 600 {
		t.Errorf("resolution.y at 20 = %v, want 600", got)
	}
	if got := u32At(buf, 24); got != 1 {
		t.Errorf("active at 24 = %d, want 1", got)
	}
	if got := u32At(buf, 28); got != 0 {
		t.Errorf("pad at 28 = %d, want 0", got)
	}

	inactive := PackArcGateBlock(PortalGate{}, [2]float32{1, 1})
	if got := u32At(inactive, 24); got != 0 {
		t.Errorf("inactive flag = %d, want 0", got)
	}
}

func TestPackVertices3D(t *testing.T) {
	verts := []Vertex3D{
		{Position: [3]float32{1, 2, 3}, Color: [4]float32{0.1, 0.2, 0.3, 0.4}},
		{Position: [3]float32{-1, -2, -3}, Color: [4]float32{1, 1, 1, 1}},
	}
	buf := PackVertices3D(verts)
	if len(buf) != 2*Vertex3DStride {
		t.Fatalf("packed size = %d, want %d", len(buf), 2*Vertex3DStride)
	}
	if got := f32At(t, buf, 0); got != 1 {
		t.Errorf("v0 position.x = %v", got)
	}
	if got := f32At(t, buf, 12); got != 0.1 {
		t.Errorf("v0 color.r = %v", got)
	}
	if got := f32At(t, buf, Vertex3DStride+8); got != -3 {
		t.Errorf("v1 position.z = %v", got)
	}
	if got := f32At(t, buf, Vertex3DStride+24); got != 1 {
		t.Errorf("v1 color.a = %v", got)
	}
}
