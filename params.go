package overlayfx

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Parameter blocks are the uniform data uploaded per draw. Their binary
// layout is the contract between this package and the shader programs:
// little-endian float32/uint32 fields at fixed offsets, rounded to
// 16-byte multiples, matching the WGSL uniform structs field for field.
// The pack functions below are the only writers, and the layout tests
// pin every offset, so host and shader cannot drift apart.
//
// All 2D effects share a common prefix (bound at buffer slot 0):
//
//	offset   0  world-to-clip transform (mat4x4<f32>, column-major)
//	offset  64  elapsed time (f32)
//	offset  68  portal-active flag (u32, strict 0/1)
//	offset  72  viewport resolution (vec2<f32>)
//	offset  80  effect bounds left/top/right/bottom (vec4<f32>)
//
// The per-effect suffix starts at offset 96. ElectricArc does not use
// the prefix at all: it binds a 64-byte view-projection block at slot
// 0, a 16-byte time block at slot 1, and a 32-byte gate block at slot
// 2, because it draws 3D geometry rather than a fullscreen quad.
const (
	// QuadPrefixSize is the byte size of the common 2D prefix.
	QuadPrefixSize = 96

	// PassthroughBlockSize is the passthrough parameter block: the
	// prefix only.
	PassthroughBlockSize = QuadPrefixSize

	// HologramBlockSize is prefix + aberration, glitch speed, scanline
	// intensity and one pad scalar.
	HologramBlockSize = QuadPrefixSize + 16

	// WarpFieldBlockSize is prefix + the starfield suffix. Each RGB
	// triple occupies a full 16-byte slot (vec3<f32> plus an explicit
	// pad) so the Go layout and the WGSL uniform layout agree.
	WarpFieldBlockSize = QuadPrefixSize + 96

	// ArcTransformBlockSize is the ElectricArc view-projection block.
	ArcTransformBlockSize = 64

	// ArcTimeBlockSize is the ElectricArc elapsed-time block: one f32
	// padded to a 16-byte slot.
	ArcTimeBlockSize = 16

	// ArcGateBlockSize is the ElectricArc bounds-gate block: bounds
	// vec4, resolution vec2, active u32, one pad scalar. Unlike the 2D
	// effects the gate rides in its own block because the arc shares no
	// prefix with them.
	ArcGateBlockSize = 32
)

// QuadPrefix carries the per-draw data common to all 2D effects.
type QuadPrefix struct {
	// WorldClip transforms the fullscreen quad to clip space.
	WorldClip mgl32.Mat4

	// Time is the elapsed time in seconds.
	Time float32

	// Gate is the bounds gate uploaded with the draw.
	Gate PortalGate

	// Resolution is the viewport size in pixels.
	Resolution [2]float32
}

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
}

func putU32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], v)
}

func putMat4(buf []byte, off int, m mgl32.Mat4) {
	for i := 0; i < 16; i++ {
		putF32(buf, off+i*4, m[i])
	}
}

func (p *QuadPrefix) put(buf []byte) {
	putMat4(buf, 0, p.WorldClip)
	putF32(buf, 64, p.Time)
	putU32(buf, 68, p.Gate.Active)
	putF32(buf, 72, p.Resolution[0])
	putF32(buf, 76, p.Resolution[1])
	putF32(buf, 80, p.Gate.Bounds.Left)
	putF32(buf, 84, p.Gate.Bounds.Top)
	putF32(buf, 88, p.Gate.Bounds.Right)
	putF32(buf, 92, p.Gate.Bounds.Bottom)
}

// PackPassthroughBlock packs the passthrough parameter block.
func PackPassthroughBlock(prefix QuadPrefix) []byte {
	buf := make([]byte, PassthroughBlockSize)
	prefix.put(buf)
	return buf
}

// PackHologramBlock packs the hologram parameter block.
func PackHologramBlock(prefix QuadPrefix, p HologramParams) []byte {
	buf := make([]byte, HologramBlockSize)
	prefix.put(buf)
	putF32(buf, 96, p.AberrationAmount)
	putF32(buf, 100, p.GlitchSpeed)
	putF32(buf, 104, p.ScanlineIntensity)
	// Pad scalar at 108 stays zero.
	return buf
}

// PackWarpFieldBlock packs the WarpField parameter block.
func PackWarpFieldBlock(prefix QuadPrefix, p WarpFieldParams) []byte {
	buf := make([]byte, WarpFieldBlockSize)
	prefix.put(buf)
	putF32(buf, 96, p.Speed)
	putF32(buf, 100, p.Density)
	putF32(buf, 104, p.StarBaseSize)
	putF32(buf, 108, p.GlowFalloff)
	putF32(buf, 112, p.PulseSpeed)
	putF32(buf, 116, p.MotionBlurStrength)
	putF32(buf, 120, p.DepthBlurStrength)
	putF32(buf, 124, p.BaseAlpha)
	putF32(buf, 128, p.ColorInner.R)
	putF32(buf, 132, p.ColorInner.G)
	putF32(buf, 136, p.ColorInner.B)
	putF32(buf, 144, p.ColorOuter.R)
	putF32(buf, 148, p.ColorOuter.G)
	putF32(buf, 152, p.ColorOuter.B)
	putF32(buf, 160, p.ColorPulse.R)
	putF32(buf, 164, p.ColorPulse.G)
	putF32(buf, 168, p.ColorPulse.B)
	putF32(buf, 176, p.BloomThreshold)
	putF32(buf, 180, p.BloomIntensity)
	// Vec3 tails at 140/156/172 and the block tail at 184..191 stay zero.
	return buf
}

// PackArcTransform packs the ElectricArc view-projection block
// (buffer slot 0).
func PackArcTransform(viewProjection mgl32.Mat4) []byte {
	buf := make([]byte, ArcTransformBlockSize)
	putMat4(buf, 0, viewProjection)
	return buf
}

// PackArcTime packs the ElectricArc elapsed-time block (buffer slot 1).
func PackArcTime(t float32) []byte {
	buf := make([]byte, ArcTimeBlockSize)
	putF32(buf, 0, t)
	return buf
}

// PackArcGateBlock packs the ElectricArc bounds-gate block (buffer
// slot 2). The fragment stage divides the framebuffer coordinate by
// the resolution to recover the normalized gate coordinate.
func PackArcGateBlock(gate PortalGate, resolution [2]float32) []byte {
	buf := make([]byte, ArcGateBlockSize)
	putF32(buf, 0, gate.Bounds.Left)
	putF32(buf, 4, gate.Bounds.Top)
	putF32(buf, 8, gate.Bounds.Right)
	putF32(buf, 12, gate.Bounds.Bottom)
	putF32(buf, 16, resolution[0])
	putF32(buf, 20, resolution[1])
	putU32(buf, 24, gate.Active)
	// Pad scalar at 28 stays zero.
	return buf
}
