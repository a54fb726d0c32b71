package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/overlayfx"
	"github.com/gogpu/overlayfx/internal/fxmath"
)

// ErrNoSource is returned when a frame is rendered before a source
// texture has been bound.
var ErrNoSource = errors.New("render: no source texture bound")

// ErrNoPixelAccess is returned for targets without CPU pixel access.
var ErrNoPixelAccess = errors.New("render: target has no CPU pixel access")

// Renderer is the software implementation of overlayfx.FrameRenderer.
// It composites the effect stack over the bound source texture into a
// CPU-backed target, one instance at a time in caller order.
//
// The renderer borrows the source read-only; the producer must not
// write to it while a frame is in flight (see FrameExchange).
type Renderer struct {
	target RenderTarget
	source *SourceTexture
}

// New creates a software renderer writing into target.
func New(target RenderTarget) *Renderer {
	return &Renderer{target: target}
}

// SetSource binds the source texture sampled by subsequent frames.
func (r *Renderer) SetSource(src *SourceTexture) {
	r.source = src
}

// Source returns the currently bound source texture.
func (r *Renderer) Source() *SourceTexture {
	return r.source
}

// RenderFrame draws every instance in order, then the primitive batch
// for any ElectricArc instances. Instances are never reordered or
// culled; later instances observe the accumulated target.
func (r *Renderer) RenderFrame(info overlayfx.FrameInfo, instances []overlayfx.EffectInstance, primitives []overlayfx.Vertex3D) error {
	if r.source == nil {
		return ErrNoSource
	}
	if r.target.Pixels() == nil {
		return ErrNoPixelAccess
	}

	for i := range instances {
		inst := &instances[i]
		switch inst.Kind() {
		case overlayfx.EffectElectricArc:
			r.drawPrimitives(info, inst, primitives)
		default:
			r.drawQuad(info, inst)
		}
	}
	return nil
}

// drawQuad runs one 2D effect over the full target. The gate decides
// per pixel: outside an active gate the raw source bytes are written
// with no blending, so the region boundary leaks nothing.
func (r *Renderer) drawQuad(info overlayfx.FrameInfo, inst *overlayfx.EffectInstance) {
	w, h := r.target.Width(), r.target.Height()
	pix, stride := r.target.Pixels(), r.target.Stride()
	gate := inst.Target.Gate()
	res := info.Resolution()

	for y := 0; y < h; y++ {
		v := (float32(y) + 0.5) / float32(h)
		row := y * stride
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(w)
			off := row + x*4

			if !gate.Inside(u, v) {
				sx := int(u * float32(r.source.Width()))
				sy := int(v * float32(r.source.Height()))
				sr, sg, sb, sa := r.source.texel(sx, sy)
				pix[off], pix[off+1], pix[off+2], pix[off+3] = sr, sg, sb, sa
				continue
			}

			var out [4]float32
			switch inst.Kind() {
			case overlayfx.EffectHologram:
				p, _ := inst.Params.(overlayfx.HologramParams)
				out = shadeHologram(r.source, u, v, info.Time, p)
			case overlayfx.EffectWarpField:
				p, _ := inst.Params.(overlayfx.WarpFieldParams)
				out = shadeWarpField(r.source, u, v, info.Time, res, p)
			default:
				out = r.source.Sample(u, v)
			}
			blendPixel(pix, off, out, inst.Blend)
		}
	}
}

// blendPixel combines a shaded straight-alpha color with the target
// pixel at off according to the blend mode, then stores 8-bit RGBA.
func blendPixel(pix []byte, off int, src [4]float32, mode overlayfx.BlendMode) {
	var out [4]float32
	switch mode {
	case overlayfx.BlendReplace:
		out = src
	case overlayfx.BlendAdditive:
		for i := 0; i < 4; i++ {
			out[i] = fxmath.Saturate(float32(pix[off+i])/255 + src[i])
		}
	default: // BlendSourceOver
		sa := fxmath.Saturate(src[3])
		for i := 0; i < 3; i++ {
			dst := float32(pix[off+i]) / 255
			out[i] = src[i]*sa + dst*(1-sa)
		}
		da := float32(pix[off+3]) / 255
		out[3] = sa + da*(1-sa)
	}
	for i := 0; i < 4; i++ {
		pix[off+i] = uint8(fxmath.Saturate(out[i])*255 + 0.5)
	}
}

// drawPrimitives rasterizes the queued triangle list with the frame's
// view-projection and shades each fragment with the arc program.
// Fragments outside an active gate are discarded; there is no
// passthrough write on this path because the geometry does not cover
// the surface.
func (r *Renderer) drawPrimitives(info overlayfx.FrameInfo, inst *overlayfx.EffectInstance, verts []overlayfx.Vertex3D) {
	if len(verts) < 3 {
		return
	}
	gate := inst.Target.Gate()
	for i := 0; i+2 < len(verts); i += 3 {
		r.rasterTriangle(info, inst.Blend, gate, verts[i], verts[i+1], verts[i+2])
	}
}

// screenVertex is a projected triangle corner: screen position plus
// the attributes interpolated across the face.
type screenVertex struct {
	x, y  float32
	world [3]float32
	color [4]float32
}

// project maps a world-space vertex through the view-projection to
// top-left-origin screen coordinates. ok is false behind the camera.
func project(vp mgl32.Mat4, v overlayfx.Vertex3D, w, h int) (screenVertex, bool) {
	clip := vp.Mul4x1(mgl32.Vec4{v.Position[0], v.Position[1], v.Position[2], 1})
	if clip.W() <= 1e-6 {
		return screenVertex{}, false
	}
	inv := 1 / clip.W()
	ndcX, ndcY := clip.X()*inv, clip.Y()*inv
	return screenVertex{
		x:     (ndcX*0.5 + 0.5) * float32(w),
		y:     (0.5 - ndcY*0.5) * float32(h),
		world: v.Position,
		color: v.Color,
	}, true
}

// rasterTriangle fills one triangle with barycentric-interpolated
// world position and color, shading each covered pixel. Interpolation
// is affine in screen space; the arc geometry is decorative and does
// not need perspective-correct attributes.
func (r *Renderer) rasterTriangle(info overlayfx.FrameInfo, blend overlayfx.BlendMode, gate overlayfx.PortalGate, v0, v1, v2 overlayfx.Vertex3D) {
	w, h := r.target.Width(), r.target.Height()
	a, ok := project(info.ViewProjection, v0, w, h)
	if !ok {
		return
	}
	b, ok := project(info.ViewProjection, v1, w, h)
	if !ok {
		return
	}
	c, ok := project(info.ViewProjection, v2, w, h)
	if !ok {
		return
	}

	area := edgeFn(a, b, c.x, c.y)
	if area == 0 {
		return
	}

	minX := clampInt(int(min3(a.x, b.x, c.x)), 0, w-1)
	maxX := clampInt(int(max3(a.x, b.x, c.x))+1, 0, w-1)
	minY := clampInt(int(min3(a.y, b.y, c.y)), 0, h-1)
	maxY := clampInt(int(max3(a.y, b.y, c.y))+1, 0, h-1)

	pix, stride := r.target.Pixels(), r.target.Stride()
	invArea := 1 / area

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			la := edgeFn(b, c, px, py) * invArea
			lb := edgeFn(c, a, px, py) * invArea
			lc := 1 - la - lb
			if la < 0 || lb < 0 || lc < 0 {
				continue
			}

			if gate.Active != 0 {
				u := px / float32(w)
				vv := py / float32(h)
				if !gate.Inside(u, vv) {
					continue
				}
			}

			var world [3]float32
			var base [4]float32
			for i := 0; i < 3; i++ {
				world[i] = la*a.world[i] + lb*b.world[i] + lc*c.world[i]
			}
			for i := 0; i < 4; i++ {
				base[i] = la*a.color[i] + lb*b.color[i] + lc*c.color[i]
			}

			out := shadeElectricArc(world[0], world[1], world[2], base, info.Time)
			blendPixel(pix, y*stride+x*4, out, blend)
		}
	}
}

// edgeFn is the signed parallelogram area of (p0, p1, p). Dividing by
// the full triangle area yields the barycentric weight of the vertex
// opposite the p0-p1 edge.
func edgeFn(p0, p1 screenVertex, px, py float32) float32 {
	return (p1.x-p0.x)*(py-p0.y) - (p1.y-p0.y)*(px-p0.x)
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Composite is a convenience wrapper rendering one frame of the given
// instances into the target, returning the first error.
func (r *Renderer) Composite(info overlayfx.FrameInfo, instances ...overlayfx.EffectInstance) error {
	if err := r.RenderFrame(info, instances, nil); err != nil {
		return fmt.Errorf("render: composite: %w", err)
	}
	return nil
}
