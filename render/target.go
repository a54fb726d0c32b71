package render

import (
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// RenderTarget defines where composited output goes.
//
// The software renderer requires CPU access (Pixels); GPU-backed
// targets live in package gpu. Pixel data is 8-bit RGBA, straight
// alpha, row-major with the given stride.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to pixel data, or nil for targets
	// without CPU access.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed composite target using *image.RGBA.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	r := render.New(target)
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed composite target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// Resize replaces the backing image with one of the given dimensions.
// Contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Ensure PixmapTarget implements RenderTarget.
var _ RenderTarget = (*PixmapTarget)(nil)

// SourceTexture is the UI-produced color buffer the effects sample.
// The renderer borrows it read-only for the duration of a frame; it
// never resizes or frees the backing memory. Synchronization with the
// producer is the caller's responsibility (see FrameExchange).
type SourceTexture struct {
	img *image.RGBA
}

// NewSourceTexture allocates a blank source texture.
func NewSourceTexture(width, height int) *SourceTexture {
	return &SourceTexture{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// SourceFromImage copies an arbitrary image into a new source texture.
func SourceFromImage(src image.Image) *SourceTexture {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(img, img.Bounds(), src, b.Min, xdraw.Src)
	return &SourceTexture{img: img}
}

// WrapSource wraps an existing *image.RGBA without copying. The caller
// keeps ownership and must not write to it during a frame.
func WrapSource(img *image.RGBA) *SourceTexture {
	return &SourceTexture{img: img}
}

// Width returns the texture width in pixels.
func (s *SourceTexture) Width() int { return s.img.Bounds().Dx() }

// Height returns the texture height in pixels.
func (s *SourceTexture) Height() int { return s.img.Bounds().Dy() }

// Image returns the backing *image.RGBA, shared with the texture.
func (s *SourceTexture) Image() *image.RGBA { return s.img }

// Fill sets every pixel to the given RGBA bytes.
func (s *SourceTexture) Fill(r, g, b, a uint8) {
	pix := s.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = r
		pix[i+1] = g
		pix[i+2] = b
		pix[i+3] = a
	}
}

// texel returns the raw RGBA bytes at (x, y), clamped to the edge.
func (s *SourceTexture) texel(x, y int) (r, g, b, a uint8) {
	w, h := s.Width(), s.Height()
	if x < 0 {
		x = 0
	} else if x >= w {
		x = w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	i := s.img.PixOffset(x, y)
	return s.img.Pix[i], s.img.Pix[i+1], s.img.Pix[i+2], s.img.Pix[i+3]
}

// Sample fetches the nearest texel at normalized (u, v) with
// clamp-to-edge addressing and returns straight-alpha RGBA in [0, 1].
// Nearest filtering keeps the passthrough path byte-exact.
func (s *SourceTexture) Sample(u, v float32) [4]float32 {
	x := int(u * float32(s.Width()))
	y := int(v * float32(s.Height()))
	r, g, b, a := s.texel(x, y)
	return [4]float32{
		float32(r) / 255,
		float32(g) / 255,
		float32(b) / 255,
		float32(a) / 255,
	}
}
