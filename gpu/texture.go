package gpu

import (
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// texture bundles a hal texture with its view and size.
type texture struct {
	tex  hal.Texture
	view hal.TextureView
	w, h uint32
}

func createTexture(device hal.Device, label string, w, h uint32, usage gputypes.TextureUsage) (*texture, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         usage,
	})
	if err != nil {
		return nil, classifyResourceErr("create texture "+label, err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, classifyResourceErr("create texture view "+label, err)
	}
	return &texture{tex: tex, view: view, w: w, h: h}, nil
}

func (t *texture) destroy(device hal.Device) {
	if t == nil {
		return
	}
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// UploadSource copies the UI texture pixels to the GPU. The texture is
// recreated when the size changes; otherwise the existing allocation is
// rewritten in place. The image must be 8-bit RGBA.
func (r *Renderer) UploadSource(img *image.RGBA) error {
	w := uint32(img.Bounds().Dx()) //nolint:gosec // image dimensions fit uint32
	h := uint32(img.Bounds().Dy()) //nolint:gosec // image dimensions fit uint32

	if r.source != nil && (r.source.w != w || r.source.h != h) {
		r.source.destroy(r.device)
		r.source = nil
	}
	if r.source == nil {
		tex, err := createTexture(r.device, "overlayfx_source", w, h,
			gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
		if err != nil {
			return err
		}
		r.source = tex
	}

	r.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: r.source.tex, MipLevel: 0},
		img.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(img.Stride), //nolint:gosec // stride fits uint32
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return nil
}
