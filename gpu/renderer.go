package gpu

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/overlayfx"
)

// ErrNoSource is returned when a frame is rendered before any source
// texture has been uploaded.
var ErrNoSource = errors.New("gpu: no source texture uploaded")

// gpuTimeout bounds the fence wait after frame submission.
const gpuTimeout = 5 * time.Second

// Renderer is the wgpu implementation of overlayfx.FrameRenderer.
//
// All methods must run on the goroutine owning the device context;
// per-frame work is synchronous submission with a fence wait, matching
// the immediate-mode discipline of the underlying API.
//
// After a device-lost error no further draws succeed until Recreate is
// called with a fresh device: only the compiled shader set and the
// caller's parameters survive the loss.
type Renderer struct {
	device  hal.Device
	queue   hal.Queue
	shaders *ShaderSet

	passthrough *effectPipeline
	hologram    *effectPipeline
	warpfield   *effectPipeline
	arc         *effectPipeline
	sampler     hal.Sampler

	source    *texture
	composite *texture
	lost      bool
}

// NewRenderer compiles the shader set and builds every effect pipeline
// on the given device. Shader failures are fatal and name the program.
func NewRenderer(device hal.Device, queue hal.Queue) (*Renderer, error) {
	shaders, err := CompileShaders()
	if err != nil {
		return nil, err
	}
	r := &Renderer{device: device, queue: queue, shaders: shaders}
	if err := r.createPipelines(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) createPipelines() error {
	var err error
	if r.passthrough, err = createQuadPipeline(r.device, "overlayfx_passthrough", r.shaders.Passthrough); err != nil {
		return err
	}
	if r.hologram, err = createQuadPipeline(r.device, "overlayfx_hologram", r.shaders.Hologram); err != nil {
		return err
	}
	if r.warpfield, err = createQuadPipeline(r.device, "overlayfx_warpfield", r.shaders.WarpField); err != nil {
		return err
	}
	if r.arc, err = createArcPipeline(r.device, r.shaders.ElectricArc); err != nil {
		return err
	}

	sampler, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "overlayfx_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
	})
	if err != nil {
		return classifyResourceErr("create sampler", err)
	}
	r.sampler = sampler

	overlayfx.Logger().Info("effect pipelines created", "pipelines", 4*blendModeCount)
	return nil
}

// Recreate rebuilds all GPU resources on a fresh device after a
// device-lost event. The compiled shader set is reused; stale handles
// from the old device are abandoned, never touched.
func (r *Renderer) Recreate(device hal.Device, queue hal.Queue) error {
	// Old handles are invalid after device loss; drop them without
	// destroy calls against the dead device.
	r.passthrough, r.hologram, r.warpfield, r.arc = nil, nil, nil, nil
	r.sampler = nil
	r.source = nil
	r.composite = nil

	r.device = device
	r.queue = queue
	r.lost = false
	return r.createPipelines()
}

// Destroy releases all GPU resources. Safe to call twice.
func (r *Renderer) Destroy() {
	if r.device == nil {
		return
	}
	r.composite.destroy(r.device)
	r.composite = nil
	r.source.destroy(r.device)
	r.source = nil
	if r.sampler != nil {
		r.device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	r.arc.destroy(r.device)
	r.arc = nil
	r.warpfield.destroy(r.device)
	r.warpfield = nil
	r.hologram.destroy(r.device)
	r.hologram = nil
	r.passthrough.destroy(r.device)
	r.passthrough = nil
}

func (r *Renderer) quadPipeline(kind overlayfx.EffectKind) *effectPipeline {
	switch kind {
	case overlayfx.EffectHologram:
		return r.hologram
	case overlayfx.EffectWarpField:
		return r.warpfield
	default:
		return r.passthrough
	}
}

func quadBlockFor(prefix overlayfx.QuadPrefix, params overlayfx.EffectParams) []byte {
	switch p := params.(type) {
	case overlayfx.HologramParams:
		return overlayfx.PackHologramBlock(prefix, p)
	case overlayfx.WarpFieldParams:
		return overlayfx.PackWarpFieldBlock(prefix, p)
	default:
		return overlayfx.PackPassthroughBlock(prefix)
	}
}

// ensureComposite sizes the composite texture to the frame.
func (r *Renderer) ensureComposite(w, h uint32) error {
	if r.composite != nil && r.composite.w == w && r.composite.h == h {
		return nil
	}
	r.composite.destroy(r.device)
	r.composite = nil
	tex, err := createTexture(r.device, "overlayfx_composite", w, h,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		return err
	}
	r.composite = tex
	return nil
}

// frameDraw is one prepared draw: its pipeline, bind group, and either
// a quad or a vertex batch. Buffers live until the frame is submitted.
type frameDraw struct {
	pipeline  hal.RenderPipeline
	bindGroup hal.BindGroup
	vertBuf   hal.Buffer
	vertCount uint32
}

// RenderFrame uploads every instance's parameter block, encodes one
// render pass drawing them in caller order, submits, and waits.
//
// A failed per-instance resource allocation skips that draw and is
// reported after the frame; a device-lost error aborts the frame and
// poisons the renderer until Recreate.
func (r *Renderer) RenderFrame(info overlayfx.FrameInfo, instances []overlayfx.EffectInstance, primitives []overlayfx.Vertex3D) error {
	if r.lost {
		return fmt.Errorf("%w: renderer not recreated", overlayfx.ErrDeviceLost)
	}
	if r.source == nil {
		return ErrNoSource
	}
	w := uint32(info.Width)  //nolint:gosec // viewport fits uint32
	h := uint32(info.Height) //nolint:gosec // viewport fits uint32
	if err := r.ensureComposite(w, h); err != nil {
		return r.noteLost(err)
	}

	var buffers []hal.Buffer
	var bindGroups []hal.BindGroup
	defer func() {
		for _, bg := range bindGroups {
			r.device.DestroyBindGroup(bg)
		}
		for _, b := range buffers {
			r.device.DestroyBuffer(b)
		}
	}()

	var draws []frameDraw
	var skipped []error
	for i := range instances {
		inst := &instances[i]
		draw, err := r.prepareDraw(info, inst, primitives, &buffers, &bindGroups)
		if err != nil {
			if errors.Is(err, overlayfx.ErrDeviceLost) {
				return r.noteLost(err)
			}
			overlayfx.Logger().Warn("draw skipped", "effect", inst.Kind(), "error", err)
			skipped = append(skipped, err)
			continue
		}
		if draw.pipeline != nil {
			draws = append(draws, draw)
		}
	}

	if err := r.encodeAndSubmit(draws); err != nil {
		return r.noteLost(err)
	}
	return errors.Join(skipped...)
}

// quadBindEntries builds the bind group entries for a 2D effect draw.
// The texture view and sampler bind by their raw native handles; the
// binding resource fields are plain uintptr.
func quadBindEntries(uniform uintptr, blockSize uint64, view, sampler uintptr) []gputypes.BindGroupEntry {
	return []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: uniform, Offset: 0, Size: blockSize,
		}},
		{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: view}},
		{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: sampler}},
	}
}

// prepareDraw builds the per-instance GPU resources.
func (r *Renderer) prepareDraw(info overlayfx.FrameInfo, inst *overlayfx.EffectInstance, primitives []overlayfx.Vertex3D, buffers *[]hal.Buffer, bindGroups *[]hal.BindGroup) (frameDraw, error) {
	if inst.Kind() == overlayfx.EffectElectricArc {
		return r.prepareArcDraw(info, inst, primitives, buffers, bindGroups)
	}

	block := quadBlockFor(info.Prefix(inst.Target.Gate()), inst.Params)
	uniformBuf, err := r.createAndUploadBuffer("overlayfx_quad_params", block,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return frameDraw{}, err
	}
	*buffers = append(*buffers, uniformBuf)

	pipe := r.quadPipeline(inst.Kind())
	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "overlayfx_quad_bind",
		Layout: pipe.bindLayout,
		Entries: quadBindEntries(uniformBuf.NativeHandle(), uint64(len(block)),
			r.source.view.NativeHandle(), r.sampler.NativeHandle()),
	})
	if err != nil {
		return frameDraw{}, classifyResourceErr("create bind group", err)
	}
	*bindGroups = append(*bindGroups, bindGroup)

	return frameDraw{
		pipeline:  pipe.forBlend(inst.Blend),
		bindGroup: bindGroup,
		vertCount: 4,
	}, nil
}

// prepareArcDraw builds the 3D primitive draw. An empty queue yields a
// no-op draw rather than an error.
func (r *Renderer) prepareArcDraw(info overlayfx.FrameInfo, inst *overlayfx.EffectInstance, primitives []overlayfx.Vertex3D, buffers *[]hal.Buffer, bindGroups *[]hal.BindGroup) (frameDraw, error) {
	if len(primitives) < 3 {
		return frameDraw{}, nil
	}

	transformBuf, err := r.createAndUploadBuffer("overlayfx_arc_transform",
		overlayfx.PackArcTransform(info.ViewProjection),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return frameDraw{}, err
	}
	*buffers = append(*buffers, transformBuf)

	timeBuf, err := r.createAndUploadBuffer("overlayfx_arc_time",
		overlayfx.PackArcTime(info.Time),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return frameDraw{}, err
	}
	*buffers = append(*buffers, timeBuf)

	gateBuf, err := r.createAndUploadBuffer("overlayfx_arc_gate",
		overlayfx.PackArcGateBlock(inst.Target.Gate(), info.Resolution()),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return frameDraw{}, err
	}
	*buffers = append(*buffers, gateBuf)

	vertBuf, err := r.createAndUploadBuffer("overlayfx_arc_verts",
		overlayfx.PackVertices3D(primitives),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return frameDraw{}, err
	}
	*buffers = append(*buffers, vertBuf)

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "overlayfx_arc_bind",
		Layout: r.arc.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: transformBuf.NativeHandle(), Offset: 0, Size: overlayfx.ArcTransformBlockSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: timeBuf.NativeHandle(), Offset: 0, Size: overlayfx.ArcTimeBlockSize,
			}},
			{Binding: 2, Resource: gputypes.BufferBinding{
				Buffer: gateBuf.NativeHandle(), Offset: 0, Size: overlayfx.ArcGateBlockSize,
			}},
		},
	})
	if err != nil {
		return frameDraw{}, classifyResourceErr("create bind group", err)
	}
	*bindGroups = append(*bindGroups, bindGroup)

	return frameDraw{
		pipeline:  r.arc.forBlend(inst.Blend),
		bindGroup: bindGroup,
		vertBuf:   vertBuf,
		vertCount: uint32(len(primitives)), //nolint:gosec // capped at MaxPrimitiveVertices
	}, nil
}

// encodeAndSubmit records one render pass over the composite texture
// and blocks until the GPU finishes it.
func (r *Renderer) encodeAndSubmit(draws []frameDraw) error {
	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "overlayfx_frame",
	})
	if err != nil {
		return classifyResourceErr("create command encoder", err)
	}
	if err := encoder.BeginEncoding("overlayfx_frame"); err != nil {
		return classifyResourceErr("begin encoding", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "overlayfx_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       r.composite.view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	for _, d := range draws {
		rp.SetPipeline(d.pipeline)
		rp.SetBindGroup(0, d.bindGroup, nil)
		if d.vertBuf != nil {
			rp.SetVertexBuffer(0, d.vertBuf, 0)
		}
		rp.Draw(d.vertCount, 1, 0, 0)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return classifyResourceErr("end encoding", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return classifyResourceErr("create fence", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return classifyResourceErr("submit", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return classifyResourceErr("wait for GPU", fmt.Errorf("ok=%v err=%v", fenceOK, err))
	}
	return nil
}

// ReadComposite copies the composite texture back to the CPU. Intended
// for offscreen hosts and tests; presenting hosts consume the texture
// view directly via CompositeView.
func (r *Renderer) ReadComposite() (*image.RGBA, error) {
	if r.composite == nil {
		return nil, errors.New("gpu: no composited frame")
	}
	w, h := r.composite.w, r.composite.h

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "overlayfx_readback",
	})
	if err != nil {
		return nil, classifyResourceErr("create command encoder", err)
	}
	if err := encoder.BeginEncoding("overlayfx_readback"); err != nil {
		return nil, classifyResourceErr("begin encoding", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.composite.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	size := uint64(w) * uint64(h) * 4
	staging, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "overlayfx_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, classifyResourceErr("create staging buffer", err)
	}
	defer r.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(r.composite.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.composite.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, classifyResourceErr("end encoding", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return nil, classifyResourceErr("create fence", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, classifyResourceErr("submit", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return nil, classifyResourceErr("wait for GPU", fmt.Errorf("ok=%v err=%v", fenceOK, err))
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	if err := r.queue.ReadBuffer(staging, 0, img.Pix); err != nil {
		return nil, classifyResourceErr("readback", err)
	}
	return img, nil
}

// CompositeView returns the texture view of the last composited frame,
// or nil before the first frame. Hosts blend it into their own pass.
func (r *Renderer) CompositeView() hal.TextureView {
	if r.composite == nil {
		return nil
	}
	return r.composite.view
}

// noteLost marks the renderer poisoned when err is a device loss.
func (r *Renderer) noteLost(err error) error {
	if errors.Is(err, overlayfx.ErrDeviceLost) {
		r.lost = true
	}
	return err
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (r *Renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, classifyResourceErr("create "+label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
