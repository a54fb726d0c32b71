// Package gpu is the wgpu backend of the overlayfx effect pipeline.
//
// It implements overlayfx.FrameRenderer on a hal.Device: per frame it
// uploads each instance's parameter block, binds the effect's shader
// pair plus the source texture and sampler, and draws a fullscreen
// quad (2D effects) or the queued primitive batch (ElectricArc) into
// the composite texture.
//
// Shader programs are compiled from WGSL to SPIR-V once at
// initialization; no shader compilation happens on the frame path.
package gpu
