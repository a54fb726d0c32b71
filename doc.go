// Package overlayfx composites an externally rendered UI texture over a
// host application's render target, applying widget-scoped post effects.
//
// The package provides the shared data model of the compositor: effect
// kinds and their parameter sets, the GPU parameter-block binary layout,
// the bounds gate that scopes an effect to a normalized rectangle, and
// the frame compositor that dispatches effect instances in caller order.
//
// Three effects are built in:
//
//   - Hologram: vertical sync roll, chromatic aberration, scanlines and
//     noise flicker over the sampled UI texture.
//   - WarpField: a four-layer parallax starfield with motion blur,
//     depth-of-field and threshold bloom, composited additively.
//   - ElectricArc: 3D-noise-driven arc and glow bands on host-supplied
//     3D triangle geometry.
//
// Rendering backends live in subpackages: render implements a
// pixel-exact software pipeline, gpu implements the WebGPU pipeline via
// gogpu/wgpu. Both consume the same parameter blocks, so the binary
// layout defined here is the single source of truth for what the shader
// programs expect.
//
// The compositor borrows the UI texture read-only and never touches the
// host's swap chain state: it draws into the composite target it is
// given and leaves presentation to the host.
package overlayfx
