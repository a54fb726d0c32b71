// Package render provides the CPU reference implementation of the
// overlayfx effect pipeline: a software renderer that composites the
// effect stack over a borrowed source texture into a CPU-backed target.
//
// It is the behavioral reference for the GPU backend in package gpu.
// Both implement overlayfx.FrameRenderer and evaluate the same shading
// math; the software path exists for hosts without a device, for
// headless composition, and for testing the effect algorithms pixel by
// pixel.
package render
