package overlayfx

import "errors"

// Error classification for the compositor. Backends wrap these
// sentinels so callers can distinguish fatal initialization failures
// from per-frame conditions with errors.Is.
var (
	// ErrShaderMissing is a fatal initialization error: a shader
	// program could not be loaded or compiled. The affected effect
	// kind is unusable; the error message names the missing program.
	ErrShaderMissing = errors.New("overlayfx: shader program missing or invalid")

	// ErrResourceAllocation is a recoverable per-frame error: a GPU
	// buffer or texture could not be created. The affected draw is
	// skipped; prior frames are unaffected.
	ErrResourceAllocation = errors.New("overlayfx: resource allocation failed")

	// ErrDeviceLost means the graphics device was lost. All GPU
	// resources must be recreated before further draws; stale handles
	// are never reused. Only shader bytecode and numeric parameters
	// survive, as plain data.
	ErrDeviceLost = errors.New("overlayfx: device lost")
)
