// Package fxmath provides the deterministic float32 shading primitives
// shared by the software effect pipeline and its tests: saturate,
// smoothstep, sine-based texture hashes, and 3D gradient noise.
//
// Every function here is a pure function of its inputs. The hashes and
// noise intentionally reproduce the classic shader formulations so that
// the CPU pipeline and the WGSL programs agree on the same fields.
package fxmath

import (
	"github.com/chewxy/math32"
)

// Fract returns the fractional part of x (x - floor(x)).
func Fract(x float32) float32 {
	return x - math32.Floor(x)
}

// Saturate clamps x to the [0, 1] range.
func Saturate(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Clamp clamps x to the [lo, hi] range.
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Mix linearly interpolates between a and b by t.
func Mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Step returns 0 if x < edge, 1 otherwise.
func Step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

// Smoothstep performs Hermite interpolation between edge0 and edge1.
// Inputs outside the edge range clamp to 0 or 1. Edges may be given in
// descending order, which inverts the ramp (GLSL semantics).
func Smoothstep(edge0, edge1, x float32) float32 {
	t := Saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Hash12 maps a 2D coordinate to a pseudo-random scalar in [0, 1).
// This is the standard sine texture-noise hash used by the effect
// shaders; it is deterministic and has no state.
func Hash12(x, y float32) float32 {
	return Fract(math32.Sin(x*12.9898+y*78.233) * 43758.5453)
}

// Hash22 maps a 2D coordinate to a pseudo-random 2D point in [0, 1)².
// Used for star placement inside grid cells.
func Hash22(x, y float32) (float32, float32) {
	u := Fract(math32.Sin(x*127.1+y*311.7) * 43758.5453)
	v := Fract(math32.Sin(x*269.5+y*183.3) * 43758.5453)
	return u, v
}

// hash13 collapses a 3D lattice point to a pseudo-random scalar.
func hash13(x, y, z float32) float32 {
	return Fract(math32.Sin(x*12.9898+y*78.233+z*37.719) * 43758.5453)
}

// Noise3 evaluates smooth 3D gradient-style noise at (x, y, z) and
// returns a value in roughly [-1, 1]. It is the simplex-style field the
// electric arc effect carves its masks from: value noise over the unit
// lattice with Hermite-faded trilinear blending, recentered to zero.
func Noise3(x, y, z float32) float32 {
	ix, iy, iz := math32.Floor(x), math32.Floor(y), math32.Floor(z)
	fx, fy, fz := x-ix, y-iy, z-iz

	// Hermite fade per axis.
	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)
	uz := fz * fz * (3 - 2*fz)

	c000 := hash13(ix, iy, iz)
	c100 := hash13(ix+1, iy, iz)
	c010 := hash13(ix, iy+1, iz)
	c110 := hash13(ix+1, iy+1, iz)
	c001 := hash13(ix, iy, iz+1)
	c101 := hash13(ix+1, iy, iz+1)
	c011 := hash13(ix, iy+1, iz+1)
	c111 := hash13(ix+1, iy+1, iz+1)

	x00 := Mix(c000, c100, ux)
	x10 := Mix(c010, c110, ux)
	x01 := Mix(c001, c101, ux)
	x11 := Mix(c011, c111, ux)

	y0 := Mix(x00, x10, uy)
	y1 := Mix(x01, x11, uy)

	return Mix(y0, y1, uz)*2 - 1
}
