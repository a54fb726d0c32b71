package render

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/overlayfx"
	"github.com/gogpu/overlayfx/internal/fxmath"
)

// starfieldLayers is the number of parallax depth layers.
const starfieldLayers = 4

// shadeHologram evaluates the hologram program at normalized (u, v).
// Stage order matters: roll feeds the aberration samples, scanlines
// subtract before the flicker adds, and only then does RGB clamp.
// Alpha is sampled at the unrolled UV and passes through unclamped.
func shadeHologram(src *SourceTexture, u, v, time float32, p overlayfx.HologramParams) [4]float32 {
	roll := math32.Sin((v+time*p.GlitchSpeed*0.01)*10) * 0.01
	ru := u + roll

	r := src.Sample(ru-p.AberrationAmount, v)[0]
	g := src.Sample(ru, v)[1]
	b := src.Sample(ru+p.AberrationAmount, v)[2]
	a := src.Sample(u, v)[3]

	scan := math32.Sin(v*1000) * p.ScanlineIntensity
	flicker := (fxmath.Hash12(u+time, v+time) - 0.5) * p.GlitchSpeed * 0.002

	return [4]float32{
		fxmath.Saturate(r - scan + flicker),
		fxmath.Saturate(g - scan + flicker),
		fxmath.Saturate(b - scan + flicker),
		a,
	}
}

// warpAlpha is the additive-over-alpha coverage composite: the output
// alpha tracks how much starfield covers the pixel, independent of the
// color channels. Monotone nondecreasing in total for fixed baseAlpha.
func warpAlpha(srcA, total, baseAlpha float32) float32 {
	return fxmath.Saturate(srcA + (1-srcA)*fxmath.Saturate(total*baseAlpha))
}

// starfieldAt accumulates brightness and color of the four parallax
// layers at centered, aspect-corrected coordinate (px, py). Returned
// color is unclamped; total is the summed layer brightness after bloom.
func starfieldAt(px, py, time float32, p overlayfx.WarpFieldParams) (cr, cg, cb, total float32) {
	if p.StarBaseSize <= 0 {
		return 0, 0, 0, 0
	}

	for i := 0; i < starfieldLayers; i++ {
		depth := float32(i) / float32(starfieldLayers-1)
		scale := 1 + depth*1.5
		layerT := (time + depth*37.0) * p.Speed

		// Tile into a grid; stars scroll along +Y per layer.
		gx := px * p.Density * scale
		gy := py*p.Density*scale + layerT

		cellX, cellY := math32.Floor(gx), math32.Floor(gy)
		fx, fy := gx-cellX, gy-cellY

		starX, starY := fxmath.Hash22(cellX, cellY)
		dx, dy := fx-starX, fy-starY
		dist := math32.Sqrt(dx*dx + dy*dy)

		core := fxmath.Saturate(1 - dist/p.StarBaseSize)
		rnd := fxmath.Hash12(cellX+91.7, cellY+33.3)
		pulse := 0.5 + 0.5*math32.Sin(time*p.PulseSpeed+rnd*6.28318)
		raw := core * (0.5 + 0.5*rnd) * pulse
		bright := math32.Pow(raw, p.GlowFalloff)

		// Directional motion blur: re-measure against the center
		// shifted along the scroll direction.
		sdx, sdy := dx, dy-p.MotionBlurStrength*raw
		blurDist := math32.Sqrt(sdx*sdx + sdy*sdy)
		blurMask := fxmath.Smoothstep(2*p.StarBaseSize, 0.5*p.StarBaseSize, blurDist)

		dof := fxmath.Saturate(1 - math32.Abs(depth-0.5)*p.DepthBlurStrength)

		layerB := bright * blurMask * dof

		radial := fxmath.Saturate(dist / (4 * p.StarBaseSize))
		r := fxmath.Mix(p.ColorInner.R, p.ColorOuter.R, radial)
		g := fxmath.Mix(p.ColorInner.G, p.ColorOuter.G, radial)
		b := fxmath.Mix(p.ColorInner.B, p.ColorOuter.B, radial)
		r = fxmath.Mix(r, p.ColorPulse.R, pulse*0.35)
		g = fxmath.Mix(g, p.ColorPulse.G, pulse*0.35)
		b = fxmath.Mix(b, p.ColorPulse.B, pulse*0.35)

		cr += r * layerB
		cg += g * layerB
		cb += b * layerB
		total += layerB
	}

	// Background glow proportional to accumulated brightness.
	cr += p.ColorInner.R * total * 0.05
	cg += p.ColorInner.G * total * 0.05
	cb += p.ColorInner.B * total * 0.05

	// Threshold bloom: the excess above the threshold is boosted and
	// re-added to both color and coverage.
	if excess := total - p.BloomThreshold; excess > 0 {
		boost := excess * p.BloomIntensity
		cr += cr * boost
		cg += cg * boost
		cb += cb * boost
		total += boost
	}
	return cr, cg, cb, total
}

// cameraShake is the deterministic high-frequency viewpoint jitter
// applied before star placement. Fixed frequencies, fixed amplitude.
func cameraShake(time float32) (sx, sy float32) {
	return math32.Sin(time*13) * 0.001, math32.Cos(time*17) * 0.001
}

// shadeWarpField evaluates the starfield program at normalized (u, v)
// over the sampled source pixel.
func shadeWarpField(src *SourceTexture, u, v, time float32, res [2]float32, p overlayfx.WarpFieldParams) [4]float32 {
	aspect := float32(1)
	if res[1] != 0 {
		aspect = res[0] / res[1]
	}

	// Center and aspect-correct.
	px := (u*2 - 1) * aspect
	py := v*2 - 1
	sx, sy := cameraShake(time)
	px += sx
	py += sy

	cr, cg, cb, total := starfieldAt(px, py, time, p)

	s := src.Sample(u, v)
	return [4]float32{
		fxmath.Saturate(s[0] + cr),
		fxmath.Saturate(s[1] + cg),
		fxmath.Saturate(s[2] + cb),
		warpAlpha(s[3], total, p.BaseAlpha),
	}
}

// arcMasks derives the thin arc band and the broader glow mask from
// the noise field at a world position. Pure function of its inputs.
func arcMasks(wx, wy, wz, time float32) (arc, glow float32) {
	n := fxmath.Noise3(wx*0.02, wy*0.02, wz*0.02+time*0.5)*0.5 + 0.5
	arc = fxmath.Smoothstep(0.45, 0.5, n) * fxmath.Smoothstep(0.55, 0.5, n)
	glow = fxmath.Smoothstep(0.3, 0.7, n)
	return arc, glow
}

// shadeElectricArc adds the noise-driven arc and glow bands to the
// interpolated vertex color. Color-only modulation; alpha is untouched.
func shadeElectricArc(wx, wy, wz float32, base [4]float32, time float32) [4]float32 {
	arc, glow := arcMasks(wx, wy, wz, time)
	gain := arc*2.0 + glow*0.2
	return [4]float32{
		fxmath.Saturate(base[0] + base[0]*gain),
		fxmath.Saturate(base[1] + base[1]*gain),
		fxmath.Saturate(base[2] + base[2]*gain),
		base[3],
	}
}
