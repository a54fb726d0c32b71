package overlayfx

// Bounds is a normalized rectangle in [0,1]×[0,1] texture space,
// ordered left, top, right, bottom. Well-formed bounds have
// left <= right and top <= bottom, but the gate does not check this:
// inverted rectangles simply reject every coordinate.
type Bounds struct {
	Left   float32 `yaml:"left"`
	Top    float32 `yaml:"top"`
	Right  float32 `yaml:"right"`
	Bottom float32 `yaml:"bottom"`
}

// PortalGate is the per-pixel passthrough-vs-apply decision. When
// Active is 0 the effect body runs for every pixel. When Active is 1,
// coordinates outside Bounds must resolve to the unmodified source
// sample before any effect-specific work happens, so no effect state
// can leak outside the gated region.
//
// Active is a strict 0/1 flag because it is uploaded verbatim into the
// parameter block the shaders read.
type PortalGate struct {
	Active uint32
	Bounds Bounds
}

// Inside reports whether the effect body applies at the normalized
// coordinate (u, v). Malformed bounds are not an error: they degrade to
// an always-inside gate (inactive) or an always-outside gate (inverted
// rectangle), never a crash.
func (g PortalGate) Inside(u, v float32) bool {
	if g.Active == 0 {
		return true
	}
	return u >= g.Bounds.Left && u <= g.Bounds.Right &&
		v >= g.Bounds.Top && v <= g.Bounds.Bottom
}
