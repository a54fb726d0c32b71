package overlayfx

import "fmt"

// EffectKind identifies one of the built-in post effects. The kind
// selects both the parameter-block layout and the shader program pair
// used for a draw.
type EffectKind int

const (
	// EffectPassthrough samples the source texture unchanged. It is the
	// fallback program and the implicit output outside a bounds gate.
	EffectPassthrough EffectKind = iota

	// EffectHologram applies sync roll, chromatic aberration, scanlines
	// and noise flicker to the sampled source texture.
	EffectHologram

	// EffectWarpField renders a four-layer parallax starfield over the
	// source texture with an additive-over-alpha composite.
	EffectWarpField

	// EffectElectricArc decorates host-supplied 3D geometry with
	// noise-driven arc and glow bands. Unlike the other kinds it draws
	// a primitive batch, not a fullscreen quad.
	EffectElectricArc
)

// String returns the effect kind name.
func (k EffectKind) String() string {
	switch k {
	case EffectPassthrough:
		return "Passthrough"
	case EffectHologram:
		return "Hologram"
	case EffectWarpField:
		return "WarpField"
	case EffectElectricArc:
		return "ElectricArc"
	default:
		return fmt.Sprintf("EffectKind(%d)", int(k))
	}
}

// BlendMode selects how an effect's output is combined with the
// composite target. The source shaders use both policies (WarpField
// accumulates additively, Hologram replaces), so the mode is explicit
// per instance instead of being inferred from the kind.
type BlendMode int

const (
	// BlendSourceOver is standard alpha blending (src over dst).
	BlendSourceOver BlendMode = iota

	// BlendReplace writes the effect output, discarding the target.
	BlendReplace

	// BlendAdditive adds the effect output to the target, clamped.
	BlendAdditive
)

// String returns the blend mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendSourceOver:
		return "SourceOver"
	case BlendReplace:
		return "Replace"
	case BlendAdditive:
		return "Additive"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
}

// EffectParams is the tagged-variant interface over per-effect
// parameter sets. Each effect kind has its own concrete type with its
// own GPU layout; parameters are never shared between kinds by address.
type EffectParams interface {
	// Kind reports which effect these parameters configure.
	Kind() EffectKind
}

// PassthroughParams configures the passthrough program. It has no
// tunables; the program samples the source texture unchanged.
type PassthroughParams struct{}

// Kind returns EffectPassthrough.
func (PassthroughParams) Kind() EffectKind { return EffectPassthrough }

// HologramParams configures the hologram distortion effect.
type HologramParams struct {
	// AberrationAmount is the horizontal RGB channel separation in UV
	// units.
	AberrationAmount float32 `yaml:"aberration_amount"`

	// GlitchSpeed scales both the sync-roll speed and the noise
	// flicker amplitude.
	GlitchSpeed float32 `yaml:"glitch_speed"`

	// ScanlineIntensity is the amplitude subtracted by the scanline
	// pattern.
	ScanlineIntensity float32 `yaml:"scanline_intensity"`
}

// Kind returns EffectHologram.
func (HologramParams) Kind() EffectKind { return EffectHologram }

// DefaultHologramParams returns the stock hologram look.
func DefaultHologramParams() HologramParams {
	return HologramParams{
		AberrationAmount:  0.005,
		GlitchSpeed:       10.0,
		ScanlineIntensity: 0.1,
	}
}

// RGB is a linear color triple used by the WarpField palette.
type RGB struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
}

// WarpFieldParams configures the parallax starfield effect.
type WarpFieldParams struct {
	// Speed scales the per-layer scroll rate.
	Speed float32 `yaml:"speed"`

	// Density is the star grid frequency; 0 collapses each layer to a
	// single cell.
	Density float32 `yaml:"density"`

	// StarBaseSize is the star core radius in layer UV units.
	StarBaseSize float32 `yaml:"star_base_size"`

	// GlowFalloff is the exponent applied to core brightness.
	GlowFalloff float32 `yaml:"glow_falloff"`

	// PulseSpeed drives the per-cell brightness pulsing.
	PulseSpeed float32 `yaml:"pulse_speed"`

	// MotionBlurStrength shifts the star center along the scroll
	// direction when re-measuring distance for the blur alpha.
	MotionBlurStrength float32 `yaml:"motion_blur_strength"`

	// DepthBlurStrength attenuates layers away from mid depth.
	DepthBlurStrength float32 `yaml:"depth_blur_strength"`

	// BaseAlpha scales accumulated brightness into output coverage.
	BaseAlpha float32 `yaml:"base_alpha"`

	// ColorInner, ColorOuter and ColorPulse form the radial palette:
	// inner near the star core, outer at the rim, pulse mixed in by
	// the pulsing term.
	ColorInner RGB `yaml:"color_inner"`
	ColorOuter RGB `yaml:"color_outer"`
	ColorPulse RGB `yaml:"color_pulse"`

	// BloomThreshold and BloomIntensity control the threshold bloom:
	// accumulated amounts above the threshold are boosted by the
	// intensity and re-added.
	BloomThreshold float32 `yaml:"bloom_threshold"`
	BloomIntensity float32 `yaml:"bloom_intensity"`
}

// Kind returns EffectWarpField.
func (WarpFieldParams) Kind() EffectKind { return EffectWarpField }

// DefaultWarpFieldParams returns the stock starfield look.
func DefaultWarpFieldParams() WarpFieldParams {
	return WarpFieldParams{
		Speed:              1.0,
		Density:            2.0,
		StarBaseSize:       0.003,
		GlowFalloff:        5.0,
		PulseSpeed:         1.8,
		MotionBlurStrength: 0.05,
		DepthBlurStrength:  0.0005,
		BaseAlpha:          0.7,
		ColorInner:         RGB{0.1, 0.2, 0.6},
		ColorOuter:         RGB{0.9, 0.1, 0.8},
		ColorPulse:         RGB{1.0, 0.7, 0.0},
		BloomThreshold:     0.5,
		BloomIntensity:     0.8,
	}
}

// ElectricArcParams configures the 3D arc effect. The arc algorithm is
// fully determined by the vertex color, world position and time; there
// are no per-instance tunables yet.
type ElectricArcParams struct{}

// Kind returns EffectElectricArc.
func (ElectricArcParams) Kind() EffectKind { return EffectElectricArc }

// EffectInstance is one configured, active application of an effect:
// its parameters, optional widget bounds, and blend mode. Instances are
// composited in the order the caller supplies them; the compositor
// never reorders or culls.
type EffectInstance struct {
	// Params selects the effect kind and its configuration.
	Params EffectParams

	// Target scopes the effect to the whole surface or a widget rect.
	Target EffectTarget

	// Blend is how this instance combines with the composite target.
	Blend BlendMode
}

// Kind reports the effect kind of the instance. A nil Params is
// treated as passthrough.
func (e *EffectInstance) Kind() EffectKind {
	if e.Params == nil {
		return EffectPassthrough
	}
	return e.Params.Kind()
}

// EffectTarget scopes an effect instance to the whole surface or to a
// normalized widget rectangle. The zero value targets the whole
// surface.
type EffectTarget struct {
	widget bool
	bounds Bounds
}

// Fullscreen returns a target covering the whole surface.
func Fullscreen() EffectTarget { return EffectTarget{} }

// Widget returns a target scoped to the given normalized bounds.
// Bounds are not validated here; degenerate rectangles degrade to an
// always-outside gate rather than an error (validation belongs to the
// caller supplying widget geometry).
func Widget(b Bounds) EffectTarget { return EffectTarget{widget: true, bounds: b} }

// Gate returns the bounds gate for this target.
func (t EffectTarget) Gate() PortalGate {
	if !t.widget {
		return PortalGate{}
	}
	return PortalGate{Active: 1, Bounds: t.bounds}
}

// IsWidget reports whether the target is scoped to a widget rectangle.
func (t EffectTarget) IsWidget() bool { return t.widget }

// Bounds returns the widget rectangle. Only meaningful when IsWidget
// is true.
func (t EffectTarget) Bounds() Bounds { return t.bounds }
