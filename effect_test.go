package overlayfx

import "testing"

func TestEffectKindString(t *testing.T) {
	tests := []struct {
		kind EffectKind
		want string
	}{
		{EffectPassthrough, "Passthrough"},
		{EffectHologram, "Hologram"},
		{EffectWarpField, "WarpField"},
		{EffectElectricArc, "ElectricArc"},
		{EffectKind(99), "EffectKind(99)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParamsKindTagging(t *testing.T) {
	tests := []struct {
		params EffectParams
		want   EffectKind
	}{
		{PassthroughParams{}, EffectPassthrough},
		{HologramParams{}, EffectHologram},
		{WarpFieldParams{}, EffectWarpField},
		{ElectricArcParams{}, EffectElectricArc},
	}
	for _, tt := range tests {
		if got := tt.params.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %v, want %v", tt.params, got, tt.want)
		}
	}
}

func TestInstanceKindNilParams(t *testing.T) {
	inst := &EffectInstance{}
	if got := inst.Kind(); got != EffectPassthrough {
		t.Errorf("nil params Kind() = %v, want Passthrough", got)
	}
}

func TestDefaultParams(t *testing.T) {
	h := DefaultHologramParams()
	if h.AberrationAmount != 0.005 || h.GlitchSpeed != 10 || h.ScanlineIntensity != 0.1 {
		t.Errorf("unexpected hologram defaults: %+v", h)
	}

	w := DefaultWarpFieldParams()
	if w.Density != 2.0 || w.StarBaseSize != 0.003 || w.BaseAlpha != 0.7 {
		t.Errorf("unexpected warpfield defaults: %+v", w)
	}
	if w.ColorPulse != (RGB{1.0, 0.7, 0.0}) {
		t.Errorf("unexpected pulse color: %+v", w.ColorPulse)
	}
}
