package overlayfx

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is one named effect configuration as stored in a preset file.
// Kind selects which parameter section applies; an omitted section
// falls back to the effect's defaults. Bounds, when present, scope the
// effect to a widget rectangle. Bounds values are intentionally not
// validated: malformed rectangles degrade at the gate, and validation
// belongs to whoever authored the widget geometry.
type Preset struct {
	Kind      string           `yaml:"kind"`
	Blend     string           `yaml:"blend,omitempty"`
	Bounds    *Bounds          `yaml:"bounds,omitempty"`
	Hologram  *HologramParams  `yaml:"hologram,omitempty"`
	WarpField *WarpFieldParams `yaml:"warpfield,omitempty"`
}

// presetFile is the top-level document layout.
type presetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Instance converts the preset into an effect instance, applying
// defaults for omitted parameter sections. Unknown kind or blend names
// are errors; everything else is passed through untouched.
func (p *Preset) Instance() (EffectInstance, error) {
	var inst EffectInstance

	switch p.Kind {
	case "passthrough":
		inst.Params = PassthroughParams{}
	case "hologram":
		params := DefaultHologramParams()
		if p.Hologram != nil {
			params = *p.Hologram
		}
		inst.Params = params
	case "warpfield":
		params := DefaultWarpFieldParams()
		if p.WarpField != nil {
			params = *p.WarpField
		}
		inst.Params = params
	case "electric_arc":
		inst.Params = ElectricArcParams{}
	default:
		return inst, fmt.Errorf("overlayfx: unknown effect kind %q", p.Kind)
	}

	switch p.Blend {
	case "", "source_over":
		inst.Blend = BlendSourceOver
	case "replace":
		inst.Blend = BlendReplace
	case "additive":
		inst.Blend = BlendAdditive
	default:
		return inst, fmt.Errorf("overlayfx: unknown blend mode %q", p.Blend)
	}

	if p.Bounds != nil {
		inst.Target = Widget(*p.Bounds)
	}
	return inst, nil
}

// ReadPresets parses a YAML preset document into named effect
// instances.
func ReadPresets(r io.Reader) (map[string]EffectInstance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("overlayfx: read presets: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("overlayfx: parse presets: %w", err)
	}

	out := make(map[string]EffectInstance, len(file.Presets))
	for name, preset := range file.Presets {
		inst, err := preset.Instance()
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		out[name] = inst
	}
	return out, nil
}

// LoadPresets reads a YAML preset file from disk.
func LoadPresets(path string) (map[string]EffectInstance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("overlayfx: open presets: %w", err)
	}
	defer f.Close()
	return ReadPresets(f)
}
