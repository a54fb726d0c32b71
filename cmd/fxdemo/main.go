// Command fxdemo renders one composited frame of the overlayfx effect
// stack over a generated source texture and writes it to a PNG. Effect
// selection and parameters come from flags or a YAML preset file.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/overlayfx"
	"github.com/gogpu/overlayfx/render"
)

func main() {
	var (
		width   = flag.Int("width", 800, "frame width")
		height  = flag.Int("height", 600, "frame height")
		effect  = flag.String("effect", "hologram", "effect kind: passthrough, hologram, warpfield, arc")
		presets = flag.String("presets", "", "YAML preset file; overrides -effect when -preset is set")
		preset  = flag.String("preset", "", "preset name to use from -presets")
		timeS   = flag.Float64("time", 1.0, "elapsed time in seconds")
		output  = flag.String("output", "fxdemo.png", "output file")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		overlayfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	inst, err := selectEffect(*effect, *presets, *preset)
	if err != nil {
		log.Fatal(err)
	}

	target := render.NewPixmapTarget(*width, *height)
	renderer := render.New(target)
	renderer.SetSource(render.WrapSource(checkerboard(*width, *height)))

	compositor, err := overlayfx.NewCompositor(renderer)
	if err != nil {
		log.Fatalf("create compositor: %v", err)
	}
	compositor.SetEffects(inst)

	if inst.Kind() == overlayfx.EffectElectricArc {
		compositor.QueueTriangles(arcGeometry()...)
	}

	info := overlayfx.FrameInfo{
		Time:           float32(*timeS),
		Width:          *width,
		Height:         *height,
		ViewProjection: mgl32.Ident4(),
	}
	if err := compositor.Frame(info); err != nil {
		log.Fatalf("composite frame: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, target.Image()); err != nil {
		log.Fatalf("encode: %v", err)
	}
	log.Printf("Saved %s (%dx%d, %s)", *output, *width, *height, inst.Kind())
}

// selectEffect builds the effect instance from flags, preferring a
// named preset when one is given.
func selectEffect(kind, presetFile, presetName string) (overlayfx.EffectInstance, error) {
	if presetName != "" {
		presets, err := overlayfx.LoadPresets(presetFile)
		if err != nil {
			return overlayfx.EffectInstance{}, err
		}
		inst, ok := presets[presetName]
		if !ok {
			log.Fatalf("preset %q not found in %s", presetName, presetFile)
		}
		return inst, nil
	}

	switch kind {
	case "passthrough":
		return overlayfx.EffectInstance{Params: overlayfx.PassthroughParams{}, Blend: overlayfx.BlendReplace}, nil
	case "hologram":
		return overlayfx.EffectInstance{Params: overlayfx.DefaultHologramParams(), Blend: overlayfx.BlendReplace}, nil
	case "warpfield":
		return overlayfx.EffectInstance{Params: overlayfx.DefaultWarpFieldParams(), Blend: overlayfx.BlendSourceOver}, nil
	case "arc":
		return overlayfx.EffectInstance{Params: overlayfx.ElectricArcParams{}, Blend: overlayfx.BlendSourceOver}, nil
	default:
		log.Fatalf("unknown effect %q", kind)
		return overlayfx.EffectInstance{}, nil
	}
}

// checkerboard fakes the externally produced UI texture.
func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{30, 30, 40, 255}
			if (x/40+y/40)%2 == 0 {
				c = color.RGBA{200, 210, 220, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// arcGeometry supplies a pair of clip-space triangles for the 3D path.
func arcGeometry() []overlayfx.Vertex3D {
	c := [4]float32{0.4, 0.7, 1.0, 1.0}
	return []overlayfx.Vertex3D{
		{Position: [3]float32{-0.8, -0.2, 0}, Color: c},
		{Position: [3]float32{0.8, -0.1, 0}, Color: c},
		{Position: [3]float32{-0.7, 0.3, 0}, Color: c},
		{Position: [3]float32{0.8, -0.1, 0}, Color: c},
		{Position: [3]float32{0.9, 0.4, 0}, Color: c},
		{Position: [3]float32{-0.7, 0.3, 0}, Color: c},
	}
}
