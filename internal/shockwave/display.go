package shockwave

import (
	"image/color"

	"shockwave/internal/core"
)

var heightPalette = buildHeightPalette()

// Palette maps the quantised heights returned by Cells to colours: troughs
// are blue, rest is slate and crests are pale.
func (s *Sim) Palette() []color.RGBA {
	return heightPalette
}

func buildHeightPalette() []color.RGBA {
	trough := color.NRGBA{R: 20, G: 60, B: 200, A: 255}
	rest := color.NRGBA{R: 36, G: 40, B: 52, A: 255}
	crest := color.NRGBA{R: 235, G: 240, B: 250, A: 255}
	palette := make([]color.RGBA, 256)
	for i := range palette {
		var c color.NRGBA
		if i <= core.MidLevel {
			c = blendColors(trough, rest, float64(i)/core.MidLevel)
		} else {
			c = blendColors(rest, crest, float64(i-core.MidLevel)/float64(255-core.MidLevel))
		}
		palette[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return palette
}

func blendColors(a, b color.NRGBA, t float64) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
