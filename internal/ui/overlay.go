//go:build ebiten

package ui

import (
	"image/color"

	"shockwave/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Overlay draws optional debugging visuals on top of the base simulation.
// Key 1 toggles centre markers and key 2 toggles the wavefront rings.
type Overlay struct {
	sim         core.Sim
	scale       int
	showCentres bool
	showRings   bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: scale, showCentres: true}
}

// Update allows the overlay to update internal state.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showCentres = !o.showCentres
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showRings = !o.showRings
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showCentres && !o.showRings {
		return
	}
	provider, ok := o.sim.(core.RingProvider)
	if !ok {
		return
	}
	scale := float32(o.scale)
	if scale <= 0 {
		scale = 1
	}
	centreColor := color.RGBA{R: 255, G: 196, B: 64, A: 255}
	ringColor := color.RGBA{R: 255, G: 255, B: 255, A: 96}
	for _, r := range provider.Rings() {
		// Cell centres sit half a cell into the scaled pixel block.
		cx := (float32(r.X) + 0.5) * scale
		cy := (float32(r.Y) + 0.5) * scale
		if o.showRings && r.Radius > 0 {
			vector.StrokeCircle(screen, cx, cy, float32(r.Radius)*scale, 1, ringColor, true)
		}
		if o.showCentres {
			arm := scale
			vector.StrokeLine(screen, cx-arm, cy, cx+arm, cy, 1, centreColor, false)
			vector.StrokeLine(screen, cx, cy-arm, cx, cy+arm, 1, centreColor, false)
		}
	}
}
