package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Grayscale returns a 256 entry ramp used when a sim publishes no palette.
func Grayscale() []color.RGBA {
	pal := make([]color.RGBA, 256)
	for i := range pal {
		v := uint8(i)
		pal[i] = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	return pal
}
