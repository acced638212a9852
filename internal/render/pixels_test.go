package render

import (
	"image/color"
	"testing"
)

func TestFillPaletteRGBA(t *testing.T) {
	pal := []color.RGBA{{R: 1, G: 2, B: 3, A: 255}, {R: 9, G: 8, B: 7, A: 255}}
	buf := make([]byte, 12)
	fillPaletteRGBA(buf, []uint8{0, 1, 200}, pal)
	want := []byte{1, 2, 3, 255, 9, 8, 7, 255, 9, 8, 7, 255}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d = %d, expected %d (buf %v)", i, buf[i], want[i], buf)
		}
	}

	fillPaletteRGBA(buf, []uint8{0, 1, 2}, nil)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("empty palette left byte %d = %d", i, b)
		}
	}
}

func TestGrayscaleRamp(t *testing.T) {
	pal := Grayscale()
	if len(pal) != 256 || pal[0].R != 0 || pal[255].G != 255 {
		t.Fatalf("unexpected ramp ends %+v %+v", pal[0], pal[len(pal)-1])
	}
}
