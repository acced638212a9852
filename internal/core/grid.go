package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// Fill sets every cell to v.
func (g *ByteGrid) Fill(v uint8) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Quantize maps signed values in [-span, span] onto 0..255 with zero at
// MidLevel. Out-of-range values saturate.
func (g *ByteGrid) Quantize(values []float32, span float32) {
	if span <= 0 {
		g.Fill(MidLevel)
		return
	}
	n := min(len(values), len(g.data))
	for i := 0; i < n; i++ {
		level := float32(MidLevel) + values[i]/span*float32(MidLevel)
		switch {
		case level <= 0:
			g.data[i] = 0
		case level >= 255:
			g.data[i] = 255
		default:
			g.data[i] = uint8(level + 0.5)
		}
	}
}

// MidLevel is the quantised value of zero.
const MidLevel = 127
