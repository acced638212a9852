package shockwave

import (
	"fmt"

	"shockwave/internal/core"
	"shockwave/internal/scene"
)

// Cell is one grid point: a fixed ground position, its current height and
// a count of the fold passes that have written it.
type Cell struct {
	X, Y   float32
	Height float32
	Folds  uint32
}

// CellBuffer is the row-major cell storage shared by every pass of a frame.
type CellBuffer struct {
	size core.Size
	data []Cell
}

// NewCellBuffer places one cell at each position, all at rest height. The
// positions must be row-major and exactly size.W*size.H long.
func NewCellBuffer(size core.Size, positions []scene.Vec2, rest float32) *CellBuffer {
	if len(positions) != size.Cells() {
		panic(fmt.Sprintf("shockwave: %d positions for a %dx%d grid", len(positions), size.W, size.H))
	}
	data := make([]Cell, len(positions))
	for i, p := range positions {
		data[i] = Cell{X: p.X, Y: p.Y, Height: rest}
	}
	return &CellBuffer{size: size, data: data}
}

// Size returns the grid dimensions.
func (b *CellBuffer) Size() core.Size { return b.size }

// Len returns the number of cells.
func (b *CellBuffer) Len() int { return len(b.live()) }

// Index returns the linear index of grid coordinate (x, y).
func (b *CellBuffer) Index(x, y int) int { return b.size.Index(x, y) }

// At returns the cell at linear index i.
func (b *CellBuffer) At(i int) *Cell { return &b.live()[i] }

// Heights appends every cell height to dst[:0].
func (b *CellBuffer) Heights(dst []float32) []float32 {
	data := b.live()
	dst = dst[:0]
	for i := range data {
		dst = append(dst, data[i].Height)
	}
	return dst
}

// Release frees the cell storage. Any later use panics.
func (b *CellBuffer) Release() { b.data = nil }

func (b *CellBuffer) live() []Cell {
	if b.data == nil {
		panic("shockwave: use of released cell buffer")
	}
	return b.data
}
