package core

import "sort"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Cells returns the number of grid cells.
func (s Size) Cells() int { return s.W * s.H }

// Index returns the row-major index of (x, y).
func (s Size) Index(x, y int) int { return y*s.W + x }

// Sim defines the contract a grid simulation exposes to the front ends.
// Cells returns one palette index per grid cell.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step() error
	Cells() []uint8
	Close() error
}

// Spawner is implemented by sims that accept point disturbances in grid
// coordinates.
type Spawner interface {
	SpawnAt(x, y float64)
}

// Ring is an expanding wavefront in grid coordinates.
type Ring struct {
	X, Y   float64
	Radius float64
}

// RingProvider is implemented by sims that can report their active fronts.
type RingProvider interface {
	Rings() []Ring
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// SimNames lists the registered simulations in sorted order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
