package shockwave

import (
	"log"

	"shockwave/internal/core"
	"shockwave/internal/scene"
)

// Sim adapts a Controller to the core.Sim contract used by the front ends.
// Each Step may spawn a random centre and then schedules one frame.
type Sim struct {
	cfg     Config
	ctrl    *Controller
	rng     *core.RNG
	heights []float32
	display *core.ByteGrid
	markers []WaveCentre
}

// NewSim builds a sim whose grid is instanced from tmpl.
func NewSim(cfg Config, tmpl *scene.Template, opts ...Option) (*Sim, error) {
	ctrl, err := NewController(cfg, tmpl, opts...)
	if err != nil {
		return nil, err
	}
	s := &Sim{
		cfg:     cfg,
		ctrl:    ctrl,
		rng:     core.NewRNG(cfg.Seed),
		heights: make([]float32, 0, cfg.Cells()),
		display: core.NewByteGrid(cfg.Width, cfg.Height),
	}
	s.display.Fill(core.MidLevel)
	return s, nil
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "shockwave" }

// Size returns the grid dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.Width, H: s.cfg.Height} }

// Controller exposes the underlying frame orchestrator.
func (s *Sim) Controller() *Controller { return s.ctrl }

// Reset clears every centre and returns the grid to rest. A zero seed
// reuses the configured one.
func (s *Sim) Reset(seed int64) {
	if seed == 0 {
		seed = s.cfg.Seed
	}
	s.rng.Reseed(seed)
	s.ctrl.Reset(seed)
}

// Step spawns a random centre with the configured chance and schedules one
// frame.
func (s *Sim) Step() error {
	if s.rng.Chance(s.ctrl.Params().SpawnChance) {
		s.ctrl.SpawnRandom()
	}
	return s.ctrl.Update()
}

// Cells returns cell heights quantised to palette indices, with rest height
// at core.MidLevel. It does not wait for the frame in flight: until that
// frame completes the previously quantised levels are returned.
func (s *Sim) Cells() []uint8 {
	heights, ok := s.ctrl.TryHeights(s.heights)
	if !ok {
		return s.display.Cells()
	}
	s.heights = heights
	p := s.ctrl.Params()
	rest := float32(p.RestHeight)
	for i := range s.heights {
		s.heights[i] -= rest
	}
	s.display.Quantize(s.heights, float32(p.HeightFactor))
	return s.display.Cells()
}

// SpawnAt spawns a centre at fractional grid coordinates.
func (s *Sim) SpawnAt(x, y float64) {
	wx, wy := s.ctrl.WorldAt(x, y)
	s.ctrl.Spawn(wx, wy)
}

// Markers returns the grid coordinates of every active centre.
func (s *Sim) Markers() [][2]float64 {
	rings := s.Rings()
	out := make([][2]float64, len(rings))
	for i, r := range rings {
		out[i] = [2]float64{r.X, r.Y}
	}
	return out
}

// Rings returns every active wavefront, oldest first, in grid units.
func (s *Sim) Rings() []core.Ring {
	p := s.ctrl.Params()
	spacing := float64(s.ctrl.spacing)
	s.markers = s.ctrl.Centres(s.markers[:0])
	out := make([]core.Ring, len(s.markers))
	for i, m := range s.markers {
		gx, gy := s.ctrl.GridAt(m.X, m.Y)
		out[i] = core.Ring{X: gx, Y: gy, Radius: float64(m.Radius(p)) / spacing}
	}
	return out
}

// Close shuts the controller down.
func (s *Sim) Close() error { return s.ctrl.Close() }

func init() {
	core.Register("shockwave", func(cfg map[string]string) (core.Sim, error) {
		c := FromMap(cfg)
		tmpl := scene.Marker()
		if cfg["template"] == "none" {
			tmpl = nil
		}
		var opts []Option
		if cfg["verbose"] == "true" {
			opts = append(opts, WithLogger(log.Default()))
		}
		return NewSim(c, tmpl, opts...)
	})
}
