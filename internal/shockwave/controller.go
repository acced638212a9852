package shockwave

import (
	"errors"
	"io"
	"log"

	"shockwave/internal/core"
	"shockwave/internal/job"
	"shockwave/internal/scene"
)

// Stats counts controller activity since construction.
type Stats struct {
	Frames  uint64
	Skipped uint64
	Spawned uint64
	Retired uint64
	Active  int
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger routes spawn, retirement and overflow events to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithScheduler runs the controller's passes on a shared scheduler instead
// of a private one.
func WithScheduler(s *job.Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

// Controller owns the cell grid, the centre queue and the transform array and
// schedules the per-frame passes over them.
//
// Spawn and Update must be called from the same goroutine. Neither blocks:
// work runs on the scheduler and is ordered by two completion handles, one
// for the spawn chain and one for the frame chain.
type Controller struct {
	cfg    Config
	params Params

	sched     *job.Scheduler
	ownsSched bool

	cells      *CellBuffer
	centres    *CentreQueue
	transforms []*scene.Transform

	spacing float32
	origin  scene.Vec3
	minX    float32
	maxX    float32
	minY    float32
	maxY    float32

	frame   job.Handle
	spawned job.Handle

	rng   *core.RNG
	log   *log.Logger
	stats Stats

	closed bool
}

// NewController allocates the grid and queue for cfg. Transforms are
// instanced from tmpl; with a nil template the controller runs in a degraded
// mode where Update does nothing.
func NewController(cfg Config, tmpl *scene.Template, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		params:  cfg.Params,
		spacing: scene.DefaultSpacing,
		rng:     core.NewRNG(positionSeed(cfg.Seed)),
		log:     log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sched == nil {
		c.sched = job.NewScheduler(cfg.Workers)
		c.ownsSched = true
	}

	size := core.Size{W: cfg.Width, H: cfg.Height}
	var positions []scene.Vec2
	if tmpl != nil {
		c.transforms, positions = scene.PlaneFromTemplate(tmpl, size)
		if tmpl.Spacing > 0 {
			c.spacing = tmpl.Spacing
		}
		c.origin = tmpl.Origin
	} else {
		positions = scene.GridPositions(size, c.spacing)
	}
	c.cells = NewCellBuffer(size, positions, float32(c.params.RestHeight))
	c.centres = NewCentreQueue(size.Cells())
	c.setBounds(positions)
	return c, nil
}

func (c *Controller) setBounds(positions []scene.Vec2) {
	for i, p := range positions {
		if i == 0 {
			c.minX, c.maxX, c.minY, c.maxY = p.X, p.X, p.Y, p.Y
			continue
		}
		c.minX = min(c.minX, p.X)
		c.maxX = max(c.maxX, p.X)
		c.minY = min(c.minY, p.Y)
		c.maxY = max(c.maxY, p.Y)
	}
}

// Degraded reports whether the controller has no transforms to drive.
func (c *Controller) Degraded() bool { return c.transforms == nil }

// Config returns the configuration the controller was built with.
func (c *Controller) Config() Config { return c.cfg }

// Params returns the parameters used for the next frame.
func (c *Controller) Params() Params { return c.params }

// SetParams replaces the parameters from the next frame on. Passes already
// in flight keep the values they were launched with.
func (c *Controller) SetParams(p Params) error {
	c.mustBeOpen("SetParams")
	if err := p.Validate(); err != nil {
		return err
	}
	c.params = p
	return nil
}

// WorldAt converts fractional grid coordinates into world coordinates.
func (c *Controller) WorldAt(gx, gy float64) (float32, float32) {
	return c.origin.X + float32(gx)*c.spacing, c.origin.Z + float32(gy)*c.spacing
}

// GridAt converts world coordinates into fractional grid coordinates.
func (c *Controller) GridAt(x, y float32) (float64, float64) {
	return float64((x - c.origin.X) / c.spacing), float64((y - c.origin.Z) / c.spacing)
}

// Spawn requests a new centre at world position (x, y). The centre is
// enqueued asynchronously behind any earlier spawn.
func (c *Controller) Spawn(x, y float32) {
	c.mustBeOpen("Spawn")
	centre := NewCentre(x, y, c.params)
	c.spawned = AsyncEnqueue(c.sched, c.centres, centre, c.spawned)
	c.stats.Spawned++
	c.log.Printf("shockwave: spawn centre at (%.2f, %.2f)", x, y)
}

// SpawnRandom spawns a centre at a uniformly random point within the grid.
func (c *Controller) SpawnRandom() {
	c.Spawn(c.rng.Range(c.minX, c.maxX), c.rng.Range(c.minY, c.maxY))
}

// Update schedules one frame: retire at most one damped centre, fold every
// active centre into the grid and sync the transforms. When the previous
// spawn has not finished enqueueing, the centres are left untouched this
// frame. An enqueue overflow is returned once its spawn chain completes.
func (c *Controller) Update() error {
	c.mustBeOpen("Update")
	if c.transforms == nil {
		return nil
	}
	var err error
	if c.spawned.IsCompleted() {
		if err = c.spawned.Err(); err != nil {
			c.log.Printf("shockwave: %v", err)
		}
		c.spawned = job.Handle{}
		c.retireDampedCentre()
		c.frame = c.scheduleFoldChain(c.frame)
	} else {
		c.stats.Skipped++
	}
	c.frame = ScheduleTransformSync(c.sched, c.cells, c.transforms, c.cfg.Batch, c.frame)
	c.stats.Frames++
	return err
}

// retireDampedCentre inspects only the oldest centre, keeping retirement O(1)
// per frame. A damped centre further back waits until it reaches the head.
func (c *Controller) retireDampedCentre() {
	centre, ok := c.centres.TryDequeue()
	if !ok {
		return
	}
	if centre.Decay() >= float32(c.params.Cutoff) {
		c.centres.TryRequeue(centre)
		return
	}
	c.stats.Retired++
	c.log.Printf("shockwave: retire centre at (%.2f, %.2f) phase %.3f", centre.X, centre.Y, centre.Phase)
}

// foldChain is the state threaded through the queue visit.
type foldChain struct {
	sched *job.Scheduler
	cells *CellBuffer
	batch int
	p     Params
	prior job.Handle
}

func (c *Controller) scheduleFoldChain(prior job.Handle) job.Handle {
	p := c.params
	prior = ScheduleRest(c.sched, float32(p.RestHeight), c.cells, c.cfg.Batch, prior)
	if c.centres.Depth() == 0 {
		return ScheduleFold(c.sched, WaveCentre{}, p, c.cells, c.cfg.Batch, prior)
	}
	chain := &foldChain{sched: c.sched, cells: c.cells, batch: c.cfg.Batch, p: p, prior: prior}
	VisitNewestToOldest(c.centres, chain, func(centre *WaveCentre, fc *foldChain) {
		fc.prior = ScheduleFold(fc.sched, *centre, fc.p, fc.cells, fc.batch, fc.prior)
		centre.Advance(float32(fc.p.PhaseStep))
	})
	return chain.prior
}

// Flush blocks until the pending spawn chain and frame chain have completed.
// It is the sync point for anything reading cells or transforms directly.
func (c *Controller) Flush() error {
	c.mustBeOpen("Flush")
	return errors.Join(c.spawned.Complete(), c.frame.Complete())
}

// Heights flushes and appends every cell height to dst[:0].
func (c *Controller) Heights(dst []float32) []float32 {
	c.Flush()
	return c.cells.Heights(dst)
}

// TryHeights appends every cell height to dst[:0] if the frame chain has
// finished. It never blocks; while a frame is in flight it returns dst
// unchanged and false.
func (c *Controller) TryHeights(dst []float32) ([]float32, bool) {
	c.mustBeOpen("TryHeights")
	if !c.frame.IsCompleted() {
		return dst, false
	}
	return c.cells.Heights(dst), true
}

// Cell flushes and returns a copy of the cell at linear index i.
func (c *Controller) Cell(i int) Cell {
	c.Flush()
	return *c.cells.At(i)
}

// Transforms flushes and returns the driven transforms.
func (c *Controller) Transforms() []*scene.Transform {
	c.Flush()
	return c.transforms
}

// Centres flushes the spawn chain and appends the active centres to dst from
// oldest to newest.
func (c *Controller) Centres(dst []WaveCentre) []WaveCentre {
	c.mustBeOpen("Centres")
	c.spawned.Complete()
	return c.centres.Snapshot(dst)
}

// Depth flushes the spawn chain and returns the number of active centres.
func (c *Controller) Depth() int {
	c.mustBeOpen("Depth")
	c.spawned.Complete()
	return c.centres.Depth()
}

// Stats returns activity counters.
func (c *Controller) Stats() Stats {
	s := c.stats
	s.Active = c.Depth()
	return s
}

// Reset drops every centre, returns the grid to rest and reseeds the random
// spawner.
func (c *Controller) Reset(seed int64) {
	c.Flush()
	c.centres.Clear()
	c.spawned = job.Handle{}
	c.rng.Reseed(positionSeed(seed))
	c.frame = ScheduleRest(c.sched, float32(c.params.RestHeight), c.cells, c.cfg.Batch, c.frame)
	if c.transforms != nil {
		c.frame = ScheduleTransformSync(c.sched, c.cells, c.transforms, c.cfg.Batch, c.frame)
	}
}

// Close waits for every in-flight pass, then releases the grid, queue and
// transforms. It returns any error the final spawn chain finished with.
// Calling Close again is a no-op; any other call after Close panics.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	err := errors.Join(c.spawned.Complete(), c.frame.Complete())
	if c.ownsSched {
		c.sched.Wait()
	}
	c.cells.Release()
	c.centres.Release()
	c.transforms = nil
	c.spawned = job.Handle{}
	c.frame = job.Handle{}
	c.closed = true
	return err
}

// positionSeed derives the spawn-position stream from the configured seed so
// it does not replay draws made by a caller seeded with the same value.
func positionSeed(seed int64) int64 { return seed ^ 0x9e3779b9 }

func (c *Controller) mustBeOpen(op string) {
	if c.closed {
		panic("shockwave: " + op + " on closed controller")
	}
}
