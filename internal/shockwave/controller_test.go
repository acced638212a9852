package shockwave

import (
	"bytes"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"shockwave/internal/job"
	"shockwave/internal/scene"
)

func newTestController(t *testing.T, w, h int, mutate func(*Config)) *Controller {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Workers = 2
	cfg.Params.SpawnChance = 0
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewController(cfg, scene.Marker())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func step(t *testing.T, c *Controller, frames int) {
	t.Helper()
	for i := 0; i < frames; i++ {
		if err := c.Update(); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func approx(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestQuietGridStaysAtRest(t *testing.T) {
	c := newTestController(t, 2, 2, nil)

	wantPos := []scene.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	for i, want := range wantPos {
		cell := c.Cell(i)
		if cell.X != want.X || cell.Y != want.Y {
			t.Fatalf("cell %d at (%f,%f), expected %+v", i, cell.X, cell.Y, want)
		}
	}

	for round := 0; round < 3; round++ {
		step(t, c, 7)
		for i, h := range c.Heights(nil) {
			if h != 0 {
				t.Fatalf("round %d: cell %d height %f, expected rest", round, i, h)
			}
		}
		for i, tr := range c.Transforms() {
			if tr.Position.Y != 0 {
				t.Fatalf("round %d: transform %d y=%f, expected 0", round, i, tr.Position.Y)
			}
		}
	}
}

func TestSingleCentreLifecycle(t *testing.T) {
	const height = 3
	c := newTestController(t, 1, 1, func(cfg *Config) { cfg.Params.HeightFactor = height })

	c.Spawn(0, 0)
	if err := c.Flush(); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if c.Depth() != 1 {
		t.Fatalf("depth after spawn = %d", c.Depth())
	}

	step(t, c, 1)
	if h := c.Heights(nil)[0]; !approx(h, -height) {
		t.Fatalf("first fold height = %f, expected %f", h, float32(-height))
	}
	if y := c.Transforms()[0].Position.Y; !approx(y, -height) {
		t.Fatalf("transform y = %f, expected %f", y, float32(-height))
	}
	if tr := c.Transforms()[0]; tr.Position.X != 0 || tr.Position.Z != 0 {
		t.Fatalf("sync touched horizontal coordinates: %+v", tr.Position)
	}

	p := c.Params()
	limit := int(math.Ceil(math.Pi/2/p.PhaseStep)) + 4
	retiredAt := -1
	for frame := 2; frame <= limit; frame++ {
		step(t, c, 1)
		if c.Depth() == 0 {
			retiredAt = frame
			break
		}
	}
	if retiredAt < 0 {
		t.Fatalf("centre still active after %d frames", limit)
	}
	if got := c.Stats().Retired; got != 1 {
		t.Fatalf("retired = %d, expected 1", got)
	}
	if h := c.Heights(nil)[0]; h != 0 {
		t.Fatalf("height after retirement = %f, expected rest", h)
	}
	if y := c.Transforms()[0].Position.Y; y != 0 {
		t.Fatalf("transform y after retirement = %f", y)
	}
}

func TestRetiresAtMostOneCentrePerFrame(t *testing.T) {
	c := newTestController(t, 4, 4, nil)
	for i := 0; i < 5; i++ {
		c.centres.Enqueue(WaveCentre{X: float32(i), Amplitude: -1, Phase: math.Pi})
	}
	for frame := 1; frame <= 3; frame++ {
		step(t, c, 1)
		if got := c.Stats().Retired; got != uint64(frame) {
			t.Fatalf("after %d frames retired %d centres", frame, got)
		}
	}
	if c.Depth() != 2 {
		t.Fatalf("depth = %d, expected 2", c.Depth())
	}
}

func TestOnlyHeadCentreIsInspected(t *testing.T) {
	c := newTestController(t, 2, 2, nil)
	live := NewCentre(0, 0, c.Params())
	dead := WaveCentre{X: 1, Amplitude: -1, Phase: math.Pi}
	c.centres.Enqueue(live)
	c.centres.Enqueue(dead)

	step(t, c, 1)
	if got := c.Stats().Retired; got != 0 {
		t.Fatalf("damped centre behind the head was retired early (%d)", got)
	}
	snap := c.Centres(nil)
	if len(snap) != 2 || snap[0].X != dead.X {
		t.Fatalf("expected head to rotate to the tail, got %+v", snap)
	}

	step(t, c, 1)
	if got := c.Stats().Retired; got != 1 {
		t.Fatalf("damped centre at head not retired (%d)", got)
	}
}

func TestFoldPassesAreSerialized(t *testing.T) {
	const centres, frames = 4, 6
	c := newTestController(t, 5, 5, func(cfg *Config) {
		cfg.Batch = 3
		cfg.Params.PhaseStep = 0.001
	})
	for i := 0; i < centres; i++ {
		c.centres.Enqueue(NewCentre(float32(i), float32(i), c.Params()))
	}
	step(t, c, frames)
	if c.Depth() != centres {
		t.Fatalf("centres retired unexpectedly: depth %d", c.Depth())
	}
	for i := 0; i < c.cells.Len(); i++ {
		if got := c.Cell(i).Folds; got != centres*frames {
			t.Fatalf("cell %d saw %d fold writes, expected %d", i, got, centres*frames)
		}
	}
}

func TestOverwriteKeepsLastVisitedCentre(t *testing.T) {
	c := newTestController(t, 1, 1, nil)
	p := c.Params()
	older := NewCentre(0, 0, p)
	older.Amplitude = -5
	newer := NewCentre(0, 0, p)
	newer.Amplitude = -1
	c.centres.Enqueue(older)
	c.centres.Enqueue(newer)

	// The cutoff check rotates the older centre to the tail, so the visit
	// runs older then newer and the newer one is written last.
	step(t, c, 1)
	if h := c.Heights(nil)[0]; !approx(h, -1) {
		t.Fatalf("overwrite height = %f, expected -1", h)
	}
}

func TestOverwriteKeepsSeparateRings(t *testing.T) {
	c := newTestController(t, 20, 1, nil)
	p := c.Params()
	c.centres.Enqueue(NewCentre(0, 0, p))
	c.centres.Enqueue(NewCentre(19, 0, p))

	step(t, c, 1)
	heights := c.Heights(nil)
	want := float32(-p.HeightFactor)
	if !approx(heights[0], want) || !approx(heights[19], want) {
		t.Fatalf("cell0=%f cell19=%f, expected both rings at %f", heights[0], heights[19], want)
	}
	if heights[10] != 0 {
		t.Fatalf("cell between the rings = %f, expected rest", heights[10])
	}

	// Two more frames move both rings past their spawn cells.
	step(t, c, 2)
	heights = c.Heights(nil)
	if heights[0] != 0 || heights[19] != 0 {
		t.Fatalf("spawn cells left behind the rings: cell0=%f cell19=%f", heights[0], heights[19])
	}
	if c.Depth() != 2 {
		t.Fatalf("depth = %d, expected both centres active", c.Depth())
	}
}

func TestSumBlendAccumulatesFromRest(t *testing.T) {
	c := newTestController(t, 1, 1, func(cfg *Config) {
		cfg.Params.Blend = BlendSum
		cfg.Params.RestHeight = 0.5
	})
	p := c.Params()
	a := NewCentre(0, 0, p)
	a.Amplitude = -1
	b := NewCentre(0, 0, p)
	b.Amplitude = -2
	c.centres.Enqueue(a)
	c.centres.Enqueue(b)

	step(t, c, 1)
	if h := c.Heights(nil)[0]; !approx(h, -2.5) {
		t.Fatalf("sum height = %f, expected -2.5", h)
	}
	step(t, c, 4)
	if h := c.Heights(nil)[0]; !approx(h, 0.5) {
		t.Fatalf("height once rings pass = %f, expected rest 0.5", h)
	}
}

func TestUpdateSkipsCentresWhileSpawnPending(t *testing.T) {
	c := newTestController(t, 2, 2, nil)
	release := make(chan struct{})
	c.spawned = c.sched.Schedule(func() error {
		<-release
		return nil
	}, job.Handle{})
	c.Spawn(0, 0)

	if err := c.Update(); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := c.stats.Skipped; got != 1 {
		t.Fatalf("skipped = %d, expected 1", got)
	}
	close(release)
	if err := c.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := c.Cell(0).Folds; got != 0 {
		t.Fatalf("fold ran while spawn was pending (%d writes)", got)
	}

	step(t, c, 1)
	if got := c.Cell(0).Folds; got != 1 {
		t.Fatalf("fold did not resume after spawn completed (%d writes)", got)
	}
	if h := c.Heights(nil)[0]; h >= 0 {
		t.Fatalf("spawned centre not folded, height %f", h)
	}
}

func TestSpawnOverflowIsReported(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 1, 1
	c, err := NewController(cfg, scene.Marker(), WithLogger(log.New(&buf, "", 0)))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.Spawn(0, 0)
	c.Spawn(0, 0)
	if err := c.Flush(); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("flush error = %v, expected ErrQueueFull", err)
	}
	if err := c.Update(); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("update error = %v, expected ErrQueueFull", err)
	}
	if !strings.Contains(buf.String(), "queue full") {
		t.Fatalf("overflow not logged: %q", buf.String())
	}
	if err := c.Update(); err != nil {
		t.Fatalf("overflow reported twice: %v", err)
	}
}

func TestCloseWaitsForInFlightWork(t *testing.T) {
	c := newTestController(t, 16, 16, nil)
	step(t, c, 1)
	c.Spawn(3, 3)
	c.Update()
	c.SpawnRandom()
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Update after Close should panic")
		}
	}()
	c.Update()
}

func TestMissingTemplateIsNoOp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 3, 3
	c, err := NewController(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if !c.Degraded() {
		t.Fatal("controller without template should be degraded")
	}
	c.Spawn(1, 1)
	for i := 0; i < 5; i++ {
		if err := c.Update(); err != nil {
			t.Fatalf("degraded update: %v", err)
		}
	}
	if got := c.Stats().Frames; got != 0 {
		t.Fatalf("degraded controller ran %d frames", got)
	}
	for i, h := range c.Heights(nil) {
		if h != 0 {
			t.Fatalf("cell %d moved to %f in degraded mode", i, h)
		}
	}
}

func TestResetReturnsToRest(t *testing.T) {
	c := newTestController(t, 4, 4, nil)
	c.Spawn(1, 1)
	c.Flush()
	step(t, c, 1)
	c.Reset(7)
	if c.Depth() != 0 {
		t.Fatalf("depth after reset = %d", c.Depth())
	}
	for i, h := range c.Heights(nil) {
		if h != 0 {
			t.Fatalf("cell %d at %f after reset", i, h)
		}
	}
	for i, tr := range c.Transforms() {
		if tr.Position.Y != 0 {
			t.Fatalf("transform %d at %f after reset", i, tr.Position.Y)
		}
	}
}

func TestSetParamsRejectsInvalidValues(t *testing.T) {
	c := newTestController(t, 2, 2, nil)
	p := c.Params()
	p.Cutoff = 0
	if err := c.SetParams(p); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if c.Params().Cutoff == 0 {
		t.Fatal("invalid params were applied")
	}
}

func TestNewControllerValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	if _, err := NewController(cfg, scene.Marker()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
