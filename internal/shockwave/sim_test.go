package shockwave

import (
	"math"
	"slices"
	"testing"

	"shockwave/internal/core"
)

func newRegisteredSim(t *testing.T, opts map[string]string) *Sim {
	t.Helper()
	factory, ok := core.Sims()["shockwave"]
	if !ok {
		t.Fatal("shockwave sim not registered")
	}
	sim, err := factory(opts)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	t.Cleanup(func() { sim.Close() })
	return sim.(*Sim)
}

func TestSimQuantisesHeights(t *testing.T) {
	sim := newRegisteredSim(t, map[string]string{"w": "8", "h": "4", "spawn_chance": "0", "workers": "2"})
	if got := sim.Size(); got != (core.Size{W: 8, H: 4}) {
		t.Fatalf("size = %+v", got)
	}
	cells := sim.Cells()
	if len(cells) != 32 {
		t.Fatalf("expected 32 cells, got %d", len(cells))
	}
	for i, v := range cells {
		if v != core.MidLevel {
			t.Fatalf("cell %d = %d before any spawn, expected rest level", i, v)
		}
	}

	sim.SpawnAt(2, 1)
	sim.Controller().Flush()
	if err := sim.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if err := sim.Controller().Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	cells = sim.Cells()
	if v := cells[sim.Size().Index(2, 1)]; v >= core.MidLevel {
		t.Fatalf("spawn point level = %d, expected a trough below %d", v, core.MidLevel)
	}
	if v := cells[sim.Size().Index(7, 3)]; v != core.MidLevel {
		t.Fatalf("far corner level = %d, expected rest", v)
	}

	markers := sim.Markers()
	if len(markers) != 1 || markers[0] != [2]float64{2, 1} {
		t.Fatalf("markers = %v", markers)
	}

	sim.Reset(0)
	if sim.Controller().Depth() != 0 {
		t.Fatal("reset left centres behind")
	}
}

func TestSimAutoSpawn(t *testing.T) {
	sim := newRegisteredSim(t, map[string]string{"w": "6", "h": "6", "spawn_chance": "1", "workers": "2"})
	for i := 0; i < 3; i++ {
		if err := sim.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if got := sim.Controller().Stats().Spawned; got != 3 {
		t.Fatalf("spawned %d centres, expected one per step", got)
	}
}

func TestSimParameters(t *testing.T) {
	sim := newRegisteredSim(t, map[string]string{"w": "4", "h": "4", "cutoff": "0.3"})
	snap := sim.Parameters()
	if p, ok := snap.Lookup("cutoff"); !ok || p.Value != "0.3" {
		t.Fatalf("cutoff parameter = %+v ok=%v", p, ok)
	}
	if p, ok := snap.Lookup("blend"); !ok || p.Value != string(BlendOverwrite) {
		t.Fatalf("blend parameter = %+v ok=%v", p, ok)
	}

	if sim.SetFloatParameter("cutoff", 2) {
		t.Fatal("out of range cutoff accepted")
	}
	if !sim.SetFloatParameter("cutoff", 0.1) || sim.Controller().Params().Cutoff != 0.1 {
		t.Fatal("valid cutoff rejected")
	}
	if sim.SetFloatParameter("nope", 1) {
		t.Fatal("unknown key accepted")
	}

	var heightCtrl core.ParameterControl
	for _, c := range sim.ParameterControls() {
		if c.Key == "height_factor" {
			heightCtrl = c
		}
	}
	before := sim.Controller().Params().HeightFactor
	if !core.ApplyControl(sim, heightCtrl, 1) {
		t.Fatal("ApplyControl rejected height bump")
	}
	if got := sim.Controller().Params().HeightFactor; got != before+heightCtrl.Step {
		t.Fatalf("height factor = %f, expected %f", got, before+heightCtrl.Step)
	}
}

func TestSimWithoutTemplate(t *testing.T) {
	sim := newRegisteredSim(t, map[string]string{"w": "4", "h": "4", "template": "none"})
	if !sim.Controller().Degraded() {
		t.Fatal("template=none should degrade the controller")
	}
	if err := sim.Step(); err != nil {
		t.Fatalf("degraded step: %v", err)
	}
}

func TestPaletteSpansTroughToCrest(t *testing.T) {
	pal := (&Sim{}).Palette()
	if len(pal) != 256 {
		t.Fatalf("palette has %d entries", len(pal))
	}
	if pal[0].B <= pal[0].R {
		t.Fatalf("trough colour %+v should be blue", pal[0])
	}
	if pal[255].R < 200 || pal[255].G < 200 {
		t.Fatalf("crest colour %+v should be pale", pal[255])
	}
}

func TestSimRingsGrowWithPhase(t *testing.T) {
	sim := newRegisteredSim(t, map[string]string{"w": "16", "h": "16", "spawn_chance": "0", "wave_speed": "10"})
	sim.SpawnAt(5, 6)
	rings := sim.Rings()
	if len(rings) != 1 || rings[0].X != 5 || rings[0].Y != 6 || rings[0].Radius > 1e-3 {
		t.Fatalf("fresh rings = %+v", rings)
	}
	for i := 0; i < 2; i++ {
		if err := sim.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	p := sim.Controller().Params()
	want := 2 * p.PhaseStep * p.WaveSpeed
	if got := sim.Rings()[0].Radius; math.Abs(got-want) > 1e-3 {
		t.Fatalf("radius after two frames = %f, expected %f", got, want)
	}
}

func TestSimCellsDoNotWaitForFrameInFlight(t *testing.T) {
	sim := newRegisteredSim(t, map[string]string{"w": "4", "h": "4", "spawn_chance": "0", "workers": "2"})
	ctrl := sim.Controller()
	ctrl.Spawn(1, 1)
	if err := ctrl.Flush(); err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if err := sim.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	release := make(chan struct{})
	ctrl.frame = ctrl.sched.Schedule(func() error {
		<-release
		return nil
	}, ctrl.frame)

	before := slices.Clone(sim.Cells())
	for i, v := range before {
		if v != core.MidLevel {
			t.Fatalf("cell %d = %d while the first frame was in flight, expected the rest level", i, v)
		}
	}

	close(release)
	if err := ctrl.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if v := sim.Cells()[sim.Size().Index(1, 1)]; v >= core.MidLevel {
		t.Fatalf("spawn cell level = %d after the frame completed, expected a trough", v)
	}
}

func TestSimSpawnPositionsUseTheirOwnStream(t *testing.T) {
	sim := newRegisteredSim(t, map[string]string{"w": "4", "h": "4", "seed": "21"})
	draw := func(r *core.RNG) []float32 {
		out := make([]float32, 8)
		for i := range out {
			out[i] = r.Range(0, 1)
		}
		return out
	}
	if slices.Equal(draw(sim.rng), draw(sim.ctrl.rng)) {
		t.Fatal("spawn chance and spawn position draw the same sequence")
	}
	sim.Reset(0)
	if slices.Equal(draw(sim.rng), draw(sim.ctrl.rng)) {
		t.Fatal("streams coincide again after reset")
	}
}
