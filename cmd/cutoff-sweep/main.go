package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"shockwave/internal/scene"
	"shockwave/internal/shockwave"
)

type paramSet struct {
	cutoff    float64
	phaseStep float64
	waveSpeed float64
}

func (p paramSet) String() string {
	return fmt.Sprintf("cutoff=%.3f step=%.3f speed=%.1f", p.cutoff, p.phaseStep, p.waveSpeed)
}

type scenarioResult struct {
	params     paramSet
	lifetime   int
	retired    bool
	reach      float64
	probePeak  float32
	probeFrame int
	err        error
}

func main() {
	size := flag.Int("size", 33, "square grid edge in cells")
	maxFrames := flag.Int("frames", 2000, "frame limit per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	probe := flag.Int("probe", 8, "distance in cells from the centre to the probe cell")
	flag.Parse()

	baseCfg := shockwave.DefaultConfig()
	baseCfg.Width = *size
	baseCfg.Height = *size
	baseCfg.Workers = 1
	baseCfg.Params.SpawnChance = 0

	cutoffOptions := []float64{0.01, 0.05, 0.1, 0.25, 0.5}
	stepOptions := []float64{0.01, 0.025, 0.05, 0.1}
	speedOptions := []float64{10, 20, 40}

	var sets []paramSet
	for _, cutoff := range cutoffOptions {
		for _, step := range stepOptions {
			for _, speed := range speedOptions {
				sets = append(sets, paramSet{cutoff: cutoff, phaseStep: step, waveSpeed: speed})
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets (%d workers, %dx%d grid, %d frame limit)\n", len(sets), *workers, *size, *size, *maxFrames)

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(baseCfg, params, *maxFrames, *probe)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		if res.err != nil {
			log.Printf("%s: %v", res.params, res.err)
			continue
		}
		if !res.retired {
			fmt.Printf("Never retired within %d frames: %s\n", *maxFrames, res.params)
		}
		all = append(all, res)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].lifetime != all[j].lifetime {
			return all[i].lifetime < all[j].lifetime
		}
		return all[i].params.cutoff > all[j].params.cutoff
	})
	elapsed := time.Since(start)

	fmt.Printf("\nResults by lifetime (elapsed %s):\n", elapsed.Round(time.Millisecond))
	for i, res := range all {
		fmt.Printf("%2d) frames=%d expected=%d reach=%.1f probePeak=%.3f@%d params=%s\n",
			i+1, res.lifetime, expectedLifetime(baseCfg.Params, res.params), res.reach, res.probePeak, res.probeFrame, res.params)
	}
}

// runScenario spawns one centre in the middle of the grid and steps frames
// until the cutoff retires it.
func runScenario(base shockwave.Config, params paramSet, maxFrames, probe int) scenarioResult {
	cfg := base
	cfg.Params.Cutoff = params.cutoff
	cfg.Params.PhaseStep = params.phaseStep
	cfg.Params.WaveSpeed = params.waveSpeed
	res := scenarioResult{params: params}

	ctrl, err := shockwave.NewController(cfg, scene.Marker())
	if err != nil {
		res.err = err
		return res
	}
	defer ctrl.Close()

	cx, cy := cfg.Width/2, cfg.Height/2
	wx, wy := ctrl.WorldAt(float64(cx), float64(cy))
	ctrl.Spawn(wx, wy)
	if err := ctrl.Flush(); err != nil {
		res.err = err
		return res
	}

	probeX := cx + probe
	if probeX >= cfg.Width {
		probeX = cfg.Width - 1
	}
	probeIdx := probeX + cy*cfg.Width

	var heights []float32
	for frame := 1; frame <= maxFrames; frame++ {
		if err := ctrl.Update(); err != nil {
			res.err = err
			return res
		}
		heights = ctrl.Heights(heights)
		if d := float32(math.Abs(float64(heights[probeIdx]))); d > res.probePeak {
			res.probePeak = d
			res.probeFrame = frame
		}
		if ctrl.Depth() == 0 {
			res.lifetime = frame
			res.retired = true
			break
		}
		if cs := ctrl.Centres(nil); len(cs) > 0 {
			res.reach = float64(cs[0].Radius(cfg.Params))
		}
	}
	if !res.retired {
		res.lifetime = maxFrames
	}
	return res
}

// expectedLifetime is the frame on which the decay first drops below the
// cutoff, counting the retiring frame.
func expectedLifetime(base shockwave.Params, params paramSet) int {
	phase := base.InitialPhase
	frames := 0
	for math.Sin(math.Min(phase, math.Pi)) >= params.cutoff {
		phase += params.phaseStep
		frames++
	}
	return frames + 1
}
