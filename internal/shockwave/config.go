package shockwave

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("shockwave: invalid config")

// Blend selects how successive fold passes of one frame combine in a cell.
type Blend string

const (
	// BlendOverwrite resets cells to rest height once per frame, then each
	// pass replaces the height of the cells its ring reaches. The last
	// centre visited in a frame (the oldest) wins where rings overlap.
	BlendOverwrite Blend = "overwrite"
	// BlendSum resets cells to rest height once per frame and adds every
	// centre's contribution.
	BlendSum Blend = "sum"
)

// Params holds the per-frame simulation constants. The controller copies
// them into each pass at launch time.
type Params struct {
	HeightFactor float64
	Cutoff       float64
	InitialPhase float64
	PhaseStep    float64
	WaveSpeed    float64
	RingWidth    float64
	RestHeight   float64
	Blend        Blend
	SpawnChance  float64
}

// Config controls the grid dimensions, scheduling and wave parameters.
type Config struct {
	Width  int
	Height int

	Seed int64

	Workers int
	Batch   int

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  96,
		Height: 64,
		Seed:   1337,
		Params: Params{
			HeightFactor: 4,
			Cutoff:       0.05,
			InitialPhase: math.Pi / 2,
			PhaseStep:    0.05,
			WaveSpeed:    40,
			RingWidth:    3,
			RestHeight:   0,
			Blend:        BlendOverwrite,
			SpawnChance:  0.02,
		},
	}
}

// Cells returns the number of grid cells.
func (c Config) Cells() int { return c.Width * c.Height }

// Validate reports the first configuration problem, wrapped in
// ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	return c.Params.Validate()
}

// Validate reports the first parameter problem, wrapped in ErrInvalidConfig.
func (p Params) Validate() error {
	switch {
	case p.Cutoff <= 0 || p.Cutoff > 1:
		return fmt.Errorf("%w: cutoff %g outside (0, 1]", ErrInvalidConfig, p.Cutoff)
	case p.PhaseStep <= 0:
		return fmt.Errorf("%w: phase step %g must be positive", ErrInvalidConfig, p.PhaseStep)
	case p.RingWidth <= 0:
		return fmt.Errorf("%w: ring width %g must be positive", ErrInvalidConfig, p.RingWidth)
	case p.WaveSpeed < 0:
		return fmt.Errorf("%w: wave speed %g must not be negative", ErrInvalidConfig, p.WaveSpeed)
	case p.SpawnChance < 0 || p.SpawnChance > 1:
		return fmt.Errorf("%w: spawn chance %g outside [0, 1]", ErrInvalidConfig, p.SpawnChance)
	}
	switch p.Blend {
	case BlendOverwrite, BlendSum:
	default:
		return fmt.Errorf("%w: unknown blend %q", ErrInvalidConfig, p.Blend)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Entries that fail to parse or are out of range keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["batch"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Batch = parsed
		}
	}
	if v, ok := cfg["height_factor"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.HeightFactor = parsed
		}
	}
	if v, ok := cfg["cutoff"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed <= 1 {
			c.Params.Cutoff = parsed
		}
	}
	if v, ok := cfg["initial_phase"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.InitialPhase = parsed
		}
	}
	if v, ok := cfg["phase_step"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.PhaseStep = parsed
		}
	}
	if v, ok := cfg["wave_speed"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.WaveSpeed = parsed
		}
	}
	if v, ok := cfg["ring_width"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.RingWidth = parsed
		}
	}
	if v, ok := cfg["rest_height"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.RestHeight = parsed
		}
	}
	if v, ok := cfg["blend"]; ok {
		switch b := Blend(v); b {
		case BlendOverwrite, BlendSum:
			c.Params.Blend = b
		}
	}
	if v, ok := cfg["spawn_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.SpawnChance = parsed
		}
	}
	return c
}
