package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim     string
	Scale   int
	TPS     int
	Seed    int64
	HUD     int
	Verbose bool

	Width        int
	Height       int
	Workers      int
	HeightFactor float64
	Cutoff       float64
	PhaseStep    float64
	SpawnChance  float64
	Blend        string
	NoTemplate   bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:          "shockwave",
		Scale:        6,
		TPS:          60,
		Seed:         42,
		HUD:          220,
		Width:        96,
		Height:       64,
		HeightFactor: 4,
		Cutoff:       0.05,
		PhaseStep:    0.05,
		SpawnChance:  0.02,
		Blend:        "overwrite",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUD, "hud", c.HUD, "width of the parameter panel in pixels (0 hides it)")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "log spawn and retirement events")
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells")
	fs.IntVar(&c.Workers, "workers", c.Workers, "parallel-for workers (0 picks one per spare CPU)")
	fs.Float64Var(&c.HeightFactor, "height-factor", c.HeightFactor, "peak depth of a fresh wave")
	fs.Float64Var(&c.Cutoff, "cutoff", c.Cutoff, "decay factor below which a centre is retired (0-1]")
	fs.Float64Var(&c.PhaseStep, "phase-step", c.PhaseStep, "phase advance per frame in radians")
	fs.Float64Var(&c.SpawnChance, "spawn-chance", c.SpawnChance, "probability of a random spawn each tick")
	fs.StringVar(&c.Blend, "blend", c.Blend, "how overlapping waves combine: overwrite or sum")
	fs.BoolVar(&c.NoTemplate, "no-template", c.NoTemplate, "run without instancing markers (simulation stays idle)")
}

// SimOptions converts the flags into the key/value map sim factories accept.
func (c *Config) SimOptions() map[string]string {
	opts := map[string]string{
		"w":             strconv.Itoa(c.Width),
		"h":             strconv.Itoa(c.Height),
		"seed":          strconv.FormatInt(c.Seed, 10),
		"workers":       strconv.Itoa(c.Workers),
		"height_factor": strconv.FormatFloat(c.HeightFactor, 'f', -1, 64),
		"cutoff":        strconv.FormatFloat(c.Cutoff, 'f', -1, 64),
		"phase_step":    strconv.FormatFloat(c.PhaseStep, 'f', -1, 64),
		"spawn_chance":  strconv.FormatFloat(c.SpawnChance, 'f', -1, 64),
		"blend":         c.Blend,
	}
	if c.Verbose {
		opts["verbose"] = "true"
	}
	if c.NoTemplate {
		opts["template"] = "none"
	}
	return opts
}
