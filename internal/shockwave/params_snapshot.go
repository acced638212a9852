package shockwave

import (
	"strconv"

	"shockwave/internal/core"
)

func (s *Sim) Parameters() core.ParameterSnapshot {
	params := s.ctrl.Params()
	stats := s.ctrl.Stats()
	groups := []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				intParam("w", "Width", s.cfg.Width),
				intParam("h", "Height", s.cfg.Height),
				int64Param("seed", "Seed", s.cfg.Seed),
				intParam("workers", "Workers", s.ctrl.sched.Workers()),
			},
		},
		{
			Name: "Wave",
			Params: []core.Parameter{
				floatParam("height_factor", "Height factor", params.HeightFactor),
				floatParam("wave_speed", "Wave speed", params.WaveSpeed),
				floatParam("ring_width", "Ring width", params.RingWidth),
				floatParam("initial_phase", "Initial phase", params.InitialPhase),
				floatParam("phase_step", "Phase step", params.PhaseStep),
				floatParam("rest_height", "Rest height", params.RestHeight),
				stringParam("blend", "Blend", string(params.Blend)),
			},
		},
		{
			Name: "Lifetime",
			Params: []core.Parameter{
				floatParam("cutoff", "Decay cutoff", params.Cutoff),
				floatParam("spawn_chance", "Spawn chance", params.SpawnChance),
			},
		},
		{
			Name: "Status",
			Params: []core.Parameter{
				intParam("active", "Active centres", stats.Active),
				uintParam("retired", "Retired", stats.Retired),
				uintParam("frames", "Frames", stats.Frames),
				uintParam("skipped", "Skipped updates", stats.Skipped),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values adjustable while the sim runs.
func (s *Sim) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		floatControl("height_factor", "Height", 0.5, 0.5, 20),
		floatControl("wave_speed", "Speed", 5, 0, 200),
		floatControl("ring_width", "Ring width", 0.5, 0.5, 20),
		floatControl("phase_step", "Phase step", 0.01, 0.01, 0.5),
		floatControl("cutoff", "Cutoff", 0.01, 0.01, 1),
		floatControl("spawn_chance", "Spawn chance", 0.01, 0, 1),
	}
}

// SetFloatParameter updates one tunable. Values that fail validation are
// rejected.
func (s *Sim) SetFloatParameter(key string, value float64) bool {
	p := s.ctrl.Params()
	switch key {
	case "height_factor":
		p.HeightFactor = value
	case "wave_speed":
		p.WaveSpeed = value
	case "ring_width":
		p.RingWidth = value
	case "phase_step":
		p.PhaseStep = value
	case "cutoff":
		p.Cutoff = value
	case "spawn_chance":
		p.SpawnChance = value
	case "rest_height":
		p.RestHeight = value
	default:
		return false
	}
	return s.ctrl.SetParams(p) == nil
}

func floatControl(key, label string, step, lo, hi float64) core.ParameterControl {
	return core.ParameterControl{
		Key:    key,
		Label:  label,
		Type:   core.ParamTypeFloat,
		Step:   step,
		Min:    lo,
		Max:    hi,
		HasMin: true,
		HasMax: true,
	}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func uintParam(key, label string, value uint64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatUint(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
