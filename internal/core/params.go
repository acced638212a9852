package core

import (
	"math"
	"strconv"
)

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeString denotes enumerated or free-form text parameters.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single tunable value exposed by a simulation.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures the current set of tunables exposed by a sim.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// Lookup finds a parameter by key across all groups.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, group := range s.Groups {
		for _, p := range group.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// ParameterProvider is implemented by sims that publish their tunables.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}

// ParameterControl describes an adjustable parameter that should be exposed on
// the HUD. Steps and bounds are optional and interpreted based on the
// parameter type.
type ParameterControl struct {
	Key   string
	Label string
	Type  ParamType

	Step float64

	Min    float64
	Max    float64
	HasMin bool
	HasMax bool
}

// Nudge returns value moved by direction steps and clamped to the control's
// bounds.
func (c ParameterControl) Nudge(value float64, direction int) float64 {
	step := c.Step
	if step <= 0 {
		step = 1
		if c.Type == ParamTypeFloat {
			step = 0.05
		}
	}
	target := value + float64(direction)*step
	if c.Type == ParamTypeInt {
		target = math.Round(target)
	}
	if c.HasMin && target < c.Min {
		target = c.Min
	}
	if c.HasMax && target > c.Max {
		target = c.Max
	}
	return target
}

// Format renders value with a precision derived from the control's step.
func (c ParameterControl) Format(value float64) string {
	if c.Type == ParamTypeInt {
		return strconv.Itoa(int(math.Round(value)))
	}
	precision := 1
	switch {
	case c.Step <= 0:
		precision = 2
	case c.Step < 0.001:
		precision = 4
	case c.Step < 0.01:
		precision = 3
	case c.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// ParameterControlsProvider exposes the list of HUD-adjustable controls.
type ParameterControlsProvider interface {
	ParameterControls() []ParameterControl
}

// IntParameterSetter allows HUD interactions to update integer parameters.
type IntParameterSetter interface {
	SetIntParameter(key string, value int) bool
}

// FloatParameterSetter allows HUD interactions to update floating point
// parameters.
type FloatParameterSetter interface {
	SetFloatParameter(key string, value float64) bool
}

// ApplyControl nudges the control's current value in sim by direction steps.
// It reports whether the sim accepted a changed value.
func ApplyControl(sim any, ctrl ParameterControl, direction int) bool {
	provider, ok := sim.(ParameterProvider)
	if !ok || direction == 0 {
		return false
	}
	param, ok := provider.Parameters().Lookup(ctrl.Key)
	if !ok {
		return false
	}
	current, err := strconv.ParseFloat(param.Value, 64)
	if err != nil {
		return false
	}
	target := ctrl.Nudge(current, direction)
	if math.Abs(target-current) < 1e-9 {
		return false
	}
	switch ctrl.Type {
	case ParamTypeInt:
		setter, ok := sim.(IntParameterSetter)
		return ok && setter.SetIntParameter(ctrl.Key, int(target))
	case ParamTypeFloat:
		setter, ok := sim.(FloatParameterSetter)
		return ok && setter.SetFloatParameter(ctrl.Key, target)
	}
	return false
}
