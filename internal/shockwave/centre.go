package shockwave

import "math"

// WaveCentre is an active disturbance: a world-space origin, a signed
// amplitude scale and a phase that only moves forward while the centre lives.
type WaveCentre struct {
	X, Y      float32
	Amplitude float32
	Phase     float32
}

// NewCentre builds a freshly spawned centre at world position (x, y). The
// amplitude is negative so new waves push the surface down.
func NewCentre(x, y float32, p Params) WaveCentre {
	return WaveCentre{
		X:         x,
		Y:         y,
		Amplitude: float32(-p.HeightFactor),
		Phase:     float32(p.InitialPhase),
	}
}

// Decay returns the damping factor for phase: sin(phase) up to pi and zero
// after it, so it never rises again once it has fallen past a cutoff.
func Decay(phase float32) float32 {
	ph := float64(phase)
	if ph >= math.Pi {
		return 0
	}
	d := math.Sin(ph)
	if d < 0 {
		return 0
	}
	return float32(d)
}

// Decay returns the centre's current damping factor.
func (c WaveCentre) Decay() float32 { return Decay(c.Phase) }

// Advance moves the phase forward by step. Negative steps are ignored.
func (c *WaveCentre) Advance(step float32) {
	if step > 0 {
		c.Phase += step
	}
}

// Radius is the distance the ring has travelled since the centre spawned.
func (c WaveCentre) Radius(p Params) float32 {
	r := (float64(c.Phase) - p.InitialPhase) * p.WaveSpeed
	if r < 0 {
		return 0
	}
	return float32(r)
}

// Contribution is the height the centre adds at world position (x, y).
func (c WaveCentre) Contribution(x, y float32, p Params) float32 {
	return c.front(p).at(x, y)
}

// front captures everything a fold pass needs from one centre.
type front struct {
	x, y      float32
	radius    float32
	amplitude float32
	width     float32
}

func (c WaveCentre) front(p Params) front {
	return front{
		x:         c.X,
		y:         c.Y,
		radius:    c.Radius(p),
		amplitude: c.Amplitude * c.Decay(),
		width:     float32(p.RingWidth),
	}
}

// at evaluates a cosine bump of half-width f.width centred on the ring.
func (f front) at(x, y float32) float32 {
	if f.amplitude == 0 || f.width <= 0 {
		return 0
	}
	dx := float64(x - f.x)
	dy := float64(y - f.y)
	offset := math.Sqrt(dx*dx+dy*dy) - float64(f.radius)
	if math.Abs(offset) >= float64(f.width) {
		return 0
	}
	return f.amplitude * float32(math.Cos(math.Pi/2*offset/float64(f.width)))
}
