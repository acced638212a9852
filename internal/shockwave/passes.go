package shockwave

import (
	"shockwave/internal/job"
	"shockwave/internal/scene"
)

// ScheduleFold launches the parallel pass that folds one centre into every
// cell after dep completes. The pass evaluates the centre as passed in; the
// caller advances the queued copy. In overwrite mode only cells the ring
// reaches are written, so the frame's rest pass must run first.
func ScheduleFold(s *job.Scheduler, centre WaveCentre, p Params, cells *CellBuffer, batch int, dep job.Handle) job.Handle {
	data := cells.live()
	wave := centre.front(p)
	rest := float32(p.RestHeight)
	sum := p.Blend == BlendSum
	return s.ParallelFor(len(data), batch, func(i int) {
		c := &data[i]
		h := wave.at(c.X, c.Y)
		switch {
		case sum:
			c.Height += h
		case h != 0:
			c.Height = rest + h
		}
		c.Folds++
	}, dep)
}

// ScheduleRest launches a pass that sets every cell to rest height.
func ScheduleRest(s *job.Scheduler, rest float32, cells *CellBuffer, batch int, dep job.Handle) job.Handle {
	data := cells.live()
	return s.ParallelFor(len(data), batch, func(i int) {
		data[i].Height = rest
	}, dep)
}

// ScheduleTransformSync launches the pass that copies each cell height into
// the Y coordinate of the transform with the same index.
func ScheduleTransformSync(s *job.Scheduler, cells *CellBuffer, transforms []*scene.Transform, batch int, dep job.Handle) job.Handle {
	data := cells.live()
	n := min(len(data), len(transforms))
	return s.ParallelFor(n, batch, func(i int) {
		if t := transforms[i]; t != nil {
			t.Position.Y = data[i].Height
		}
	}, dep)
}
