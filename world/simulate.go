package world

import "math"

// Step advances every entity by one fixed tick. Pure per-entity arithmetic:
// no cross-entity interaction happens here.
func Step(w *World, dt float64) {
	for _, a := range w.Agars {
		vel := InputVelocity(a.Input, a.MaxVelocity)
		a.Position.X = clamp(a.Position.X+vel.X*dt, 0, WorldWidth)
		a.Position.Y = clamp(a.Position.Y+vel.Y*dt, 0, WorldHeight)
	}

	for _, b := range w.Balls {
		b.Position.X = wrap(b.Position.X+b.Velocity.X*dt, WorldWidth)
		b.Position.Y = wrap(b.Position.Y+b.Velocity.Y*dt, WorldHeight)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}
