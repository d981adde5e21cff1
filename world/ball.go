package world

import "agar/protocol"

// Ball is the simpler game-mode entity: constant velocity, wraps at the
// world edges instead of clamping.
type Ball struct {
	Velocity Vec3
	Position Vec3
}

func (b *Ball) ToWire() protocol.BallUpdate {
	return protocol.BallUpdate{
		Velocity: b.Velocity.ToWire(),
		Position: b.Position.ToWire(),
	}
}

func BallFromWire(u protocol.BallUpdate) *Ball {
	return &Ball{
		Velocity: Vec3FromWire(u.Velocity),
		Position: Vec3FromWire(u.Position),
	}
}
