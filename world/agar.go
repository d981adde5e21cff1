package world

import (
	"math"

	"agar/protocol"
)

const (
	AgarInitRadius = 10.0
	AgarMaxRadius  = 1000.0

	// GrowthStep is how much an agar's radius grows per consumed feed.
	GrowthStep = 1.0

	WorldWidth  = 2000.0
	WorldHeight = 2000.0

	WindowWidth  = 1000.0
	WindowHeight = 1000.0
)

// MaxVelocity shrinks as the agar grows and bottoms out asymptotically.
func MaxVelocity(radius float64) float64 {
	return 1000.0 / (radius + 1.0 - AgarInitRadius)
}

// Agar is a player-controlled blob. Input is the raw vector reported by the
// client (cursor position in window space); it is only clamped when turned
// into world-space motion.
type Agar struct {
	Radius      float64
	Input       Vec2
	MaxVelocity float64
	Position    Vec3
}

func NewAgar() *Agar {
	return &Agar{
		Radius:      AgarInitRadius,
		MaxVelocity: MaxVelocity(AgarInitRadius),
	}
}

// Grow applies one feed's worth of growth and recomputes the speed cap.
func (a *Agar) Grow() {
	a.Radius = math.Min(a.Radius+GrowthStep, AgarMaxRadius)
	a.MaxVelocity = MaxVelocity(a.Radius)
}

// InputVelocity converts the raw input vector into world-space velocity,
// window-center relative, clamped in magnitude to max.
func InputVelocity(input Vec2, max float64) Vec3 {
	x := (input.X - WindowWidth/2.0) * 0.5
	y := (input.Y - WindowHeight/2.0) * 0.5
	l := math.Sqrt(x*x + y*y)
	if l == 0 {
		return Vec3{}
	}
	w := math.Min(l, max) / l
	return Vec3{X: x * w, Y: y * w}
}

func (a *Agar) ToWire() protocol.AgarUpdate {
	return protocol.AgarUpdate{
		Agar: protocol.AgarState{
			Radius:      a.Radius,
			Input:       a.Input.ToWire(),
			MaxVelocity: a.MaxVelocity,
		},
		Position: a.Position.ToWire(),
	}
}

func AgarFromWire(u protocol.AgarUpdate) *Agar {
	return &Agar{
		Radius:      u.Agar.Radius,
		Input:       Vec2FromWire(u.Agar.Input),
		MaxVelocity: u.Agar.MaxVelocity,
		Position:    Vec3FromWire(u.Position),
	}
}
