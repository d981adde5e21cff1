package world

import (
	"math"

	"agar/protocol"
)

type Vec2 struct {
	X, Y float64
}

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec2) ToWire() protocol.Vec2 {
	return protocol.Vec2{X: v.X, Y: v.Y}
}

func Vec2FromWire(v protocol.Vec2) Vec2 {
	return Vec2{X: v.X, Y: v.Y}
}

func (v Vec3) ToWire() protocol.Vec3 {
	return protocol.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func Vec3FromWire(v protocol.Vec3) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

func (v Vec3) DistanceTo(o Vec3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
